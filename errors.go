package wavesynth

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the public API. Use [errors.Is] to test for
// them; wrapped errors from internal packages (mipmap fill overflow, pyramid
// not-ready) are surfaced through these where the condition is user-facing.
var (
	// ErrWavetableConfig is returned by NewWavetable when a config field is
	// out of range.
	ErrWavetableConfig = errors.New("wavesynth: invalid wavetable config")

	// ErrFrameCount is returned when a raw source buffer's length is not
	// exactly MaxSamples.
	ErrFrameCount = errors.New("wavesynth: invalid frame count")

	// ErrBlendMismatch is returned by BlendWavetables when the two source
	// tables do not share a frame count.
	ErrBlendMismatch = errors.New("wavesynth: blend sources have different frame counts")

	// ErrNoWavetable is returned by Engine operations that require a
	// wavetable to already be published.
	ErrNoWavetable = errors.New("wavesynth: no wavetable set")

	// ErrVoiceRange is returned when a voice index is outside [0, MaxVoices).
	ErrVoiceRange = errors.New("wavesynth: voice index out of range")

	// ErrFrameRange is returned when a requested frame index is outside a
	// wavetable's frame count.
	ErrFrameRange = errors.New("wavesynth: frame index out of range")

	// ErrEngineConfig is returned by NewEngine when a config field is out of
	// range.
	ErrEngineConfig = errors.New("wavesynth: invalid engine config")
)

// configErrorf wraps ErrWavetableConfig/ErrEngineConfig with a detail message,
// matching the teacher's sentinel-plus-%w wrapping idiom.
func configErrorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
