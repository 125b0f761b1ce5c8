package wavesynth

import (
	"fmt"
	"math"

	"github.com/gowave/wavesynth/internal/mipmap"
)

// WavetableConfig configures a new Wavetable.
type WavetableConfig struct {
	// SampleRate is the sample rate the source frames were captured at,
	// stored for informational purposes (frame pitch is host-note-relative,
	// not sample-rate-relative).
	SampleRate float64
}

// Validate reports whether the config's fields are within usable ranges.
func (c WavetableConfig) Validate() error {
	if c.SampleRate <= 0 || math.IsNaN(c.SampleRate) || math.IsInf(c.SampleRate, 0) {
		return configErrorf(ErrWavetableConfig, "sample rate %v must be positive and finite", c.SampleRate)
	}
	return nil
}

// Wavetable holds a triple-replicated, mono, single-cycle-per-frame sample
// table plus a band-limited mipmap pyramid built from it. It always holds
// exactly MaxFrames frames (unused slots are silence). It is immutable once
// built: publishing a new table means constructing a new Wavetable and
// swapping it into an Engine or TableBuilder, never mutating one in place.
type Wavetable struct {
	table   []float32 // TripledSamples long
	pyramid *mipmap.Pyramid
}

// frameStart returns the sample offset of the middle (usable) copy of frame
// k within the triple-replicated table.
func frameStart(k int) int64 { return int64(k)*FrameStride + FrameSize }

// NewWavetable triplicates raw (one cycle per frame, FrameSize samples each,
// concatenated, MaxFrames frames' worth) into the internal layout and builds
// its mipmap pyramid. raw's length must be exactly MaxSamples; frames beyond
// what the caller cares to fill are simply silence.
func NewWavetable(raw []float32, cfg WavetableConfig) (*Wavetable, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(raw) != MaxSamples {
		return nil, fmt.Errorf("%w: length %d, want exactly %d", ErrFrameCount, len(raw), MaxSamples)
	}
	return buildWavetable(raw)
}

// buildWavetable triplicates raw into a fresh table and constructs its
// pyramid, shared by NewWavetable and BlendWavetables. raw must already be
// exactly MaxSamples long.
func buildWavetable(raw []float32) (*Wavetable, error) {
	table := make([]float32, TripledSamples)
	for f := 0; f < MaxFrames; f++ {
		src := raw[f*FrameSize : (f+1)*FrameSize]
		dst := table[f*FrameStride:]
		copy(dst[0:FrameSize], src)
		copy(dst[FrameSize:2*FrameSize], src)
		copy(dst[2*FrameSize:3*FrameSize], src)
	}

	pyr, err := mipmap.NewPyramid(int64(len(table)))
	if err != nil {
		return nil, err
	}
	if err := pyr.Fill(table); err != nil {
		return nil, err
	}

	return &Wavetable{table: table, pyramid: pyr}, nil
}

// BlendWavetables combines two source buffers (each raw, pre-triplication,
// exactly MaxSamples samples) with equal-power weights derived from mix ∈
// [0,1]: weight 0 plays only a, weight 1 plays only b. Either source may be
// nil to pass the other through unchanged.
func BlendWavetables(a, b []float32, mix float64, cfg WavetableConfig) (*Wavetable, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if a == nil && b == nil {
		return nil, fmt.Errorf("%w: no source buffers supplied", ErrWavetableConfig)
	}
	if a != nil && b != nil && len(a) != len(b) {
		return nil, ErrBlendMismatch
	}
	if a != nil && len(a) != MaxSamples {
		return nil, fmt.Errorf("%w: length %d, want exactly %d", ErrFrameCount, len(a), MaxSamples)
	}
	if b != nil && len(b) != MaxSamples {
		return nil, fmt.Errorf("%w: length %d, want exactly %d", ErrFrameCount, len(b), MaxSamples)
	}

	mix = clamp(mix, 0, 1)
	raw := make([]float32, MaxSamples)

	switch {
	case a != nil && b != nil:
		angle := mix * math.Pi / 2
		g0, g1 := float32(math.Cos(angle)), float32(math.Sin(angle))
		for i := range raw {
			raw[i] = g0*a[i] + g1*b[i]
		}
	case a != nil:
		copy(raw, a)
	default:
		copy(raw, b)
	}

	return buildWavetable(raw)
}

// FrameCount reports the number of frames a Wavetable holds. It is always
// MaxFrames.
func (w *Wavetable) FrameCount() int { return MaxFrames }

// Pyramid returns the wavetable's mipmap pyramid.
func (w *Wavetable) Pyramid() *mipmap.Pyramid { return w.pyramid }
