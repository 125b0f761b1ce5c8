// Package wavesynth implements the core of a polyphonic wavetable synthesis
// engine: a band-limited fractional resampler per voice, a per-voice
// frame-switch crossfader, and an asynchronous mipmap table-builder
// hand-off. See doc.go for an overview.
package wavesynth

// Wavetable layout constants.
const (
	// FrameSize is the length in samples of one single-cycle waveform.
	FrameSize = 2048

	// MaxFrames is the fixed number of frames every wavetable holds.
	MaxFrames = 256

	// tripleFactor is the number of back-to-back copies of each frame stored
	// in the triple-replicated table layout, eliminating wraparound branches
	// in the FIR lookback.
	tripleFactor = 3

	// FrameStride is the number of samples each frame occupies in the
	// triple-replicated layout.
	FrameStride = FrameSize * tripleFactor

	// MaxSamples is the exact length of a raw mono source buffer accepted by
	// the wavetable producer.
	MaxSamples = FrameSize * MaxFrames

	// TripledSamples is the length of the triplicated table the mipmap
	// pyramid is built from.
	TripledSamples = FrameStride * MaxFrames
)

// Pitch and level constants.
const (
	// BitsPerOctave is the fixed-point pitch unit: one octave = 1<<BitsPerOctave.
	BitsPerOctave = 16

	// semisPerOctave is the number of semitones in one octave.
	semisPerOctave = 12.0

	// semiToBits converts semitones to pitch bits.
	semiToBits = float64(int64(1)<<BitsPerOctave) / semisPerOctave

	// mipLevelCount is the number of mipmap levels the engine builds.
	mipLevelCount = 12

	// targetRootHz is the reference frequency (C1) pitch offsets are computed
	// against.
	targetRootHz = 32.703195

	// midiRootOffset shifts MIDI note number into semitones relative to the
	// table's root note.
	midiRootOffset = 24
)

// Voice and mixing constants.
const (
	// MaxVoices bounds the engine's polyphony.
	MaxVoices = 16

	// SliceLen is the block sub-slice size the engine mixer processes voices
	// in, bounding pending-frame-switch and glide latency.
	SliceLen = 8

	// FadeLenSamples is the number of samples a frame-switch or mipmap-level
	// crossfade takes to complete. Not numerically specified upstream; see
	// DESIGN.md.
	FadeLenSamples = 512

	// defaultVolume is the engine's default linear output gain.
	defaultVolume = 0.8

	// defaultSemitone is the engine's default semitone offset.
	defaultSemitone = -12.0

	// defaultPitchMult is the engine's default pitch multiplier.
	defaultPitchMult = 1.0

	// defaultGlideTime is the engine's default glide ramp duration in seconds.
	defaultGlideTime = 0.1

	// defaultGlideMult is the engine's default glide target multiplier.
	defaultGlideMult = 1.0
)

// Random start-phase window, as a percentage of one frame cycle: 17% at
// MIDI note 0, rising linearly to 60% at MIDI note 127.
const (
	startPhaseMinPercent = 17.0
	startPhaseMaxPercent = 60.0
	midiNoteMax          = 127.0
)
