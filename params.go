package wavesynth

import "math"

// ParamID identifies one entry of the engine's parameter table, matching the
// numbering of the host-facing parameter list.
type ParamID int

// Parameter identifiers, numbered as the host-facing parameter list.
const (
	ParamFrame ParamID = 1 + iota
	ParamVolume
	ParamSemitone
	ParamPitchMult
	ParamGlideOn
	ParamGlideTime
	ParamGlideMult

	paramCount = int(ParamGlideMult)
)

// paramTable holds the engine's global parameters. The Engine guards it with
// its mutex: SetParameter writes it, and NoteOn and Process copy the values
// they need, under that mutex.
type paramTable struct {
	frame      int
	volume     float64
	semitone   float64
	pitchMult  float64
	glideOn    bool
	glideTime  float64
	glideMult  float64
}

// defaultParamTable returns the parameter table's documented default values.
func defaultParamTable() paramTable {
	return paramTable{
		frame:     0,
		volume:    defaultVolume,
		semitone:  defaultSemitone,
		pitchMult: defaultPitchMult,
		glideOn:   false,
		glideTime: defaultGlideTime,
		glideMult: defaultGlideMult,
	}
}

// set applies a value to the given parameter, clamping to its documented
// range. Frame is clamped to [0, maxFrame] (maxFrame is always MaxFrames-1,
// since every wavetable holds exactly MaxFrames frames). A non-positive
// Pitch-Mult or Glide-Mult is coerced to 1.0.
func (pt *paramTable) set(id ParamID, value float64, maxFrame int) {
	switch id {
	case ParamFrame:
		f := int(value)
		if f < 0 {
			f = 0
		}
		if f > maxFrame {
			f = maxFrame
		}
		pt.frame = f
	case ParamVolume:
		pt.volume = clamp(value, 0, 1)
	case ParamSemitone:
		pt.semitone = clamp(value, -72, 36)
	case ParamPitchMult:
		if value <= 0 {
			value = 1.0
		}
		pt.pitchMult = clamp(value, 0.25, 4.0)
	case ParamGlideOn:
		pt.glideOn = value != 0
	case ParamGlideTime:
		pt.glideTime = clamp(value, 0, 5)
	case ParamGlideMult:
		if value <= 0 {
			value = 1.0
		}
		pt.glideMult = clamp(value, 0.25, 4.0)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EngineConfig configures a new Engine.
type EngineConfig struct {
	// SampleRate is the host sample rate in Hz.
	SampleRate float64
	// BlockSize is a hint for the largest block Process will be called with;
	// it is not a hard limit, but voices are internally processed in
	// SliceLen chunks regardless.
	BlockSize int
}

// Validate reports whether the config's fields are within usable ranges.
func (c EngineConfig) Validate() error {
	if c.SampleRate <= 0 || math.IsNaN(c.SampleRate) || math.IsInf(c.SampleRate, 0) {
		return configErrorf(ErrEngineConfig, "sample rate %v must be positive and finite", c.SampleRate)
	}
	if c.BlockSize < 0 {
		return configErrorf(ErrEngineConfig, "block size %d must be non-negative", c.BlockSize)
	}
	return nil
}

// NoteEvent triggers a voice.
type NoteEvent struct {
	// Voice selects which of the engine's MaxVoices slots to (re)trigger.
	Voice int
	// MIDINote is the note number, clamped to [0, 127].
	MIDINote int
	// Velocity is in [0, 1]; it is stored on the voice but does not affect
	// amplitude (envelope/amplitude modulation is out of scope).
	Velocity float64
	// Frame is the initial frame index for this voice.
	Frame int
	// Semitone and PitchMult seed the voice's per-voice pitch offset and
	// multiplier on top of the engine's global Semitone/Pitch-Mult
	// parameters.
	Semitone  float64
	PitchMult float64
}
