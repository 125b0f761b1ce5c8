package wavesynth

import (
	"sync"
	"sync/atomic"

	"github.com/gowave/wavesynth/internal/kernel"
)

// Engine mixes up to MaxVoices independently pitched, independently
// frame-switching voices into a mono buffer, then duplicates it to stereo.
// [Engine.Process] and [Engine.NoteOn] are intended for a single real-time
// caller; [Engine.SetParameter] and [Engine.SetWavetable] may be called from
// other goroutines (see the package doc's concurrency note).
type Engine struct {
	cfg    EngineConfig
	interp *kernel.InterpolatorPack

	// rootOffSemis is the semitone correction between a wavetable frame's
	// natural playback rate at cfg.SampleRate and the absolute target root
	// frequency, computed once here so every voice's pitch is anchored to a
	// true frequency rather than to cfg.SampleRate/FrameSize.
	rootOffSemis float64

	wavetable atomic.Pointer[Wavetable]

	mu     sync.Mutex
	params paramTable

	voices [MaxVoices]*voice
	mixBuf []float32
}

// NewEngine constructs an Engine. The interpolator pack is built once here
// (via [kernel.NewDefaultInterpolatorPack]) and shared read-only by every
// voice lane.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	interp, err := kernel.NewDefaultInterpolatorPack()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:          cfg,
		interp:       interp,
		params:       defaultParamTable(),
		rootOffSemis: rootOffsetSemis(cfg.SampleRate),
	}
	for i := range e.voices {
		e.voices[i] = newVoice(i, interp)
	}
	if cfg.BlockSize > 0 {
		e.mixBuf = make([]float32, cfg.BlockSize)
	}
	return e, nil
}

// SetWavetable publishes a new wavetable, installing it on every voice.
// Voices already sustaining a note crossfade into it via their lanes'
// mip-level/table fade rather than jumping discontinuously.
func (e *Engine) SetWavetable(wt *Wavetable) {
	e.wavetable.Store(wt)
	for _, v := range e.voices {
		v.setWavetable(wt)
	}
}

// Wavetable returns the currently published wavetable, or nil.
func (e *Engine) Wavetable() *Wavetable { return e.wavetable.Load() }

// NoteOn triggers the voice at ev.Voice. It returns ErrVoiceRange or
// ErrFrameRange for an out-of-range voice or frame, and ErrNoWavetable if no
// wavetable has been published yet.
func (e *Engine) NoteOn(ev NoteEvent) error {
	if ev.Voice < 0 || ev.Voice >= MaxVoices {
		return ErrVoiceRange
	}
	wt := e.wavetable.Load()
	if wt == nil {
		return ErrNoWavetable
	}
	if ev.Frame < 0 || ev.Frame >= MaxFrames {
		return ErrFrameRange
	}

	e.mu.Lock()
	p := e.params
	e.mu.Unlock()

	v := e.voices[ev.Voice]
	v.setWavetable(wt)
	v.noteOn(ev, p.semitone, pitchMultToSemis(p.pitchMult), e.rootOffSemis)
	if p.glideOn {
		v.glideOn = true
		v.beginGlide(p.glideMult, p.glideTime, e.cfg.SampleRate)
	}
	return nil
}

// SetParameter updates one entry of the engine's global parameter table. It
// may be called from any goroutine. Volume is read once at the start of each
// Process call; the other parameters take effect at the next slice boundary
// within Process.
func (e *Engine) SetParameter(id ParamID, value float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const maxFrame = MaxFrames - 1

	wasGlideOn := e.params.glideOn
	wasGlideTime := e.params.glideTime
	wasGlideMult := e.params.glideMult

	e.params.set(id, value, maxFrame)

	switch id {
	case ParamFrame:
		for _, v := range e.voices {
			if v.active {
				v.requestFrame(e.params.frame, maxFrame+1)
			}
		}
	case ParamSemitone, ParamPitchMult:
		globalPitchMultSemi := pitchMultToSemis(e.params.pitchMult)
		for _, v := range e.voices {
			if v.active {
				v.pitchMultSemi = globalPitchMultSemi + v.voicePitchMultSemi
				v.pitchBits = computePitchBits(v.midiNote, e.params.semitone, v.semiOffset, v.pitchMultSemi, e.rootOffSemis, v.index)
			}
		}
	case ParamGlideOn:
		if e.params.glideOn && !wasGlideOn {
			for _, v := range e.voices {
				if v.active {
					v.glideOn = true
					v.beginGlide(e.params.glideMult, e.params.glideTime, e.cfg.SampleRate)
				}
			}
		} else if !e.params.glideOn {
			for _, v := range e.voices {
				v.glideOn = false
				v.glideCurBits = 0
				v.glideRemaining = 0
			}
		}
	case ParamGlideTime:
		if e.params.glideOn && wasGlideTime != e.params.glideTime {
			for _, v := range e.voices {
				if v.active {
					v.beginGlide(e.params.glideMult, e.params.glideTime, e.cfg.SampleRate)
				}
			}
		}
	case ParamGlideMult:
		if e.params.glideOn && wasGlideMult != e.params.glideMult {
			for _, v := range e.voices {
				if v.active {
					v.beginGlide(e.params.glideMult, e.params.glideTime, e.cfg.SampleRate)
				}
			}
		}
	}
}

// Process renders len(outLeft) samples into outLeft and outRight (mono
// content duplicated to both, per the mono-synthesis Non-goal), running
// voices in fixed SliceLen chunks so parameter changes and pending frame
// switches take effect with bounded latency.
func (e *Engine) Process(outLeft, outRight []float32) {
	n := len(outLeft)
	if len(outRight) < n {
		n = len(outRight)
	}

	if cap(e.mixBuf) < SliceLen {
		e.mixBuf = make([]float32, SliceLen)
	}
	mix := e.mixBuf[:SliceLen]

	e.mu.Lock()
	volume := e.params.volume
	e.mu.Unlock()

	var scratch [SliceLen]float32

	for off := 0; off < n; off += SliceLen {
		sliceLen := SliceLen
		if off+sliceLen > n {
			sliceLen = n - off
		}
		slice := mix[:sliceLen]
		for i := range slice {
			slice[i] = 0
		}

		for _, v := range e.voices {
			if !v.active {
				continue
			}
			v.switchFrame()
			v.advanceGlide(int64(sliceLen))
			v.applyPitch()
			v.wrap()

			buf := scratch[:sliceLen]
			v.produce(buf)
			for i, s := range buf {
				slice[i] += s
			}
		}

		for i, s := range slice {
			outLeft[off+i] = s * float32(volume)
			outRight[off+i] = outLeft[off+i]
		}
	}
}
