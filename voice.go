package wavesynth

import (
	"math"
	"math/rand"

	"github.com/gowave/wavesynth/internal/kernel"
)

// voice is one polyphonic note slot: an A/B lane pair crossfaded across
// frame switches ("Voice Pack and Frame Switch"), plus the pitch and glide
// state shared by both lanes.
type voice struct {
	index int

	active   bool
	midiNote float64
	velocity float64

	frameParam int // current foreground frame index
	pendFrame  int
	pendFlag   bool

	laneA, laneB *voiceLane
	toggle       bool // false: A is foreground; true: B is foreground

	fading    bool
	fadeAlpha float64

	semiOffset         float64
	voicePitchMultSemi float64 // per-voice contribution, from NoteEvent.PitchMult
	pitchMultSemi      float64 // voicePitchMultSemi + the engine's global Pitch-Mult
	pitchBits          int64

	glideOn             bool
	glideCurBits        float64
	glideTargetBits     float64
	glideStepBitsPerSmp float64
	glideRemaining      int64

	rng *rand.Rand
}

// newVoice allocates a voice with both lanes sharing the given interpolator
// pack. index seeds both the voice's detune LUT lookup and its random start
// phase generator.
func newVoice(index int, interp *kernel.InterpolatorPack) *voice {
	return &voice{
		index:  index,
		laneA:  newVoiceLane(interp),
		laneB:  newVoiceLane(interp),
		rng:    rand.New(rand.NewSource(int64(index)*-7046029254386353131 + 1)), // int64 two's complement of 0x9E3779B97F4A7C15
		toggle: false,
	}
}

func (v *voice) foreground() *voiceLane {
	if v.toggle {
		return v.laneB
	}
	return v.laneA
}

func (v *voice) background() *voiceLane {
	if v.toggle {
		return v.laneA
	}
	return v.laneB
}

// setWavetable installs a wavetable on both lanes. Called whenever the
// engine publishes a new table; each lane that already held a table
// crossfades from it.
func (v *voice) setWavetable(wt *Wavetable) {
	v.laneA.setSample(wt.Pyramid())
	v.laneB.setSample(wt.Pyramid())
}

// noteOn (re)triggers the voice: reseeds a randomized start phase within the
// requested frame, installs the current pitch on both lanes, and marks the
// voice active.
func (v *voice) noteOn(ev NoteEvent, globalSemi, globalPitchMultSemi, rootOffSemis float64) {
	v.active = true
	v.midiNote = float64(clampInt(ev.MIDINote, 0, 127))
	v.velocity = clamp(ev.Velocity, 0, 1)
	v.semiOffset = ev.Semitone
	v.voicePitchMultSemi = pitchMultToSemis(ev.PitchMult)
	v.pitchMultSemi = globalPitchMultSemi + v.voicePitchMultSemi

	v.frameParam = clampInt(ev.Frame, 0, MaxFrames-1)
	v.pendFrame = v.frameParam
	v.pendFlag = false
	v.toggle = false
	v.fading = false
	v.fadeAlpha = 1

	fraction := startPhaseFraction(v.midiNote)
	maxR := int64(float64(FrameSize) * fraction)
	if maxR < 1 {
		maxR = 1
	}
	randOffset := v.rng.Int63n(maxR)
	startPos := newFixedPos(frameStart(v.frameParam)+randOffset, uint32(v.rng.Uint32()))

	v.laneA.setPlaybackPos(startPos)
	v.laneA.fadeout.pos = startPos
	v.laneB.setPlaybackPos(startPos)
	v.laneB.fadeout.pos = startPos

	v.pitchBits = computePitchBits(v.midiNote, globalSemi, v.semiOffset, v.pitchMultSemi, rootOffSemis, v.index)
	v.laneA.setPitch(v.pitchBits)
	v.laneB.setPitch(v.pitchBits)

	v.glideOn = false
	v.glideCurBits = 0
	v.glideRemaining = 0
}

// requestFrame records a frame-change request, applied at the next slice
// boundary via switchFrame. newFrame is clamped to a valid frame index.
func (v *voice) requestFrame(newFrame, frameCount int) {
	if frameCount <= 0 {
		frameCount = MaxFrames
	}
	newFrame = clampInt(newFrame, 0, frameCount-1)
	if newFrame == v.frameParam {
		return
	}
	v.pendFrame = newFrame
	v.pendFlag = true
}

// switchFrame executes a pending frame change, preserving the intra-cycle
// phase: the background lane is seeded at the same offset within the new
// frame's cycle that the foreground lane currently holds within the old
// one, then the two lanes swap foreground roles with a linear crossfade.
func (v *voice) switchFrame() {
	if !v.pendFlag {
		return
	}

	fg := v.foreground()
	bg := v.background()

	pos := fg.getPlaybackPos()
	rel := ((pos.intPart() - frameStart(v.frameParam)) % FrameSize)
	if rel < 0 {
		rel += FrameSize
	}

	newPos := newFixedPos(frameStart(v.pendFrame)+rel, pos.frac())
	bg.setPlaybackPos(newPos)
	bg.setPitch(v.pitchBits)

	v.fading = true
	v.fadeAlpha = 0
	v.toggle = !v.toggle
	v.frameParam = v.pendFrame
	v.pendFlag = false
}

// wrap normalizes the foreground lane's integer position back into
// [frameStart[frameParam], frameStart[frameParam]+FrameSize), preserving the
// fractional part. FrameSize is a power of two so this is a bitmask.
func (v *voice) wrap() {
	fg := v.foreground()
	pos := fg.getPlaybackPos()
	base := frameStart(v.frameParam)
	rel := (pos.intPart() - base) & (FrameSize - 1)
	fg.setPlaybackPos(newFixedPos(base+rel, pos.frac()))
}

// beginGlide starts (or retargets) a portamento ramp toward glideMult
// applied on top of the voice's current base pitch, over glideTime seconds.
func (v *voice) beginGlide(glideMult, glideTime, sampleRate float64) {
	target := float64(semisToBits(pitchMultToSemis(glideMult)))
	samples := glideTime * sampleRate
	if samples < 1 {
		samples = 1
	}
	v.glideTargetBits = target
	v.glideStepBitsPerSmp = (v.glideTargetBits - v.glideCurBits) / samples
	v.glideRemaining = int64(math.Ceil(samples))
}

// advanceGlide steps the glide ramp forward by n samples (a slice length),
// snapping exactly to the target once the ramp completes so there is no
// residual drift.
func (v *voice) advanceGlide(n int64) {
	if !v.glideOn || v.glideRemaining <= 0 {
		return
	}
	adv := n
	if adv > v.glideRemaining {
		adv = v.glideRemaining
	}
	v.glideCurBits += v.glideStepBitsPerSmp * float64(adv)
	v.glideRemaining -= adv
	if v.glideRemaining <= 0 {
		v.glideCurBits = v.glideTargetBits
	}
}

// applyPitch installs the voice's base pitch plus its current glide offset
// on the foreground lane, and on the background lane too while a frame
// switch is fading out.
func (v *voice) applyPitch() {
	eff := v.pitchBits + int64(math.Round(v.glideCurBits))
	v.foreground().setPitch(eff)
	if v.fading {
		v.background().setPitch(eff)
	}
}

// produce writes len(dest) samples into dest by running the foreground lane
// (and, during a frame switch, the background lane) and linearly crossfading
// them over FadeLenSamples. dest must be no longer than SliceLen, the
// engine's per-slice chunk size.
func (v *voice) produce(dest []float32) {
	v.foreground().produce(dest)
	if !v.fading {
		return
	}

	var scratch [SliceLen]float32
	bg := scratch[:len(dest)]
	v.background().produce(bg)

	step := 1.0 / float64(FadeLenSamples)
	for i := range dest {
		alpha := float32(v.fadeAlpha)
		dest[i] = alpha*dest[i] + (1-alpha)*bg[i]
		v.fadeAlpha += step
		if v.fadeAlpha >= 1 {
			v.fadeAlpha = 1
			v.fading = false
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
