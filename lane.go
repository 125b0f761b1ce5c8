package wavesynth

import (
	"math"

	"github.com/gowave/wavesynth/internal/kernel"
	"github.com/gowave/wavesynth/internal/mipmap"
)

// fixedPos is a 32.32 fixed-point playback position, always expressed in
// level-0 (source table) sample units regardless of which mip level is
// currently being read. Reprojecting into a decimated level's own
// coordinate space is a pure read-time operation (atLevel), so no cursor
// ever loses precision by being carried across a level change.
type fixedPos int64

// atLevel reprojects a level-0 position into mip level L's coordinate space:
// level L's buffer is level 0 decimated by exactly 2^L, so this is a single
// arithmetic right shift.
func (p fixedPos) atLevel(level int) fixedPos { return p >> uint(level) }
func (p fixedPos) intPart() int64             { return int64(p >> 32) }
func (p fixedPos) frac() uint32               { return uint32(p) }

func newFixedPos(intPart int64, frac uint32) fixedPos {
	return fixedPos(intPart<<32) | fixedPos(frac)
}

// baseVoiceState is one mip-level-bound playback cursor: which pyramid and
// level to read from, and the current position (always kept in level-0 units).
type baseVoiceState struct {
	pyramid *mipmap.Pyramid
	level   int
	pos     fixedPos
}

// voiceLane is the FIR-interpolated, mip-level-crossfaded resampler for one
// A/B slot of a voice: the "Voice Lane Resampler". It owns a foreground
// (current) and a fade-out cursor, each bound to its own pyramid, crossfading between
// mip levels whenever a pitch change crosses a level boundary, and between
// pyramids whenever the underlying wavetable is replaced while the lane is
// live.
type voiceLane struct {
	interp *kernel.InterpolatorPack

	pyramid *mipmap.Pyramid
	current baseVoiceState
	fadeout baseVoiceState

	fading  bool
	fadePos int

	// step is the per-output-sample position advance, in level-0 units.
	step fixedPos
}

// newVoiceLane creates a lane sharing the given interpolator pack.
func newVoiceLane(interp *kernel.InterpolatorPack) *voiceLane {
	return &voiceLane{interp: interp}
}

// mipLevelForPitch picks the most-decimated level whose Nyquist still covers
// the played frequency: level increases by one per octave the pitch is
// raised above unity, clamped to the pyramid's level count. Pitching down
// never needs decimation, so non-positive pitch always uses level 0.
func mipLevelForPitch(pitchBits int64, levelCount int) int {
	if pitchBits <= 0 {
		return 0
	}
	level := int(pitchBits >> BitsPerOctave)
	if level >= levelCount {
		level = levelCount - 1
	}
	return level
}

// setStep recomputes the per-sample position advance from pitch bits: one
// octave of pitch bits doubles the advance.
func (l *voiceLane) setStep(pitchBits int64) {
	octaves := float64(pitchBits) / float64(int64(1)<<BitsPerOctave)
	rate := math.Exp2(octaves)
	l.step = fixedPos(rate * (1 << 32))
}

// setSample installs a new pyramid. If the lane already had one, the
// previous pyramid is kept alive on the fade-out cursor (Go's garbage
// collector, not manual refcounting, keeps it alive exactly as long as
// fadeout references it) and crossfaded out over FadeLenSamples; otherwise
// the new pyramid is simply installed with no fade.
func (l *voiceLane) setSample(pyr *mipmap.Pyramid) {
	if l.pyramid != nil {
		l.beginFade()
	}
	l.pyramid = pyr
	l.current.pyramid = pyr
	if l.current.level >= pyr.LevelCount() {
		l.current.level = pyr.LevelCount() - 1
	}
}

// setPitch installs a new pitch. If the resulting mip level differs from the
// current one, the current cursor is duplicated into the fade-out cursor
// (preserving its old level and exact position) before the foreground
// cursor switches level.
func (l *voiceLane) setPitch(pitchBits int64) {
	l.setStep(pitchBits)
	if l.pyramid == nil {
		return
	}
	newLevel := mipLevelForPitch(pitchBits, l.pyramid.LevelCount())
	if newLevel == l.current.level {
		return
	}
	l.beginFade()
	l.current.level = newLevel
}

// beginFade snapshots the current cursor into the fade-out cursor and resets
// the crossfade counter. Both cursors share the same level-0 position, so
// they read the identical instant of the signal through two different mip
// levels (or, on a sample-table replacement, two different pyramids) during
// the fade.
func (l *voiceLane) beginFade() {
	l.fadeout = l.current
	l.fading = true
	l.fadePos = 0
}

// setPlaybackPos sets the foreground cursor's position, in level-0 sample
// units.
func (l *voiceLane) setPlaybackPos(pos fixedPos) { l.current.pos = pos }

// getPlaybackPos returns the foreground cursor's position, in level-0 sample
// units.
func (l *voiceLane) getPlaybackPos() fixedPos { return l.current.pos }

// clearBuffers is a no-op placeholder matching the teacher's stateless-FIR
// convention: the interpolator pack holds no per-lane FIR history (each call
// reads a fresh window from the pyramid), so there is nothing to clear.
func (l *voiceLane) clearBuffers() {}

// produce writes len(dest) interpolated samples, advancing the foreground
// cursor (and, while fading, the fade-out cursor) by one sample each. It
// writes silence if no pyramid has been installed yet.
func (l *voiceLane) produce(dest []float32) {
	if l.pyramid == nil {
		for i := range dest {
			dest[i] = 0
		}
		return
	}

	for i := range dest {
		fg := l.readAndAdvance(&l.current)

		if !l.fading {
			dest[i] = fg
			continue
		}

		bg := l.readAndAdvance(&l.fadeout)
		alpha := float32(l.fadePos+1) / float32(FadeLenSamples)
		if alpha > 1 {
			alpha = 1
		}
		dest[i] = alpha*fg + (1-alpha)*bg

		l.fadePos++
		if l.fadePos >= FadeLenSamples {
			l.fading = false
			l.fadePos = 0
		}
	}
}

// readAndAdvance produces one interpolated sample from the given cursor
// (reprojecting its level-0 position into that cursor's own mip level) and
// advances the cursor by one output sample's worth of level-0 step.
func (l *voiceLane) readAndAdvance(v *baseVoiceState) float32 {
	data, pad := v.pyramid.Level(v.level)

	levelPos := v.pos.atLevel(v.level)
	intIdx := levelPos.intPart()
	frac := levelPos.frac()

	windowStart := pad + intIdx + int64(kernel.WindowOffset())
	window := data[windowStart : windowStart+int64(kernel.FIRLen)]
	sample := l.interp.Interpolate(window, frac)

	v.pos += l.step
	return sample
}
