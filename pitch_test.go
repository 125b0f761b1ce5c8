package wavesynth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const hzTolerance = 1e-6

func TestNoteToHz_RootNote(t *testing.T) {
	assert.InDelta(t, targetRootHz, noteToHz(midiRootOffset), hzTolerance)
}

func TestNoteToHz_OctaveUpDoublesFrequency(t *testing.T) {
	base := noteToHz(60)
	up := noteToHz(72)
	assert.InDelta(t, base*2, up, 1e-9)
}

func TestSemisToBits_OneOctaveIsBitsPerOctave(t *testing.T) {
	assert.Equal(t, int64(1)<<BitsPerOctave, semisToBits(12))
}

func TestSemisToBits_Zero(t *testing.T) {
	assert.Zero(t, semisToBits(0))
}

func TestPitchMultToSemis_UnityIsZero(t *testing.T) {
	assert.Zero(t, pitchMultToSemis(1.0))
}

func TestPitchMultToSemis_DoubleIsOneOctave(t *testing.T) {
	assert.InDelta(t, 12.0, pitchMultToSemis(2.0), 1e-9)
}

func TestPitchMultToSemis_NonPositiveCoercesToUnity(t *testing.T) {
	assert.Zero(t, pitchMultToSemis(0))
	assert.Zero(t, pitchMultToSemis(-3))
}

func TestVoiceDetuneCents_WrapsAtTableLength(t *testing.T) {
	assert.Equal(t, voiceDetuneLUT[0], voiceDetuneCents(0))
	assert.Equal(t, voiceDetuneLUT[0], voiceDetuneCents(len(voiceDetuneLUT)))
	assert.Equal(t, voiceDetuneLUT[1], voiceDetuneCents(len(voiceDetuneLUT)+1))
}

func TestCentsToSemis(t *testing.T) {
	assert.InDelta(t, 1.0, centsToSemis(100), 1e-12)
}

func TestStartPhaseFraction_Bounds(t *testing.T) {
	assert.InDelta(t, startPhaseMinPercent/100.0, startPhaseFraction(0), 1e-9)
	assert.InDelta(t, startPhaseMaxPercent/100.0, startPhaseFraction(127), 1e-9)
	mid := startPhaseFraction(63.5)
	assert.Greater(t, mid, startPhaseMinPercent/100.0)
	assert.Less(t, mid, startPhaseMaxPercent/100.0)
}

func TestRootOffsetSemis_MatchesFormula(t *testing.T) {
	const sampleRate = 48000.0
	want := 12.0 * math.Log2(targetRootHz/(sampleRate/FrameSize))
	assert.InDelta(t, want, rootOffsetSemis(sampleRate), 1e-9)
}

func TestComputePitchBits_MatchesManualSum(t *testing.T) {
	const sampleRate = 48000.0
	rootOff := 12.0 * math.Log2(targetRootHz/(sampleRate/FrameSize))
	got := computePitchBits(60, -12, 0, 0, rootOff, 7)
	sem := -12.0 + (60.0 - midiRootOffset) + rootOff + centsToSemis(voiceDetuneCents(7))
	assert.Equal(t, semisToBits(sem), got)
}

func TestComputePitchBits_S1FundamentalMatchesAbsoluteHz(t *testing.T) {
	// At sr=48000, MIDI 60, with only the root offset applied (no other
	// global/voice/pitch-mult contribution and no per-voice detune, index 0's
	// LUT entry is 0), the resulting pitch bits must correspond to an
	// absolute frequency of noteToHz(60), independent of sr/FrameSize.
	const sampleRate = 48000.0
	rootOff := rootOffsetSemis(sampleRate)
	bits := computePitchBits(60, 0, 0, 0, rootOff, 0)
	octaves := float64(bits) / float64(int64(1)<<BitsPerOctave)
	naturalHz := sampleRate / FrameSize
	gotHz := naturalHz * math.Exp2(octaves)
	assert.InDelta(t, noteToHz(60), gotHz, 0.5)
}
