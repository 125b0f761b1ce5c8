package wavesynth

import "math"

// voiceDetuneLUT holds small hand-tuned per-voice detune offsets in cents,
// indexed by voice number modulo len(voiceDetuneLUT). The values are not
// individually documented upstream; they are preserved verbatim as tuning
// data (see DESIGN.md).
var voiceDetuneLUT = [24]float64{
	0.0, 0.3, -0.2, 3.119, 2.5, 0.1, -0.1, 0.0,
	4.119, 1.5, 2.119, 3.119, 1.5, 0.0, 0.2, 0.1,
	1.5, 0.0, 0.0, 1.0, 3.119, 0.5, 0.0, 1.5,
}

// voiceDetuneCents returns the detune, in cents, for the given voice index.
func voiceDetuneCents(voiceIndex int) float64 {
	i := voiceIndex % len(voiceDetuneLUT)
	if i < 0 {
		i += len(voiceDetuneLUT)
	}
	return voiceDetuneLUT[i]
}

// centsToSemis converts cents to semitones.
func centsToSemis(cents float64) float64 { return cents / 100.0 }

// semisToBits converts a semitone offset to fixed-point pitch bits.
func semisToBits(semis float64) int64 {
	return int64(math.Round(semis * semiToBits))
}

// noteToHz converts a MIDI note number to a frequency, relative to
// targetRootHz at MIDI note midiRootOffset.
func noteToHz(midiNote float64) float64 {
	return targetRootHz * math.Exp2((midiNote-midiRootOffset)/semisPerOctave)
}

// rootOffsetSemis returns the semitone correction between a wavetable
// frame's natural playback rate (one cycle per FrameSize samples at the host
// sample rate) and the engine's target root frequency, so that pitch bits of
// zero at MIDI note midiRootOffset produce an absolute, sample-rate
// independent frequency of targetRootHz regardless of the host's sample
// rate.
func rootOffsetSemis(sampleRate float64) float64 {
	naturalHz := sampleRate / FrameSize
	return semisPerOctave * math.Log2(targetRootHz/naturalHz)
}

// computePitchBits combines a voice's MIDI note, global semitone offset,
// per-voice semitone offset, per-voice pitch-multiplier-as-semitones, the
// sample-rate root offset, and its LUT detune into a single fixed-point
// pitch value.
func computePitchBits(midiNote float64, globalSemi, voiceSemi, pitchMultSemi, rootOffSemis float64, voiceIndex int) int64 {
	sem := globalSemi + voiceSemi + pitchMultSemi + rootOffSemis + (midiNote - midiRootOffset) + centsToSemis(voiceDetuneCents(voiceIndex))
	return semisToBits(sem)
}

// pitchMultToSemis converts a linear pitch multiplier into an equivalent
// semitone offset: mult=2.0 is +12 semitones.
func pitchMultToSemis(mult float64) float64 {
	if mult <= 0 {
		mult = 1.0
	}
	return semisPerOctave * math.Log2(mult)
}

// startPhaseFraction returns the fraction (0,1) of one frame cycle from which
// a freshly triggered voice's random start position is drawn, scaling
// linearly from startPhaseMinPercent at MIDI note 0 to startPhaseMaxPercent
// at MIDI note 127.
func startPhaseFraction(midiNote float64) float64 {
	noteFrac := clamp(midiNote, 0, midiNoteMax) / midiNoteMax
	percent := startPhaseMinPercent + noteFrac*(startPhaseMaxPercent-startPhaseMinPercent)
	return percent / 100.0
}
