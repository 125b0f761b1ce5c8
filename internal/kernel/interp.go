// Package kernel implements the fixed-phase FIR interpolation kernel used by
// every voice lane resampler: a 64-phase polyphase filter bank built once
// from a windowed-sinc prototype and shared read-only across voices.
package kernel

import "github.com/gowave/wavesynth/internal/filter"

// InterpolatorPack holds the 64-phase impulse table built from a reference
// half-band kernel. It is built once and shared read-only across voices.
type InterpolatorPack struct {
	phases [PhaseCount]Phase
}

// NewInterpolatorPack builds a 64-phase table from a centered, windowed-sinc
// prototype kernel of length ImpulseLen (FIRLen*PhaseCount).
//
// Taps are stored in reversed order within each phase (table position
// FIRLen-1-firPos holds prototype tap firPos) so the convolution loop can
// walk a source window without extra index arithmetic. Dif holds the
// difference to the next-higher phase's coefficient, computed while walking
// phases from the top down, so the last phase has a zero difference.
//
// Coefficients are scaled by PhaseCount: each phase holds only every
// PhaseCount-th prototype tap, so this scaling gives every phase the
// prototype's DC gain.
func NewInterpolatorPack(prototype [ImpulseLen]float64) *InterpolatorPack {
	pack := &InterpolatorPack{}
	for firPos := 0; firPos < FIRLen; firPos++ {
		tablePos := FIRLen - 1 - firPos
		var nextCoef float64
		for phaseCnt := PhaseCount - 1; phaseCnt >= 0; phaseCnt-- {
			impPos := firPos*PhaseCount + phaseCnt
			coef := prototype[impPos] * PhaseCount

			var dif float64
			if phaseCnt != PhaseCount-1 {
				dif = nextCoef - coef
			}

			pack.phases[phaseCnt].Imp[tablePos] = float32(coef)
			pack.phases[phaseCnt].Dif[tablePos] = float32(dif)
			nextCoef = coef
		}
	}
	return pack
}

// NewDefaultInterpolatorPack builds a pack from the standard Kaiser-windowed
// reference kernel (see BuildReferenceKernel).
func NewDefaultInterpolatorPack() (*InterpolatorPack, error) {
	proto, err := BuildReferenceKernel()
	if err != nil {
		return nil, err
	}
	return NewInterpolatorPack(proto), nil
}

// LenPre is the number of samples of lookback the interpolator needs before
// the requested integer position.
func LenPre() int { return FIRLen }

// LenPost is the number of samples of lookahead the interpolator needs after
// the requested integer position.
func LenPost() int { return FIRLen }

// WindowOffset is the offset, relative to the requested integer sample
// position, of the first sample of the FIRLen-sample window Interpolate
// expects.
func WindowOffset() int { return windowOffset }

// Interpolate produces one band-limited fractionally-resampled output
// sample. window must be a FIRLen-sample slice starting at
// position+WindowOffset(); fracPos is the 32-bit fixed-point fractional
// position, whose top PhaseCountLog2 bits select the phase and whose
// remaining bits become the sub-phase interpolation weight.
func (pk *InterpolatorPack) Interpolate(window []float32, fracPos uint32) float32 {
	phaseIndex := fracPos >> qShift
	q := float32(fracPos<<PhaseCountLog2) * qScale
	return pk.phases[phaseIndex].Convolve(window, q)
}

// BuildReferenceKernel designs the centered windowed-sinc prototype kernel
// that NewInterpolatorPack slices into its 64 phases.
func BuildReferenceKernel() ([ImpulseLen]float64, error) {
	var out [ImpulseLen]float64

	coeffs, err := filter.DesignLowPassFilter(filter.FilterParams{
		NumTaps:     ImpulseLen,
		CutoffFreq:  RefCutoff,
		Attenuation: RefAttenuationDB,
		Gain:        RefGain,
	})
	if err != nil {
		return out, err
	}

	copy(out[:], coeffs)
	return out, nil
}
