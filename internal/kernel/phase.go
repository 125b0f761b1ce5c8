package kernel

import "github.com/gowave/wavesynth/internal/simdops"

// Phase holds one of the polyphase interpolator's fractional-offset filters.
//
// Imp holds the tap coefficients for this phase; Dif holds the forward
// difference to the next phase's coefficients, so the convolution can
// linearly interpolate between adjacent phases with a single fused pass.
// Both arrays are stored in reversed tap order (Imp[0] holds the last
// prototype tap and pairs with the first sample of the convolution window) to match the reverse-walk convention of
// the source filter this is grounded on.
type Phase struct {
	Imp [FIRLen]float32
	Dif [FIRLen]float32
}

// Convolve produces one interpolated output sample from a FIRLen-sample
// window of source data centered on the requested position, blending this
// phase's filter with the next phase's filter by the sub-phase weight q.
//
// data must have at least FIRLen samples available.
func (p *Phase) Convolve(data []float32, q float32) float32 {
	ops := simdops.Float32Ops()
	base := ops.DotProductUnsafe(p.Imp[:], data[:FIRLen])
	delta := ops.DotProductUnsafe(p.Dif[:], data[:FIRLen])
	return base + q*delta
}
