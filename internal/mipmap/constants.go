package mipmap

// Half-band downsampler constants. NBRCoefs is fixed by the polyphase
// allpass IIR structure: four cascaded sections on the even path, three on
// the odd path.
const (
	NBRCoefs = 7

	// antiDenormalFlt is injected then subtracted from even-indexed IIR state
	// after phase_block to prevent denormal-number CPU stalls when the input
	// settles near zero, following the source filter's zero-stuffed path.
	antiDenormalFlt = 1e-20
)

// halfbandCoeffs are the fixed allpass coefficients for the polyphase IIR
// half-band filter. Each must satisfy 0 < c < 1. These are implementation-
// defined tuning constants (see DESIGN.md) chosen to give a stable,
// reasonably steep half-band response; the original numeric table is not
// recoverable from the available reference sources.
var halfbandCoeffs = [NBRCoefs]float64{
	0.04506100,
	0.15573500,
	0.30458500,
	0.45404100,
	0.59055500,
	0.72374200,
	0.88417600,
}

// Mipmap pyramid constants.
const (
	// LevelCount is the number of mipmap levels (level 0 = source, level
	// LevelCount-1 = most decimated).
	LevelCount = 12
)
