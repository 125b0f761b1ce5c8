package kernel

// FIR phase constants.
const (
	// FIRLen is the number of taps in a single polyphase phase (scale-1
	// interpolation filter).
	FIRLen = 12

	// PhaseCountLog2 is log2 of the number of polyphase phases.
	PhaseCountLog2 = 6
	// PhaseCount is the number of discrete fractional phases held by the pack.
	PhaseCount = 1 << PhaseCountLog2

	// ImpulseLen is the length of the reference prototype kernel the pack is
	// built from: one FIRLen-tap filter per phase.
	ImpulseLen = FIRLen * PhaseCount

	// fracBits is the number of bits in the fixed-point fractional position.
	fracBits = 32
	// qShift extracts the sub-phase fraction from the low fracBits-PhaseCountLog2
	// bits of a fractional position.
	qShift = fracBits - PhaseCountLog2

	// qScale converts a left-shifted 32-bit fractional remainder into [0,1).
	qScale = 1.0 / 4294967296.0

	// windowOffset centers the FIR support around the requested position.
	windowOffset = -FIRLen/2 + 1
)

// Reference kernel design constants (used by BuildReferenceKernel).
const (
	// RefCutoff is the cutoff used to design the prototype windowed-sinc
	// kernel the phase table is sliced from, in DesignLowPassFilter's
	// normalized units at the prototype's PhaseCount-times oversampled rate
	// (0.5 = that rate's Nyquist). It places the cutoff at 0.45 of the
	// interpolated signal's own Nyquist.
	RefCutoff = 0.45 * 0.5 / PhaseCount
	// RefAttenuationDB is the target stopband attenuation for the prototype kernel.
	RefAttenuationDB = 100.0
	// RefGain is the desired DC passband gain of the prototype kernel.
	RefGain = 1.0
)
