package mipmap

// Downsampler is a fixed 7-coefficient polyphase all-pass IIR half-band
// filter. Pyramid uses it to build mipmap levels (DownsampleBlock). It also
// offers PhaseBlock, which phase-aligns a signal to a downsampled one; the
// voice lane's mip-level crossfade does not call PhaseBlock, so the two
// levels are mixed without phase alignment.
//
// Gain is implicitly doubled to save a multiply in the hot path; callers
// that need unity gain must compensate (e.g. by halving after the call).
type Downsampler struct {
	coefs [NBRCoefs]float32
	x     [2]float32
	y     [NBRCoefs]float32
}

// NewDownsampler builds a downsampler with the standard half-band
// coefficients and cleared state.
func NewDownsampler() *Downsampler {
	d := &Downsampler{}
	for i, c := range halfbandCoeffs {
		d.coefs[i] = float32(c)
	}
	return d
}

// ClearBuffers resets the filter state, as if the input had been zero for an
// infinite time.
func (d *Downsampler) ClearBuffers() {
	d.x[0], d.x[1] = 0, 0
	for i := range d.y {
		d.y[i] = 0
	}
}

// DownsampleBlock halves the sample rate of src into dst. len(dst) output
// samples are produced from the first 2*len(dst) samples of src. dst and src
// may overlap identically (in-place processing).
func (d *Downsampler) DownsampleBlock(dst, src []float32) {
	n := len(dst)
	for pos := 0; pos < n; pos++ {
		path0 := src[pos*2+1]
		path1 := src[pos*2]
		dst[pos] = d.processSample(path0, path1)
	}
}

// PhaseBlock adjusts the phase of a signal whose rate does not change, so it
// can be compared/mixed against a downsampled signal. It works by inserting
// a zero sample between each input sample and downsampling by two. Unlike
// DownsampleBlock, the resulting gain does not need correction.
func (d *Downsampler) PhaseBlock(dst, src []float32) {
	n := len(dst)
	for pos := 0; pos < n; pos++ {
		dst[pos] = d.processSample(0, src[pos])
	}

	// Kill denormals that can arise from the zero-stuffed path.
	d.y[0] += antiDenormalFlt
	d.y[2] += antiDenormalFlt
	d.y[4] += antiDenormalFlt
	d.y[6] += antiDenormalFlt
	d.y[0] -= antiDenormalFlt
	d.y[2] -= antiDenormalFlt
	d.y[4] -= antiDenormalFlt
	d.y[6] -= antiDenormalFlt
}

// processSample filters and downsamples a pair of samples through two
// cascades of all-pass sections: path0 uses coefficients 0,2,4,6 (four
// stages), path1 uses coefficients 1,3,5 (three stages).
func (d *Downsampler) processSample(path0, path1 float32) float32 {
	tmp0 := d.x[0]
	tmp1 := d.x[1]
	d.x[0] = path0
	d.x[1] = path1

	path0 = (path0-d.y[0])*d.coefs[0] + tmp0
	path1 = (path1-d.y[1])*d.coefs[1] + tmp1
	tmp0 = d.y[0]
	tmp1 = d.y[1]
	d.y[0] = path0
	d.y[1] = path1

	path0 = (path0-d.y[2])*d.coefs[2] + tmp0
	path1 = (path1-d.y[3])*d.coefs[3] + tmp1
	tmp0 = d.y[2]
	tmp1 = d.y[3]
	d.y[2] = path0
	d.y[3] = path1

	path0 = (path0-d.y[4])*d.coefs[4] + tmp0
	path1 = (path1-d.y[5])*d.coefs[5] + tmp1
	tmp0 = d.y[4]
	d.y[4] = path0
	d.y[5] = path1

	path0 = (path0-d.y[6])*d.coefs[6] + tmp0
	d.y[6] = path0

	return path0 + path1
}
