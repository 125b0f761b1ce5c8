// Package mipmap builds and stores a band-limited mipmap pyramid of a raw
// audio buffer: a source table plus successively half-band-filtered,
// decimated copies, each with pre/post padding for FIR lookback.
package mipmap

import (
	"errors"
	"fmt"

	"github.com/gowave/wavesynth/internal/kernel"
)

// ErrInputOverflow is returned by Fill when more samples are supplied than
// the pyramid was initialized to hold.
var ErrInputOverflow = errors.New("mipmap: fill exceeds declared sample length")

// ErrNotReady is returned when a pyramid is used before it has been fully
// filled.
var ErrNotReady = errors.New("mipmap: pyramid not ready")

// Pyramid stores a source table plus LevelCount-1 successively half-band
// filtered, decimated copies. Level k is decimated by 2^k relative to level
// 0. Each level's buffer carries pad samples of padding on both sides so
// callers can read the FIR interpolation window without bounds checks.
type Pyramid struct {
	levels [][]float32
	pad    []int64
	core   []int64
	length int64
	filled int64
	ready  bool
}

// NewPyramid allocates a pyramid for a source table of the given length.
// Padding at level 0 is chosen so it still meets the FIR support requirement
// (>= kernel.FIRLen) after being halved at every subsequent level.
func NewPyramid(length int64) (*Pyramid, error) {
	if length <= 0 {
		return nil, fmt.Errorf("mipmap: invalid length %d", length)
	}

	p := &Pyramid{
		length: length,
		levels: make([][]float32, LevelCount),
		pad:    make([]int64, LevelCount),
		core:   make([]int64, LevelCount),
	}

	p.core[0] = length
	p.pad[0] = int64(kernel.FIRLen) << (LevelCount - 1)

	for k := 1; k < LevelCount; k++ {
		totalPrev := 2*p.pad[k-1] + p.core[k-1]
		totalCur := totalPrev / 2
		p.pad[k] = p.pad[k-1] / 2
		core := totalCur - 2*p.pad[k]
		if core < 0 {
			core = 0
		}
		p.core[k] = core
	}

	for k := range p.levels {
		p.levels[k] = make([]float32, 2*p.pad[k]+p.core[k])
	}

	return p, nil
}

// Fill appends samples into level 0. It may be called multiple times to load
// the source table in chunks; once the declared length has been fully
// supplied, it synchronously builds every decimated level.
func (p *Pyramid) Fill(data []float32) error {
	if p.filled+int64(len(data)) > p.length {
		return ErrInputOverflow
	}

	dst := p.levels[0]
	offset := p.pad[0] + p.filled
	copy(dst[offset:], data)
	p.filled += int64(len(data))

	if p.filled == p.length {
		p.buildLevels()
		p.ready = true
	}
	return nil
}

// buildLevels decimates level k-1 into level k for every level beyond the
// source, by running the shared half-band downsampler over the *entire*
// padded buffer of the previous level in one pass. Because the padding at
// every level is an exact power-of-two fraction of level 0's padding, this
// single whole-buffer decimation produces exactly the next level's own
// padded buffer with no boundary case.
func (p *Pyramid) buildLevels() {
	for k := 1; k < LevelCount; k++ {
		ds := NewDownsampler()
		dst := p.levels[k]
		src := p.levels[k-1]
		n := len(dst)
		if 2*n > len(src) {
			n = len(src) / 2
		}
		ds.DownsampleBlock(dst[:n], src[:2*n])
		// DownsampleBlock doubles the gain; halve it so every level keeps
		// level 0's amplitude.
		for i := range dst[:n] {
			dst[i] *= 0.5
		}
	}
}

// IsReady reports whether the pyramid has been completely filled and every
// level built.
func (p *Pyramid) IsReady() bool { return p.ready }

// LevelCount returns the number of mipmap levels.
func (p *Pyramid) LevelCount() int { return LevelCount }

// SourceLength returns the declared length of level 0.
func (p *Pyramid) SourceLength() int64 { return p.length }

// LevLen returns the core (unpadded) length of the given level.
func (p *Pyramid) LevLen(level int) int64 { return p.core[level] }

// Level returns the given level's full padded buffer, and the pad length on
// each side. A logical sample index i (which may be negative, down to -pad,
// or up to LevLen(level)+pad-1) is stored at data[pad+i]. Level does not gate
// on readiness: callers on the real-time playback path only ever hold a
// pyramid obtained after a synchronous Fill, and pay the IsReady check once
// up front (see UseTable for a gated equivalent).
func (p *Pyramid) Level(level int) (data []float32, pad int64) {
	return p.levels[level], p.pad[level]
}

// UseTable is Level's gated equivalent: it returns ErrNotReady instead of a
// zero-filled buffer when the pyramid has not been completely filled yet.
func (p *Pyramid) UseTable(level int) (data []float32, pad int64, err error) {
	if !p.ready {
		return nil, 0, ErrNotReady
	}
	data, pad = p.Level(level)
	return data, pad, nil
}
