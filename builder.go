package wavesynth

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// debounceInterval is the minimum quiet period after the last Rebuild call
// before the background worker actually builds and publishes a table. This
// is load-shedding, not a correctness requirement: any debounce at or above
// the expected burst interval of parameter updates is acceptable.
const debounceInterval = 60 * time.Millisecond

// pollInterval is how often the idle worker checks for pending work.
const pollInterval = 5 * time.Millisecond

// buildRequest is the raw material for one table (re)build.
type buildRequest struct {
	raw []float32
	mix float64
	cfg WavetableConfig
	// blend is true when both a and b sources should be combined; when
	// false, raw already holds the single source to publish unchanged.
	blend bool
	a, b  []float32
}

// TableBuilder debounces incoming wavetable rebuild requests and publishes
// the finished Wavetable lock-free for the audio thread to pick up. The
// audio thread only ever reads Current(); it never blocks on a build.
type TableBuilder struct {
	active   atomic.Pointer[Wavetable]
	building atomic.Bool

	mu       sync.Mutex
	pending  *buildRequest
	lastTouch atomic.Int64 // unix nanos of the most recent Rebuild call

	startOnce sync.Once
	stopCh    chan struct{}
}

// NewTableBuilder returns a builder with no published table. Start must be
// called once before Rebuild requests will be processed.
func NewTableBuilder() *TableBuilder {
	return &TableBuilder{stopCh: make(chan struct{})}
}

// Start launches the background build worker. Calling it more than once has
// no additional effect.
func (b *TableBuilder) Start() {
	b.startOnce.Do(func() {
		go b.run()
	})
}

// Stop terminates the background worker. The builder must not be reused
// after Stop.
func (b *TableBuilder) Stop() {
	close(b.stopCh)
}

// Rebuild queues a single-source rebuild request, debounced against any
// other Rebuild/RebuildBlend call within debounceInterval.
func (b *TableBuilder) Rebuild(raw []float32, cfg WavetableConfig) {
	b.queue(&buildRequest{raw: raw, cfg: cfg})
}

// RebuildBlend queues an equal-power two-source blend rebuild request,
// debounced the same way as Rebuild.
func (b *TableBuilder) RebuildBlend(a, b2 []float32, mix float64, cfg WavetableConfig) {
	b.queue(&buildRequest{blend: true, a: a, b: b2, mix: mix, cfg: cfg})
}

func (b *TableBuilder) queue(req *buildRequest) {
	b.mu.Lock()
	b.pending = req
	b.mu.Unlock()
	b.lastTouch.Store(time.Now().UnixNano())
}

// Current returns the most recently published Wavetable, or nil if none has
// been published yet. Safe to call from the audio thread.
func (b *TableBuilder) Current() *Wavetable { return b.active.Load() }

// IsBuilding reports whether a rebuild is currently in progress.
func (b *TableBuilder) IsBuilding() bool { return b.building.Load() }

func (b *TableBuilder) run() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopCh:
			return
		case <-ticker.C:
			b.tick()
		}
	}
}

func (b *TableBuilder) tick() {
	b.mu.Lock()
	req := b.pending
	b.mu.Unlock()
	if req == nil {
		return
	}

	last := b.lastTouch.Load()
	if time.Since(time.Unix(0, last)) < debounceInterval {
		return
	}

	b.mu.Lock()
	if b.pending != req {
		// A newer request arrived between the debounce check and the lock;
		// let the next tick handle it.
		b.mu.Unlock()
		return
	}
	b.pending = nil
	b.mu.Unlock()

	b.building.Store(true)
	defer b.building.Store(false)

	var (
		wt  *Wavetable
		err error
	)
	if req.blend {
		wt, err = BlendWavetables(req.a, req.b, req.mix, req.cfg)
	} else {
		wt, err = NewWavetable(req.raw, req.cfg)
	}
	if err != nil {
		log.Printf("wavesynth: table build failed: %v", err)
		return
	}
	b.active.Store(wt)
}
