package event

import (
	"sync"
	"sync/atomic"
)

// Pool manages pre-allocated events to avoid allocations during audio
// processing, grounded on the teacher's event.Pool (sync.Pool per
// concrete type rather than a single interface{} pool, so Get/Put never
// boxes). Diagnostics are exposed via Diagnostics() rather than a direct
// logger dependency — the Control Plane (§4.6) is what reports them,
// since the audio thread that drives this pool must never log.
type Pool struct {
	notePool           sync.Pool
	controllerPool     sync.Pool
	pitchBendPool      sync.Pool
	parameterPool      sync.Pool
	noteExpressionPool sync.Pool

	totalAllocations uint64
	poolHits         uint64
	poolMisses       uint64
	highWaterMark    uint64
	currentAllocated uint64
}

// NewPool creates a new event pool with all sub-pools wired to count
// allocation misses.
func NewPool() *Pool {
	p := &Pool{}
	p.notePool.New = func() interface{} {
		atomic.AddUint64(&p.totalAllocations, 1)
		atomic.AddUint64(&p.poolMisses, 1)
		return &NoteEvent{}
	}
	p.controllerPool.New = func() interface{} {
		atomic.AddUint64(&p.totalAllocations, 1)
		atomic.AddUint64(&p.poolMisses, 1)
		return &ControllerEvent{}
	}
	p.pitchBendPool.New = func() interface{} {
		atomic.AddUint64(&p.totalAllocations, 1)
		atomic.AddUint64(&p.poolMisses, 1)
		return &PitchBendEvent{}
	}
	p.parameterPool.New = func() interface{} {
		atomic.AddUint64(&p.totalAllocations, 1)
		atomic.AddUint64(&p.poolMisses, 1)
		return &ParameterEvent{}
	}
	p.noteExpressionPool.New = func() interface{} {
		atomic.AddUint64(&p.totalAllocations, 1)
		atomic.AddUint64(&p.poolMisses, 1)
		return &NoteExpressionEvent{}
	}
	return p
}

func (p *Pool) accounted() {
	atomic.AddUint64(&p.poolHits, 1)
	current := atomic.AddUint64(&p.currentAllocated, 1)
	for {
		high := atomic.LoadUint64(&p.highWaterMark)
		if current <= high || atomic.CompareAndSwapUint64(&p.highWaterMark, high, current) {
			break
		}
	}
}

func (p *Pool) release() {
	atomic.AddUint64(&p.currentAllocated, ^uint64(0))
}

// GetNote gets a NoteEvent from the pool.
func (p *Pool) GetNote() *NoteEvent {
	e := p.notePool.Get().(*NoteEvent)
	p.accounted()
	return e
}

// PutNote returns a NoteEvent to the pool.
func (p *Pool) PutNote(e *NoteEvent) {
	*e = NoteEvent{}
	p.notePool.Put(e)
	p.release()
}

// GetController gets a ControllerEvent from the pool.
func (p *Pool) GetController() *ControllerEvent {
	e := p.controllerPool.Get().(*ControllerEvent)
	p.accounted()
	return e
}

// PutController returns a ControllerEvent to the pool.
func (p *Pool) PutController(e *ControllerEvent) {
	*e = ControllerEvent{}
	p.controllerPool.Put(e)
	p.release()
}

// GetPitchBend gets a PitchBendEvent from the pool.
func (p *Pool) GetPitchBend() *PitchBendEvent {
	e := p.pitchBendPool.Get().(*PitchBendEvent)
	p.accounted()
	return e
}

// PutPitchBend returns a PitchBendEvent to the pool.
func (p *Pool) PutPitchBend(e *PitchBendEvent) {
	*e = PitchBendEvent{}
	p.pitchBendPool.Put(e)
	p.release()
}

// GetParameter gets a ParameterEvent from the pool.
func (p *Pool) GetParameter() *ParameterEvent {
	e := p.parameterPool.Get().(*ParameterEvent)
	p.accounted()
	return e
}

// PutParameter returns a ParameterEvent to the pool.
func (p *Pool) PutParameter(e *ParameterEvent) {
	*e = ParameterEvent{}
	p.parameterPool.Put(e)
	p.release()
}

// GetNoteExpression gets a NoteExpressionEvent from the pool.
func (p *Pool) GetNoteExpression() *NoteExpressionEvent {
	e := p.noteExpressionPool.Get().(*NoteExpressionEvent)
	p.accounted()
	return e
}

// PutNoteExpression returns a NoteExpressionEvent to the pool.
func (p *Pool) PutNoteExpression(e *NoteExpressionEvent) {
	*e = NoteExpressionEvent{}
	p.noteExpressionPool.Put(e)
	p.release()
}

// Diagnostics is a point-in-time snapshot of pool activity.
type Diagnostics struct {
	TotalAllocations uint64
	PoolHits         uint64
	PoolMisses       uint64
	HighWaterMark    uint64
	CurrentAllocated uint64
}

// Diagnostics returns a snapshot of the pool's counters.
func (p *Pool) Diagnostics() Diagnostics {
	return Diagnostics{
		TotalAllocations: atomic.LoadUint64(&p.totalAllocations),
		PoolHits:         atomic.LoadUint64(&p.poolHits),
		PoolMisses:       atomic.LoadUint64(&p.poolMisses),
		HighWaterMark:    atomic.LoadUint64(&p.highWaterMark),
		CurrentAllocated: atomic.LoadUint64(&p.currentAllocated),
	}
}

// HitRate returns the fraction (0..1) of Get calls that were satisfied
// without a fresh allocation.
func (d Diagnostics) HitRate() float64 {
	if d.TotalAllocations == 0 {
		return 1
	}
	return float64(d.PoolHits-d.PoolMisses) / float64(d.PoolHits)
}
