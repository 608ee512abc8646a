package graph

import (
	"sync/atomic"
	"time"
)

// BlockMetrics tracks real-time performance of the Audio Graph's per-block
// callback, grounded on the teacher's pkg/performance.PerformanceMetrics:
// the same atomic counters, generalized from a single plugin's voice/event
// accounting to the whole graph's per-block timing and xrun detection.
type BlockMetrics struct {
	blockTime      int64 // last block's duration in nanoseconds (atomic)
	maxBlockTime   int64
	totalBlockTime int64
	blockCount     uint64

	xruns uint64 // blocks whose processing exceeded the block's own deadline

	sampleRate float64
	blockSize  int
}

// NewBlockMetrics constructs a metrics tracker for blocks of blockSize
// samples at sampleRate.
func NewBlockMetrics(sampleRate float64, blockSize int) *BlockMetrics {
	return &BlockMetrics{sampleRate: sampleRate, blockSize: blockSize}
}

// Start marks the beginning of a block's processing.
func (m *BlockMetrics) Start() time.Time {
	return time.Now()
}

// End records a completed block's duration against started and reports
// whether this block was an xrun (took longer than the block's own
// real-time deadline).
func (m *BlockMetrics) End(started time.Time) (xrun bool) {
	duration := time.Since(started).Nanoseconds()

	atomic.StoreInt64(&m.blockTime, duration)
	for {
		max := atomic.LoadInt64(&m.maxBlockTime)
		if duration <= max || atomic.CompareAndSwapInt64(&m.maxBlockTime, max, duration) {
			break
		}
	}
	atomic.AddInt64(&m.totalBlockTime, duration)
	atomic.AddUint64(&m.blockCount, 1)

	deadline := int64(m.blockSize) * int64(time.Second) / int64(m.sampleRate)
	if duration > deadline {
		atomic.AddUint64(&m.xruns, 1)
		return true
	}
	return false
}

// Stats is a point-in-time snapshot of a BlockMetrics tracker.
type Stats struct {
	BlockTime    time.Duration
	MaxBlockTime time.Duration
	AvgBlockTime time.Duration
	BlockCount   uint64
	Xruns        uint64
}

// Snapshot returns the current statistics.
func (m *BlockMetrics) Snapshot() Stats {
	count := atomic.LoadUint64(&m.blockCount)
	total := atomic.LoadInt64(&m.totalBlockTime)
	avg := int64(0)
	if count > 0 {
		avg = total / int64(count)
	}
	return Stats{
		BlockTime:    time.Duration(atomic.LoadInt64(&m.blockTime)),
		MaxBlockTime: time.Duration(atomic.LoadInt64(&m.maxBlockTime)),
		AvgBlockTime: time.Duration(avg),
		BlockCount:   count,
		Xruns:        atomic.LoadUint64(&m.xruns),
	}
}
