//go:build !debug

package performance

import "time"

// Profiler is a no-op in release builds. See profiler.go (built with
// -tags debug) for the runtime/pprof-backed implementation.
type Profiler struct{}

// NewProfiler returns a no-op profiler.
func NewProfiler() *Profiler {
	return &Profiler{}
}

// StartCPUProfile is a no-op in release builds.
func (p *Profiler) StartCPUProfile(filename string) error { return nil }

// StopCPUProfile is a no-op in release builds.
func (p *Profiler) StopCPUProfile() error { return nil }

// StartMemoryProfiling is a no-op in release builds.
func (p *Profiler) StartMemoryProfiling(interval time.Duration, prefix string) {}

// StopMemoryProfiling is a no-op in release builds.
func (p *Profiler) StopMemoryProfiling() {}

// CaptureGoroutineProfile is a no-op in release builds.
func (p *Profiler) CaptureGoroutineProfile(filename string) error { return nil }

// PrintMemoryStats is a no-op in release builds.
func (p *Profiler) PrintMemoryStats() {}
