// Package rtcheck provides the real-time thread assertions the teacher's
// pkg/thread implements against the CLAP thread-check host extension.
// There is no host extension to query here (this engine owns its own
// threads), so a Checker instead has the owning code declare which
// goroutine is the audio thread once, at startup, and asserts against that
// declaration afterward.
package rtcheck

import (
	"sync/atomic"
)

// Checker asserts that a call happens on the declared audio thread, the
// way the teacher's thread.Checker asserts against the host's answer to
// is_audio_thread. AssertNotAudioThread is the one this engine leans on in
// practice, since §4.5 forbids allocation, locking against non-realtime
// threads, and blocking I/O specifically on the audio callback.
type Checker struct {
	audioGoroutine atomic.Uint64
	declared       atomic.Bool
}

// NewChecker returns an unconfigured Checker. Call DeclareAudioThread from
// the goroutine that will run the audio callback before relying on the
// assertions below.
func NewChecker() *Checker {
	return &Checker{}
}

// DeclareAudioThread marks the calling goroutine as the audio thread.
// Call exactly once, from inside the goroutine that will drive the audio
// callback loop.
func (c *Checker) DeclareAudioThread() {
	c.audioGoroutine.Store(goroutineID())
	c.declared.Store(true)
}

// IsAudioThread reports whether the calling goroutine is the declared
// audio thread. Returns false, conservatively, if no thread has been
// declared yet.
func (c *Checker) IsAudioThread() bool {
	if !c.declared.Load() {
		return false
	}
	return goroutineID() == c.audioGoroutine.Load()
}
