//go:build fdaw_debug

package rtcheck

import "fmt"

// AssertAudioThread panics if called from any goroutine other than the
// declared audio thread. Built only with -tags fdaw_debug; release builds
// use the no-op in rtcheck_release.go so a misbehaving host extension or
// plugin can't turn a violated assertion into a crash in the field.
func (c *Checker) AssertAudioThread(function string) {
	if c.declared.Load() && !c.IsAudioThread() {
		panic(fmt.Sprintf("%s must be called from the audio thread", function))
	}
}

// AssertNotAudioThread panics if called from the declared audio thread.
// Used to guard allocation, locking, and blocking I/O call sites that must
// never run on the audio callback.
func (c *Checker) AssertNotAudioThread(function string) {
	if c.IsAudioThread() {
		panic(fmt.Sprintf("%s must not be called from the audio thread", function))
	}
}
