//go:build !fdaw_debug

package rtcheck

// AssertAudioThread is a no-op in release builds. See rtcheck_debug.go for
// the panic-bearing version built with -tags fdaw_debug.
func (c *Checker) AssertAudioThread(function string) {}

// AssertNotAudioThread is a no-op in release builds. See rtcheck_debug.go
// for the panic-bearing version built with -tags fdaw_debug.
func (c *Checker) AssertNotAudioThread(function string) {}
