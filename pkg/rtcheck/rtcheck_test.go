//go:build fdaw_debug

package rtcheck

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUndeclaredCheckerIsNeverAudioThread(t *testing.T) {
	c := NewChecker()
	assert.False(t, c.IsAudioThread())
	assert.NotPanics(t, func() { c.AssertNotAudioThread("test") })
}

func TestDeclaredAudioThreadIsRecognised(t *testing.T) {
	c := NewChecker()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.DeclareAudioThread()
		assert.True(t, c.IsAudioThread())
		assert.Panics(t, func() { c.AssertNotAudioThread("process") })
	}()
	wg.Wait()

	assert.False(t, c.IsAudioThread())
	assert.NotPanics(t, func() { c.AssertNotAudioThread("loadPlugin") })
}
