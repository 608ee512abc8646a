//go:build !fdaw_debug

package rtcheck

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAudioThreadTrackingWorksWithoutDebugTag(t *testing.T) {
	c := NewChecker()
	assert.False(t, c.IsAudioThread())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.DeclareAudioThread()
		assert.True(t, c.IsAudioThread())
	}()
	wg.Wait()

	assert.False(t, c.IsAudioThread())
}

func TestAssertionsAreNoOpsWithoutDebugTag(t *testing.T) {
	c := NewChecker()
	assert.NotPanics(t, func() { c.AssertNotAudioThread("loadPlugin") })
	assert.NotPanics(t, func() { c.AssertAudioThread("ProcessBlock") })
}
