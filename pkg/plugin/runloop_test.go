package plugin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunLoopFiresTimer(t *testing.T) {
	rl := NewRunLoop()
	fired := make(chan struct{}, 1)
	rl.RegisterTimer(300*time.Millisecond, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	rl.Start()
	defer rl.Stop()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire within 2s")
	}
}

type constPoller struct{ ready FDFlags }

func (c constPoller) Poll() (FDFlags, error) { return c.ready, nil }

func TestRunLoopPollsRegisteredFD(t *testing.T) {
	rl := NewRunLoop()
	calls := make(chan FDFlags, 1)
	rl.RegisterFD(3, FDRead, constPoller{ready: FDRead}, func(ready FDFlags) {
		select {
		case calls <- ready:
		default:
		}
	})
	rl.Start()
	defer rl.Stop()

	select {
	case ready := <-calls:
		assert.Equal(t, FDRead, ready)
	case <-time.After(2 * time.Second):
		t.Fatal("fd handler did not fire within 2s")
	}
}

func TestRunLoopStopIsIdempotent(t *testing.T) {
	rl := NewRunLoop()
	rl.Start()
	rl.Stop()
	assert.NotPanics(t, func() { rl.Stop() })
}
