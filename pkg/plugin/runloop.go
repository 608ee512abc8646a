package plugin

import (
	"sync"
	"time"
)

// FDFlags mirrors the POSIX fd readiness flags the teacher's posix-fd
// extension exposes (pkg/extension/posixfd.go), minus the cgo plumbing:
// a registered fd is polled for these conditions on every run-loop tick.
type FDFlags uint32

const (
	FDRead FDFlags = 1 << iota
	FDWrite
	FDError
)

// FDPoller is implemented by callers that want their file descriptor
// multiplexed by the RunLoop. Poll is called once per tick and should
// return, non-blocking, which of the registered flags are currently ready.
type FDPoller interface {
	Poll() (ready FDFlags, err error)
}

// FDHandler receives a readiness callback when a registered fd has events,
// per the teacher's OnFD [main-thread] contract.
type FDHandler func(ready FDFlags)

// TimerHandler is invoked once per timer period on the run-loop thread.
type TimerHandler func()

const tickInterval = 300 * time.Millisecond

// RunLoop is the minimal event loop VST3 editors needing a host run-loop
// are handed (§4.1): it multiplexes registered file descriptors and
// periodic timers on a single dedicated goroutine, ticking at the 300ms
// resolution the spec allows. It is created stopped and runs once Start is
// called; Host.Shutdown stops it, with its goroutine joined, before plugin
// destruction.
type RunLoop struct {
	mu      sync.Mutex
	fds     map[int]fdRegistration
	timers  map[uint32]*timerRegistration
	nextID  uint32
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

type fdRegistration struct {
	poller  FDPoller
	flags   FDFlags
	handler FDHandler
}

type timerRegistration struct {
	period   time.Duration
	elapsed  time.Duration
	handler  TimerHandler
}

// NewRunLoop constructs a stopped run loop.
func NewRunLoop() *RunLoop {
	return &RunLoop{
		fds:    make(map[int]fdRegistration),
		timers: make(map[uint32]*timerRegistration),
	}
}

// Start launches the dedicated run-loop goroutine if it is not already
// running. Idempotent.
func (r *RunLoop) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	go r.loop(r.stopCh, r.doneCh)
}

// Stop halts the run-loop goroutine and blocks until it has exited.
func (r *RunLoop) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	stopCh, doneCh := r.stopCh, r.doneCh
	r.running = false
	r.mu.Unlock()

	close(stopCh)
	<-doneCh
}

func (r *RunLoop) loop(stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			r.tick(tickInterval)
		}
	}
}

func (r *RunLoop) tick(elapsed time.Duration) {
	r.mu.Lock()
	fds := make(map[int]fdRegistration, len(r.fds))
	for fd, reg := range r.fds {
		fds[fd] = reg
	}
	due := make([]TimerHandler, 0)
	for _, t := range r.timers {
		t.elapsed += elapsed
		if t.elapsed >= t.period {
			t.elapsed = 0
			due = append(due, t.handler)
		}
	}
	r.mu.Unlock()

	for _, reg := range fds {
		ready, err := reg.poller.Poll()
		if err != nil {
			ready |= FDError
		}
		if ready != 0 {
			reg.handler(ready)
		}
	}
	for _, handler := range due {
		handler()
	}
}

// RegisterFD adds fd to the set polled every tick for the given flags.
func (r *RunLoop) RegisterFD(fd int, flags FDFlags, poller FDPoller, handler FDHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fds[fd] = fdRegistration{poller: poller, flags: flags, handler: handler}
}

// ModifyFD changes the flags a registered fd is polled for.
func (r *RunLoop) ModifyFD(fd int, flags FDFlags) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg, ok := r.fds[fd]; ok {
		reg.flags = flags
		r.fds[fd] = reg
	}
}

// UnregisterFD stops polling fd.
func (r *RunLoop) UnregisterFD(fd int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.fds, fd)
}

// RegisterTimer installs a periodic handler and returns its ID for later
// removal. period is rounded up to the nearest tick internally since the
// loop only has 300ms resolution.
func (r *RunLoop) RegisterTimer(period time.Duration, handler TimerHandler) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.timers[id] = &timerRegistration{period: period, handler: handler}
	return id
}

// UnregisterTimer removes a previously registered timer.
func (r *RunLoop) UnregisterTimer(id uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.timers, id)
}
