package controlplane

import (
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	commandQueueSize      = 256
	subscriberQueueSize   = 256
	maxSubscribers        = 32
)

// Bridge is the single point through which UI commands reach the engine
// and engine notifications reach the UI. One Bridge is shared by every
// session; callers on either side only ever see Submit/Dispatch and
// Subscribe/Publish.
type Bridge struct {
	log *logrus.Entry

	commands chan Command

	mu          sync.RWMutex
	lastApplied map[CommandKind]uint64 // highest sequence number applied per kind, for dedup
	subscribers []chan Notification
}

// New constructs a Bridge ready to accept commands and notifications.
func New(log *logrus.Logger) *Bridge {
	if log == nil {
		log = logrus.New()
	}
	return &Bridge{
		log:         log.WithField("component", "controlplane"),
		commands:    make(chan Command, commandQueueSize),
		lastApplied: make(map[CommandKind]uint64),
	}
}

// Submit enqueues cmd for later dispatch. Safe to call from any goroutine;
// blocks only if the queue is full, which signals a flooding UI rather
// than a real-time concern (this never runs on the audio thread).
func (b *Bridge) Submit(cmd Command) {
	b.commands <- cmd
}

// Dispatch drains every command currently queued and applies each to
// handler, skipping any whose Sequence has already been applied for its
// Kind so a retried Submit after a lost acknowledgement cannot double-apply
// a state change. Intended to be called once per control-plane tick from a
// non-realtime thread (the engine's own run loop), never from the audio
// callback.
func (b *Bridge) Dispatch(handler CommandHandler) {
	for {
		select {
		case cmd := <-b.commands:
			if b.alreadyApplied(cmd) {
				b.log.WithFields(logrus.Fields{"kind": cmd.Kind, "seq": cmd.Sequence}).
					Debug("dropping command already applied (at-most-once dedup)")
				continue
			}
			if err := handler(cmd); err != nil {
				b.log.WithError(err).WithField("kind", cmd.Kind).Warn("command handler returned an error")
				b.Publish(Notification{Kind: NotifyError, Err: err})
				continue
			}
			b.markApplied(cmd)
		default:
			return
		}
	}
}

func (b *Bridge) alreadyApplied(cmd Command) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cmd.Sequence != 0 && cmd.Sequence <= b.lastApplied[cmd.Kind]
}

func (b *Bridge) markApplied(cmd Command) {
	if cmd.Sequence == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if cmd.Sequence > b.lastApplied[cmd.Kind] {
		b.lastApplied[cmd.Kind] = cmd.Sequence
	}
}

// Subscribe registers a new notification listener and returns the channel
// it will receive on. Once maxSubscribers listeners are registered, the
// returned channel is not registered and never receives a notification.
// The caller must keep draining it; Publish blocks a
// slow subscriber rather than drop a notification, since notifications are
// at-least-once delivery per §4.6.
func (b *Bridge) Subscribe() <-chan Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Notification, subscriberQueueSize)
	if len(b.subscribers) < maxSubscribers {
		b.subscribers = append(b.subscribers, ch)
	}
	return ch
}

// Unsubscribe removes a channel previously returned by Subscribe and closes
// it. Safe to call once; calling it twice on the same channel panics on the
// close, matching normal Go channel semantics.
func (b *Bridge) Unsubscribe(ch <-chan Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subscribers {
		if sub == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Publish fans n out to every current subscriber. It takes a snapshot of
// the subscriber list under the lock and sends without holding it, so a
// blocked subscriber cannot stall Subscribe/Unsubscribe on another
// goroutine, mirroring pkg/param.Manager's listener broadcast.
func (b *Bridge) Publish(n Notification) {
	b.mu.RLock()
	subs := make([]chan Notification, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, sub := range subs {
		sub <- n
	}
}
