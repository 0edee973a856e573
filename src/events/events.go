package events

import (
	"sync"
	"time"

	"github.com/biznex/bizconsole/src/logging"
)

type Kind string

const (
	// The backend rejected the session; every observer should log out.
	LogoutRequested Kind = "logout"
	// The backend answered 423; the user must change their password.
	PasswordChangeRequired Kind = "password-change-required"
	SessionStarted         Kind = "session-started"
	SessionEnded           Kind = "session-ended"
)

type Event struct {
	Kind     Kind      `json:"kind"`
	Username string    `json:"username,omitempty"`
	Reason   string    `json:"reason,omitempty"`
	At       time.Time `json:"at"`
}

// Bus is a process-wide publish/subscribe hub. Callback subscribers run
// synchronously on the publishing goroutine, in subscription order. Channel
// subscribers never block the publisher; a full channel drops the event.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	funcs  map[int]func(Event)
	order  []int
	chans  map[int]chan Event
}

func NewBus() *Bus {
	return &Bus{
		funcs: make(map[int]func(Event)),
		chans: make(map[int]chan Event),
	}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.funcs[id] = fn
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.funcs, id)
			for i, oid := range b.order {
				if oid == id {
					b.order = append(b.order[:i:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// SubscribeChan returns a buffered channel receiving every published event.
// The channel is closed by the returned unsubscribe function.
func (b *Bus) SubscribeChan(buffer int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	c := make(chan Event, buffer)
	b.chans[id] = c

	var once sync.Once
	return c, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.chans, id)
			close(c)
		})
	}
}

func (b *Bus) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	b.mu.RLock()
	funcs := make([]func(Event), 0, len(b.order))
	for _, id := range b.order {
		funcs = append(funcs, b.funcs[id])
	}
	for _, c := range b.chans {
		select {
		case c <- ev:
		default:
			logging.Warn().Str("kind", string(ev.Kind)).Msg("event subscriber is full, dropping event")
		}
	}
	b.mu.RUnlock()

	for _, fn := range funcs {
		fn(ev)
	}
}
