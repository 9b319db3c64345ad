// Package realtime fans committed project mutations out to every connected
// session.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// DefaultQueueSize bounds how far a session may fall behind before it is
// dropped.
const DefaultQueueSize = 64

// Publisher delivers an event to all sessions. The mutation path depends on
// this rather than on a concrete transport.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Subscription is one connected session's view of the hub.
type Subscription struct {
	id     uint64
	queue  chan []byte
	closed chan struct{}
	once   sync.Once
}

// Messages yields encoded events in publish order.
func (s *Subscription) Messages() <-chan []byte { return s.queue }

// Done is closed once the hub stops delivering to this session, either on
// Unsubscribe, on Close, or because the session fell behind.
func (s *Subscription) Done() <-chan struct{} { return s.closed }

func (s *Subscription) stop() {
	s.once.Do(func() { close(s.closed) })
}

// Hub is the in-process set of sessions.
type Hub struct {
	mu        sync.Mutex
	subs      map[uint64]*Subscription
	nextID    uint64
	queueSize int
	closed    bool
}

func NewHub(queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Hub{subs: make(map[uint64]*Subscription), queueSize: queueSize}
}

// Subscribe registers a session. It receives only events published after
// this call returns.
func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	s := &Subscription{
		id:     h.nextID,
		queue:  make(chan []byte, h.queueSize),
		closed: make(chan struct{}),
	}
	if h.closed {
		s.stop()
		return s
	}
	h.subs[s.id] = s
	return s
}

func (h *Hub) Unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subs, s.id)
	s.stop()
}

// Publish encodes ev once and hands it to every session.
func (h *Hub) Publish(_ context.Context, ev Event) error {
	msg, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	h.Deliver(msg)
	return nil
}

// Deliver enqueues an already encoded event for every session without
// blocking. The lock is held for the whole pass so all sessions observe the
// same order. A session whose queue is full is dropped.
func (h *Hub) Deliver(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, s := range h.subs {
		select {
		case s.queue <- msg:
		default:
			delete(h.subs, id)
			s.stop()
		}
	}
}

func (h *Hub) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every session; later subscriptions are born closed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, s := range h.subs {
		delete(h.subs, id)
		s.stop()
	}
}
