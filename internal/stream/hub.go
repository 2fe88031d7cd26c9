// Package stream implements in-process fan-out of conversation messages to
// live subscribers. One Hub serves the whole process; subscriptions are keyed
// by match id.
//
// The delivery contract per subscription:
//   - the stored backlog is delivered first, in order,
//   - then live messages, in publish order, with no gaps and no duplicates
//     (messages that raced into both the backlog and the live path are
//     deduplicated by id),
//   - after Close returns, nothing is ever delivered again.
//
// The Hub is deliberately process-local. It sits behind the Publisher seam so
// a broker-backed fan-out (e.g. redis pub/sub) can replace it when the service
// runs with more than one instance.
package stream

import (
	"sync"

	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
)

// Publisher is the seam the conversation service publishes through.
type Publisher interface {
	Publish(matchID string, msg domain.Message)
}

// Hub routes published messages to the live subscriptions of their match.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
	done bool
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers a live subscription for matchID. The subscription
// buffers everything published from this moment on but delivers nothing until
// Replay is called with the stored backlog; this lets the caller register
// first and read the backlog second without losing the messages in between.
func (h *Hub) Subscribe(matchID string) *Subscription {
	s := &Subscription{
		hub:     h,
		matchID: matchID,
		out:     make(chan domain.Message, 16),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		seen:    make(map[string]struct{}),
	}
	s.cond = sync.NewCond(&s.mu)

	h.mu.Lock()
	if h.done {
		h.mu.Unlock()
		s.markClosed()
		close(s.out)
		close(s.done)
		return s
	}
	set, ok := h.subs[matchID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[matchID] = set
	}
	set[s] = struct{}{}
	h.mu.Unlock()

	go s.pump()
	return s
}

// Publish fans msg out to every live subscription of matchID. It never
// blocks on slow consumers; each subscription queues internally.
func (h *Hub) Publish(matchID string, msg domain.Message) {
	h.mu.RLock()
	for s := range h.subs[matchID] {
		s.enqueue(msg)
	}
	h.mu.RUnlock()
}

// Shutdown closes every subscription. Further Subscribe calls return an
// already-closed subscription.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	if h.done {
		h.mu.Unlock()
		return
	}
	h.done = true
	var all []*Subscription
	for _, set := range h.subs {
		for s := range set {
			all = append(all, s)
		}
	}
	h.subs = make(map[string]map[*Subscription]struct{})
	h.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}

func (h *Hub) remove(matchID string, s *Subscription) {
	h.mu.Lock()
	if set, ok := h.subs[matchID]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(h.subs, matchID)
		}
	}
	h.mu.Unlock()
}

// Subscription is one consumer's ordered view of a match's messages.
type Subscription struct {
	hub     *Hub
	matchID string

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []domain.Message
	seen    map[string]struct{}
	started bool
	closed  bool

	out  chan domain.Message
	quit chan struct{}
	done chan struct{}

	closeOnce sync.Once
}

// C returns the delivery channel. It is closed when the subscription ends.
func (s *Subscription) C() <-chan domain.Message { return s.out }

// Replay hands the subscription the stored backlog. Backlog messages are
// delivered before anything buffered live, and live messages whose ids
// already appear in the backlog are dropped. Replay must be called exactly
// once, before the first delivery is expected.
func (s *Subscription) Replay(backlog []domain.Message) {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	for _, m := range backlog {
		s.seen[m.ID] = struct{}{}
	}
	// Drop live messages that raced into both paths.
	buffered := s.queue[:0]
	for _, m := range s.queue {
		if _, dup := s.seen[m.ID]; !dup {
			buffered = append(buffered, m)
		}
	}
	merged := make([]domain.Message, 0, len(backlog)+len(buffered))
	merged = append(merged, backlog...)
	merged = append(merged, buffered...)
	s.queue = merged
	s.started = true
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Close tears the subscription down. When it returns, the delivery channel is
// closed and no further sends can happen.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.markClosed()
		s.hub.remove(s.matchID, s)
		<-s.done
	})
}

func (s *Subscription) markClosed() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.quit)
		s.cond.Broadcast()
	}
	s.mu.Unlock()
}

func (s *Subscription) enqueue(msg domain.Message) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if _, dup := s.seen[msg.ID]; dup {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, msg)
	s.cond.Broadcast()
	s.mu.Unlock()
}

// pump moves queued messages to the out channel in order. It exits when the
// subscription closes, even if the consumer stopped reading.
func (s *Subscription) pump() {
	defer func() {
		close(s.out)
		close(s.done)
	}()
	for {
		s.mu.Lock()
		for !s.closed && (!s.started || len(s.queue) == 0) {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		batch := s.queue
		s.queue = nil
		s.mu.Unlock()

		for _, m := range batch {
			select {
			case s.out <- m:
			case <-s.quit:
				return
			}
		}
	}
}
