package gate

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Event is a session change published by the gate.
type Event struct {
	Kind   string
	Role   string
	UID    string
	Email  string
	Reason Reason
	At     time.Time
}

// Sessions fans session changes out to subscribers. Subscribe delivers in
// the goroutine that published; SubscribeAsync hands events to a worker.
type Sessions struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(Event)
}

func NewSessions() *Sessions {
	return &Sessions{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns the function that removes it.
func (s *Sessions) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Sessions) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	s.mu.RLock()
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// SubscribeAsync registers fn behind a worker goroutine with a queue of
// buffer events, so Publish never waits on fn. Events arriving while the
// queue is full are dropped. The returned function unsubscribes and waits
// until the worker has drained the queue.
func (s *Sessions) SubscribeAsync(fn func(Event), buffer int) func() {
	w := &worker{
		queue: make(chan Event, buffer),
		done:  make(chan struct{}),
	}
	go w.run(fn)

	unsubscribe := s.Subscribe(w.deliver)
	return func() {
		unsubscribe()
		w.stop()
	}
}

type worker struct {
	mu     sync.Mutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

func (w *worker) run(fn func(Event)) {
	defer close(w.done)
	for ev := range w.queue {
		fn(ev)
	}
}

func (w *worker) deliver(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	select {
	case w.queue <- ev:
	default:
		log.Warn().Str("kind", ev.Kind).Str("uid", ev.UID).Msg("session event dropped, subscriber queue full")
	}
}

func (w *worker) stop() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	<-w.done
}
