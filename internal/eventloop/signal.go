package eventloop

import (
	"sync"
	"sync/atomic"
)

// Signal is a notification source. Each subscriber names the loop its
// handler runs on; a subscription cancelled on that loop receives nothing
// further, including deliveries that were already queued.
type Signal[T any] struct {
	mu   sync.Mutex
	next uint64
	subs map[uint64]*subscription[T]
}

type subscription[T any] struct {
	loop   *Loop
	fn     func(T)
	active atomic.Bool
}

// NewSignal returns an empty signal.
func NewSignal[T any]() *Signal[T] {
	return &Signal[T]{subs: make(map[uint64]*subscription[T])}
}

// Subscribe registers fn to run on loop for every Emit. The returned cancel
// func is idempotent.
func (s *Signal[T]) Subscribe(loop *Loop, fn func(T)) func() {
	sub := &subscription[T]{loop: loop, fn: fn}
	sub.active.Store(true)
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = sub
	s.mu.Unlock()
	return func() {
		sub.active.Store(false)
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Emit queues v for every current subscriber.
func (s *Signal[T]) Emit(v T) {
	s.mu.Lock()
	subs := make([]*subscription[T], 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()
	for _, sub := range subs {
		sub := sub
		sub.loop.Post(func() {
			if !sub.active.Load() {
				return
			}
			sub.fn(v)
		})
	}
}

// Subscribers reports the number of live subscriptions.
func (s *Signal[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
