// Package eventloop runs closures one at a time on a dedicated goroutine and
// delivers notifications to subscribers on that goroutine.
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"pkt.systems/pslog"
)

// ErrClosed is returned when work is posted to a stopped loop.
var ErrClosed = errors.New("event loop closed")

// Loop serializes closures onto a single goroutine. The queue is unbounded so
// posting never blocks the caller.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	stopped bool
	wake    chan struct{}
	done    chan struct{}
	log     pslog.Logger
}

// New starts a loop. The logger is taken from ctx.
func New(ctx context.Context) *Loop {
	l := &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		log:  pslog.Ctx(ctx),
	}
	go l.run()
	return l
}

// Post queues fn. It reports false when the loop is stopped.
func (l *Loop) Post(fn func()) bool {
	if l == nil || fn == nil {
		return false
	}
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do runs fn on the loop and waits for its result. If ctx ends first the
// closure may still run later. Do must not be called from the loop itself.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if !l.Post(func() { result <- fn() }) {
		return ErrClosed
	}
	select {
	case err := <-result:
		return err
	case <-l.done:
		select {
		case err := <-result:
			return err
		default:
			return ErrClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop refuses further work and lets the loop exit after draining what is
// already queued. Safe to call from the loop.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Done is closed when the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the loop exits or ctx ends.
func (l *Loop) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		stopped := l.stopped
		l.mu.Unlock()
		for _, fn := range batch {
			l.invoke(fn)
		}
		if len(batch) > 0 {
			continue
		}
		if stopped {
			return
		}
		<-l.wake
	}
}

func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("event loop handler panic", "panic", fmt.Sprint(r))
		}
	}()
	fn()
}
