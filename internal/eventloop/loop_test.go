package eventloop

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestLoopRunsInOrder(t *testing.T) {
	loop := New(context.Background())
	defer loop.Stop()

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		loop.Post(func() { got = append(got, i) })
	}
	if err := loop.Do(context.Background(), func() error { return nil }); err != nil {
		t.Fatalf("do: %v", err)
	}
	if !reflect.DeepEqual(got, []int{0, 1, 2, 3, 4}) {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestLoopDoReturnsError(t *testing.T) {
	loop := New(context.Background())
	defer loop.Stop()
	want := errors.New("boom")
	if err := loop.Do(context.Background(), func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func TestLoopStopRejectsWork(t *testing.T) {
	loop := New(context.Background())
	loop.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := loop.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if loop.Post(func() {}) {
		t.Fatalf("expected post to fail after stop")
	}
	if err := loop.Do(context.Background(), func() error { return nil }); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestLoopSurvivesPanic(t *testing.T) {
	loop := New(context.Background())
	defer loop.Stop()
	loop.Post(func() { panic("handler") })
	if err := loop.Do(context.Background(), func() error { return nil }); err != nil {
		t.Fatalf("loop did not survive panic: %v", err)
	}
}

func TestSignalCancelDropsQueuedDeliveries(t *testing.T) {
	loop := New(context.Background())
	defer loop.Stop()

	sig := NewSignal[int]()
	var got []int
	var cancel func()
	cancel = sig.Subscribe(loop, func(v int) {
		got = append(got, v)
		cancel()
	})

	block := make(chan struct{})
	loop.Post(func() { <-block })
	sig.Emit(1)
	sig.Emit(2)
	close(block)

	if err := loop.Do(context.Background(), func() error { return nil }); err != nil {
		t.Fatalf("do: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("expected exactly one delivery, got %v", got)
	}
	if sig.Subscribers() != 0 {
		t.Fatalf("expected no subscribers, got %d", sig.Subscribers())
	}
}
