package render

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerCoalescesRequests(t *testing.T) {
	var flushes atomic.Int32
	flushed := make(chan struct{}, 8)
	s := NewScheduler(func() {
		flushes.Add(1)
		flushed <- struct{}{}
	}, WithFrameInterval(time.Millisecond))

	for i := 0; i < 100; i++ {
		s.RequestRender()
	}
	if !s.Pending() {
		t.Fatal("no flush pending after requests")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-flushed:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for flush")
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
	if n := flushes.Load(); n != 1 {
		t.Errorf("flushes = %d, want 1", n)
	}
}

func TestSchedulerRequestsDuringFlush(t *testing.T) {
	var flushes atomic.Int32
	gate := make(chan struct{})
	entered := make(chan struct{}, 8)
	s := NewScheduler(func() {
		if flushes.Add(1) == 1 {
			entered <- struct{}{}
			<-gate
			return
		}
		entered <- struct{}{}
	}, WithFrameInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	s.RequestRender()
	<-entered
	for i := 0; i < 10; i++ {
		s.RequestRender()
	}
	close(gate)

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for second flush")
	}
	cancel()
	<-done
	if n := flushes.Load(); n != 2 {
		t.Errorf("flushes = %d, want 2", n)
	}
}

func TestRequestRenderNeverBlocks(t *testing.T) {
	s := NewScheduler(func() {})
	finished := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			s.RequestRender()
		}
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("RequestRender blocked without a running scheduler")
	}
}
