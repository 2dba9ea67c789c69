package runloop

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestTasksRunInOrderOnOneGoroutine(t *testing.T) {
	loop := New(16)
	var mu sync.Mutex
	var got []int
	stopped := make(chan struct{})
	go func() {
		loop.Run(context.Background())
		close(stopped)
	}()
	for i := 0; i < 10; i++ {
		i := i
		if !loop.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}) {
			t.Fatalf("post %d rejected", i)
		}
	}
	loop.Close()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not stop")
	}
	if len(got) != 10 {
		t.Fatalf("ran %d tasks, want 10", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("task order %v", got)
		}
	}
}

func TestPostAfterClose(t *testing.T) {
	loop := New(1)
	loop.Close()
	if loop.Post(func() {}) {
		t.Fatalf("expected post after close to be rejected")
	}
}

func TestQueuedTasksDrainOnClose(t *testing.T) {
	loop := New(8)
	ran := make(chan struct{}, 8)
	for i := 0; i < 5; i++ {
		if !loop.Post(func() { ran <- struct{}{} }) {
			t.Fatalf("post rejected")
		}
	}
	loop.Close()
	done := make(chan struct{})
	go func() {
		loop.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not drain")
	}
	if len(ran) != 5 {
		t.Fatalf("drained %d tasks, want 5", len(ran))
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	loop := New(1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not honor context cancel")
	}
}

func TestNilLoopIsInert(t *testing.T) {
	var loop *Loop
	if loop.Post(func() {}) {
		t.Fatalf("nil loop accepted a task")
	}
	loop.Close()
	loop.Run(context.Background())
}
