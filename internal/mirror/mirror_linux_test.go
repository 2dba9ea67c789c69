//go:build linux

package mirror

import (
	"context"
	"testing"
	"time"

	"github.com/gridcast/gridcast/internal/ipckey"
	"github.com/gridcast/gridcast/internal/msgqueue"
	"github.com/gridcast/gridcast/internal/runloop"
	"github.com/gridcast/gridcast/internal/segment"
)

// typedOnLoop reads the fake grid's input log on the loop goroutine, where
// the receiver's handler also runs.
func typedOnLoop(loop *runloop.Loop, d *fakeGrid) string {
	ch := make(chan string, 1)
	if !loop.Post(func() { ch <- d.Typed() }) {
		return ""
	}
	return <-ch
}

// End-to-end over real kernel IPC: an external process image sends input
// text through the queue and watches update pulses.
func TestExternalControlRoundTrip(t *testing.T) {
	heapSegments(t)
	path := "/tmp/gridcast-mirror-test/" + t.Name()
	loop := runloop.New(32)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	d := newFakeGrid(10, 4)
	m, err := Start(d, Options{
		TerminalPath:    path,
		ExternalControl: true,
		RowArray:        true,
		Loop:            loop,
	})
	if err != nil {
		t.Skipf("kernel IPC unavailable: %v", err)
	}
	defer m.Stop()

	key, err := ipckey.FromPath(path)
	if err != nil {
		t.Fatalf("ipckey: %v", err)
	}
	external, err := msgqueue.OpenQueue(key)
	if err != nil {
		t.Fatalf("open queue externally: %v", err)
	}

	if err := external.Send(msgqueue.TypeInputText, []byte("ok")); err != nil {
		t.Fatalf("external send: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for typedOnLoop(loop, d) != "ok" {
		if time.Now().After(deadline) {
			t.Fatalf("input text never reached the emulator, typed %q", typedOnLoop(loop, d))
		}
		time.Sleep(10 * time.Millisecond)
	}

	// A mutating operation pulses the queue.
	done := make(chan struct{})
	loop.Post(func() {
		m.AddCharacter('A')
		close(done)
	})
	<-done
	buf := make([]byte, 8)
	if _, err := external.Receive(msgqueue.TypeSegmentUpdated, buf); err != nil {
		t.Fatalf("receive update pulse: %v", err)
	}
}

func TestStopWithExternalControlJoinsReceiver(t *testing.T) {
	heapSegments(t)
	loop := runloop.New(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	d := newFakeGrid(4, 2)
	m, err := Start(d, Options{
		TerminalPath:    "/tmp/gridcast-mirror-test/" + t.Name(),
		ExternalControl: true,
		Loop:            loop,
	})
	if err != nil {
		t.Skipf("kernel IPC unavailable: %v", err)
	}
	stopped := make(chan struct{})
	go func() {
		m.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop did not join the receiver")
	}
	if !d.Ended() {
		t.Fatalf("driver was not ended")
	}
}

func TestStartAbortsWhenQueueCreationFails(t *testing.T) {
	heapSegments(t)
	origQueue := createQueue
	createQueue = func(key ipckey.Key) (*msgqueue.Queue, error) {
		return nil, msgqueue.ErrUnsupported
	}
	t.Cleanup(func() { createQueue = origQueue })

	var destroyed *segment.Segment
	origSegment := createSegment
	createSegment = func(_ ipckey.Key, columns, rows int, withRowArray bool) (*segment.Segment, error) {
		s, err := segment.New(columns, rows, withRowArray)
		destroyed = s
		return s, err
	}
	t.Cleanup(func() { createSegment = origSegment })

	d := newFakeGrid(4, 2)
	_, err := Start(d, Options{
		TerminalPath:    "/tmp/gridcast-mirror-test/" + t.Name(),
		ExternalControl: true,
		Loop:            runloop.New(4),
	})
	if err == nil {
		t.Fatalf("expected startup to abort when the queue cannot be created")
	}
	if destroyed == nil {
		t.Fatalf("segment was never created")
	}
}
