package concurrency

import (
	"fmt"
	"testing"
	"time"

	"github.com/momentics/wsock/protocol"
)

func textFrame(s string) *protocol.Frame {
	return protocol.NewTextFrame([]byte(s))
}

// TestFrameQueueFIFO checks insertion order is preserved across pops.
func TestFrameQueueFIFO(t *testing.T) {
	q := NewFrameQueue()
	q.Push(textFrame("f1"))
	q.Push(textFrame("f2"))
	q.Push(textFrame("f3"))

	for _, want := range []string{"f1", "f2", "f3"} {
		frame, ok := q.PopWait(time.Second)
		if !ok {
			t.Fatalf("expected frame %q, queue reported empty", want)
		}
		if string(frame.Payload) != want {
			t.Errorf("got %q, want %q", frame.Payload, want)
		}
	}

	if q.Len() != 0 {
		t.Errorf("queue not drained: %d pending", q.Len())
	}
}

// TestFrameQueueTimeout verifies PopWait on an empty, open queue blocks
// approximately the requested duration, neither returning immediately nor
// hanging.
func TestFrameQueueTimeout(t *testing.T) {
	q := NewFrameQueue()
	const timeout = 50 * time.Millisecond

	start := time.Now()
	frame, ok := q.PopWait(timeout)
	elapsed := time.Since(start)

	if ok || frame != nil {
		t.Fatalf("expected no frame, got %v", frame)
	}
	if elapsed < timeout {
		t.Errorf("returned after %v, before the %v timeout", elapsed, timeout)
	}
	if elapsed > timeout+500*time.Millisecond {
		t.Errorf("returned after %v, far past the %v timeout", elapsed, timeout)
	}
}

// TestFrameQueueCloseDrain ensures a closed queue hands out pending frames
// first and only afterwards reports empty.
func TestFrameQueueCloseDrain(t *testing.T) {
	q := NewFrameQueue()
	q.Push(textFrame("pending"))
	q.Close()

	frame, ok := q.PopWait(time.Second)
	if !ok || string(frame.Payload) != "pending" {
		t.Fatalf("expected pending frame before close takes effect, got ok=%t", ok)
	}

	start := time.Now()
	if _, ok := q.PopWait(time.Second); ok {
		t.Fatal("expected closed-and-empty after drain")
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("closed pop blocked %v instead of returning promptly", elapsed)
	}
}

// TestFrameQueueCloseWakesWaiter checks a blocked consumer is released
// when the producer closes the queue.
func TestFrameQueueCloseWakesWaiter(t *testing.T) {
	q := NewFrameQueue()
	done := make(chan bool, 1)

	go func() {
		_, ok := q.PopWait(5 * time.Second)
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case ok := <-done:
		if ok {
			t.Error("waiter got a frame from an empty closed queue")
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not wake the blocked waiter")
	}
}

// TestFrameQueuePushAfterClose confirms the closed flag does not reject
// new frames.
func TestFrameQueuePushAfterClose(t *testing.T) {
	q := NewFrameQueue()
	q.Close()
	q.Push(textFrame("late"))

	frame, ok := q.PopWait(time.Second)
	if !ok || string(frame.Payload) != "late" {
		t.Fatalf("push after close was lost: ok=%t", ok)
	}
}

// TestFrameQueueReset verifies Reset drops pending frames and clears the
// closed flag for session reuse.
func TestFrameQueueReset(t *testing.T) {
	q := NewFrameQueue()
	q.Push(textFrame("stale"))
	q.Close()
	q.Reset()

	if q.Len() != 0 {
		t.Errorf("pending frames survived reset: %d", q.Len())
	}
	if q.Closed() {
		t.Error("closed flag survived reset")
	}

	q.Push(textFrame("fresh"))
	frame, ok := q.PopWait(time.Second)
	if !ok || string(frame.Payload) != "fresh" {
		t.Fatal("queue unusable after reset")
	}
}

// TestFrameQueueProducerConsumer runs the queue under its intended
// pattern: one producer pushing, one consumer popping with a short
// timeout, order preserved end to end.
func TestFrameQueueProducerConsumer(t *testing.T) {
	q := NewFrameQueue()
	const total = 200

	go func() {
		for i := 0; i < total; i++ {
			q.Push(textFrame(fmt.Sprintf("frame-%d", i)))
			if i%50 == 0 {
				time.Sleep(time.Millisecond)
			}
		}
		q.Close()
	}()

	received := 0
	for {
		frame, ok := q.PopWait(100 * time.Millisecond)
		if !ok {
			if q.Closed() && q.Len() == 0 {
				break
			}
			continue
		}
		want := fmt.Sprintf("frame-%d", received)
		if string(frame.Payload) != want {
			t.Fatalf("out of order: got %q, want %q", frame.Payload, want)
		}
		received++
	}

	if received != total {
		t.Errorf("received %d frames, want %d", received, total)
	}
}
