// File: concurrency/framequeue.go
// Package concurrency provides the blocking frame handoff queue.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// FrameQueue carries decoded inbound frames from the binary-message
// delivery context to the session loop. Push never blocks the producer;
// PopWait blocks the single consumer up to a caller-supplied timeout.
// Backed by the eapache/queue ring buffer, guarded by a mutex, with a
// one-token wake channel in place of a condition variable so the waiter
// can also race a timer.

package concurrency

import (
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/wsock/protocol"
)

// FrameQueue is a thread-safe FIFO of decoded frames.
//
// Any number of goroutines may Push; at most one goroutine may sit in
// PopWait at a time. Close wakes the waiter without rejecting later
// pushes: the flag only tells the consumer to stop waiting once the
// queue has drained.
type FrameQueue struct {
	mu      sync.Mutex
	pending *queue.Queue // of *protocol.Frame
	closed  bool
	wake    chan struct{}
}

// NewFrameQueue returns an empty, open queue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{
		pending: queue.New(),
		wake:    make(chan struct{}, 1),
	}
}

// Push appends frame to the tail and wakes the waiter if one is blocked.
// Never fails, never blocks.
func (q *FrameQueue) Push(frame *protocol.Frame) {
	q.mu.Lock()
	q.pending.Add(frame)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// PopWait removes and returns the oldest pending frame. When the queue is
// empty it blocks until a frame arrives, the queue is closed, or timeout
// elapses; the latter two both yield (nil, false). Remaining frames are
// drained before a closed queue reports empty.
func (q *FrameQueue) PopWait(timeout time.Duration) (*protocol.Frame, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		q.mu.Lock()
		if q.pending.Length() > 0 {
			frame := q.pending.Remove().(*protocol.Frame)
			q.mu.Unlock()
			return frame, true
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return nil, false
		}

		select {
		case <-q.wake:
		case <-timer.C:
			return nil, false
		}
	}
}

// Close marks the queue closed and wakes the waiter. Pushes after Close
// are still accepted and remain poppable.
func (q *FrameQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Reset atomically drops all pending frames and clears the closed flag,
// preparing the queue for reuse by a new session.
func (q *FrameQueue) Reset() {
	q.mu.Lock()
	q.pending = queue.New()
	q.closed = false
	q.mu.Unlock()

	// Drop a stale wake token left over from the previous session.
	select {
	case <-q.wake:
	default:
	}
}

// Len reports the number of pending frames.
func (q *FrameQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending.Length()
}

// Closed reports whether Close has been called since the last Reset.
func (q *FrameQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
