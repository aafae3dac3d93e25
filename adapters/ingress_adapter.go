// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Ingress adapter translating raw inbound binary chunks into decoded
// frames on the exchange queue.
//
// The host transport delivers whole IPC messages, so each chunk is
// expected to hold exactly one complete frame. A chunk that decodes
// incomplete or malformed is dropped (and counted); no buffering spans
// chunks. Transports that deliver an unframed byte stream use Assembler
// instead, which accumulates and slides.

package adapters

import (
	"sync/atomic"

	"github.com/momentics/wsock/api"
	"github.com/momentics/wsock/concurrency"
	"github.com/momentics/wsock/protocol"
)

// Ingress decodes one frame per inbound binary message and pushes it onto
// the session's frame queue.
type Ingress struct {
	queue   *concurrency.FrameQueue
	dropped atomic.Int64
}

// NewIngress binds an adapter to the given queue.
func NewIngress(queue *concurrency.FrameQueue) *Ingress {
	return &Ingress{queue: queue}
}

// HandleBinary consumes one inbound chunk. Undecodable chunks are dropped
// silently; the message is acknowledged as handled either way.
func (in *Ingress) HandleBinary(data []byte) bool {
	frame, _, err := protocol.DecodeFrame(data)
	if err != nil || frame == nil {
		in.dropped.Add(1)
		return true
	}
	in.queue.Push(frame)
	return true
}

// Handler exposes the adapter as an api.BinaryHandler for registration
// with the host transport.
func (in *Ingress) Handler() api.BinaryHandler {
	return in.HandleBinary
}

// Dropped reports how many chunks failed to decode and were discarded.
func (in *Ingress) Dropped() int64 {
	return in.dropped.Load()
}
