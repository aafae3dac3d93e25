// File: adapters/assembler.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Assembler is the byte-stream counterpart of Ingress: frames may arrive
// split or coalesced across chunks, so it keeps a resettable accumulation
// buffer and repeatedly decodes, sliding forward by the consumed length.

package adapters

import "github.com/momentics/wsock/protocol"

// Assembler reassembles frames from a raw byte stream and delivers each
// complete frame to a callback in arrival order.
type Assembler struct {
	buf     []byte
	deliver func(*protocol.Frame)
}

// NewAssembler creates an assembler delivering frames to fn.
func NewAssembler(fn func(*protocol.Frame)) *Assembler {
	return &Assembler{deliver: fn}
}

// Feed appends chunk to the accumulation buffer and drains every complete
// frame now available. A decode error discards the buffer: the stream has
// lost framing and cannot be resynchronized.
func (a *Assembler) Feed(chunk []byte) error {
	a.buf = append(a.buf, chunk...)
	for {
		frame, consumed, err := protocol.DecodeFrame(a.buf)
		if err != nil {
			a.buf = nil
			return err
		}
		if frame == nil {
			return nil // wait for more bytes
		}
		a.buf = a.buf[consumed:]
		a.deliver(frame)
	}
}

// Pending reports buffered bytes not yet forming a complete frame.
func (a *Assembler) Pending() int {
	return len(a.buf)
}

// Reset discards any partial frame, for stream reuse.
func (a *Assembler) Reset() {
	a.buf = nil
}
