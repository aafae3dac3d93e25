// File: client/peer.go
// Package client implements the peer half of a loopback exchange.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Peer plays the role the in-page script has in production: it consumes
// the server's outbound byte stream, reassembles frames across chunk
// boundaries, answers every PING with a masked PONG echoing the probe
// payload, and sends masked data frames of its own. Frames travel toward
// the server through the same binary-message hook the host transport
// would invoke.

package client

import (
	"log"
	"math/rand/v2"
	"sync"

	"github.com/momentics/wsock/adapters"
	"github.com/momentics/wsock/api"
	"github.com/momentics/wsock/protocol"
)

// Peer is the client-side endpoint of a loopback session.
type Peer struct {
	send   api.BinaryHandler
	logger *log.Logger
	asm    *adapters.Assembler

	mu        sync.Mutex
	data      []*protocol.Frame // TEXT/BINARY frames received
	pingsSeen int64
	pongsSent int64

	closeOnce sync.Once
	closed    chan struct{}
}

// NewPeer creates a peer that replies through send.
func NewPeer(send api.BinaryHandler, logger *log.Logger) *Peer {
	if logger == nil {
		logger = log.Default()
	}
	p := &Peer{
		send:   send,
		logger: logger,
		closed: make(chan struct{}),
	}
	p.asm = adapters.NewAssembler(p.handleFrame)
	return p
}

// HandleStreamBytes consumes one chunk of the server's outbound stream.
// Chunks may split or coalesce frames arbitrarily.
func (p *Peer) HandleStreamBytes(buf []byte) {
	if err := p.asm.Feed(buf); err != nil {
		p.logger.Printf("[peer] stream desynchronized: %v", err)
	}
}

func (p *Peer) handleFrame(frame *protocol.Frame) {
	switch frame.Opcode {
	case protocol.OpcodePing:
		p.mu.Lock()
		p.pingsSeen++
		p.mu.Unlock()
		p.logger.Printf("[peer] PING: %s", frame.Payload)
		p.sendMasked(protocol.NewPongFrame(frame.Payload))
		p.mu.Lock()
		p.pongsSent++
		p.mu.Unlock()

	case protocol.OpcodeText, protocol.OpcodeBinary:
		p.mu.Lock()
		p.data = append(p.data, frame)
		p.mu.Unlock()
		p.logger.Printf("[peer] received: %s", frame.Payload)

	case protocol.OpcodeClose:
		p.logger.Printf("[peer] CLOSE received")
		p.closeOnce.Do(func() { close(p.closed) })
	}
}

// sendMasked encodes frame with a fresh masking key and delivers it to
// the server-side binary handler.
func (p *Peer) sendMasked(frame *protocol.Frame) {
	var key [4]byte
	r := rand.Uint32()
	key[0] = byte(r >> 24)
	key[1] = byte(r >> 16)
	key[2] = byte(r >> 8)
	key[3] = byte(r)
	p.send(protocol.EncodeFrameMasked(frame, key))
}

// SendText sends a masked TEXT frame toward the server.
func (p *Peer) SendText(text string) {
	p.sendMasked(protocol.NewTextFrame([]byte(text)))
}

// SendBinary sends a masked BINARY frame toward the server.
func (p *Peer) SendBinary(payload []byte) {
	p.sendMasked(protocol.NewBinaryFrame(payload))
}

// SendClose sends a masked normal-closure CLOSE frame toward the server.
func (p *Peer) SendClose() {
	p.sendMasked(protocol.NewCloseFrame(protocol.CloseNormalClosure))
}

// Closed is closed once the server's CLOSE frame arrives.
func (p *Peer) Closed() <-chan struct{} {
	return p.closed
}

// DataFrames returns the TEXT/BINARY frames received so far.
func (p *Peer) DataFrames() []*protocol.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*protocol.Frame, len(p.data))
	copy(out, p.data)
	return out
}

// PingsSeen reports the number of PING probes observed.
func (p *Peer) PingsSeen() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pingsSeen
}

// PongsSent reports the number of PONG replies emitted.
func (p *Peer) PongsSent() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pongsSent
}
