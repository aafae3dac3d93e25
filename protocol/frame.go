// File: protocol/frame.go
// Package protocol implements the WebSocket frame value type.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Frame is a plain value: no I/O, no shared state. Fragmentation control
// bits are carried through the codec but no reassembly is performed; every
// frame is treated as a complete message.

package protocol

import "encoding/binary"

// Frame represents one WebSocket frame.
type Frame struct {
	Fin     bool   // FIN bit: frame completes a message
	Opcode  byte   // raw 4-bit operation code
	Payload []byte // unmasked payload bytes
}

// NewTextFrame builds a final TEXT frame over the given UTF-8 payload.
func NewTextFrame(payload []byte) *Frame {
	return &Frame{Fin: true, Opcode: OpcodeText, Payload: payload}
}

// NewBinaryFrame builds a final BINARY frame.
func NewBinaryFrame(payload []byte) *Frame {
	return &Frame{Fin: true, Opcode: OpcodeBinary, Payload: payload}
}

// NewPingFrame builds a PING frame carrying the given probe payload.
func NewPingFrame(payload []byte) *Frame {
	return &Frame{Fin: true, Opcode: OpcodePing, Payload: payload}
}

// NewPongFrame builds a PONG frame echoing a probe payload.
func NewPongFrame(payload []byte) *Frame {
	return &Frame{Fin: true, Opcode: OpcodePong, Payload: payload}
}

// NewCloseFrame builds a CLOSE frame whose payload is the big-endian
// close code with no reason text.
func NewCloseFrame(code uint16) *Frame {
	payload := make([]byte, 2)
	binary.BigEndian.PutUint16(payload, code)
	return &Frame{Fin: true, Opcode: OpcodeClose, Payload: payload}
}

// CloseCode extracts the close code from a CLOSE frame payload.
// ok is false for non-CLOSE frames and for payloads shorter than 2 bytes.
func (f *Frame) CloseCode() (code uint16, ok bool) {
	if f.Opcode != OpcodeClose || len(f.Payload) < 2 {
		return 0, false
	}
	return binary.BigEndian.Uint16(f.Payload), true
}

// ApplyMask XORs buf in place with key[i%4]. XOR is self-inverse, so the
// same call masks and unmasks.
func ApplyMask(buf []byte, key [4]byte) {
	for i := range buf {
		buf[i] ^= key[i%4]
	}
}
