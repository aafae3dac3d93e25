// Package protocol
// Author: momentics <momentics@gmail.com>
//
// WebSocket wire protocol constants (RFC 6455).

package protocol

const (
	// Opcodes. The wire field is 4 bits; values outside the named set are
	// carried through decode/encode unchanged.
	OpcodeContinuation = 0x0
	OpcodeText         = 0x1
	OpcodeBinary       = 0x2
	OpcodeClose        = 0x8
	OpcodePing         = 0x9
	OpcodePong         = 0xA

	// Frame limit settings
	MaxControlPayloadLen = 125
	MaxFrameHeaderLen    = 14 // extended payload length plus masking key

	// MaxFramePayload caps a single frame payload. Declared lengths above
	// the cap fail decode before any allocation happens.
	MaxFramePayload = 1 << 30 // 1 GiB

	// Bit masks
	FinBit  = 0x80
	MaskBit = 0x80

	// Close codes
	CloseNormalClosure      = 1000
	CloseGoingAway          = 1001
	CloseProtocolError      = 1002
	CloseUnsupportedData    = 1003
	CloseNoStatusRcvd       = 1005
	CloseAbnormalClosure    = 1006
	CloseInvalidPayloadData = 1007
	ClosePolicyViolation    = 1008
	CloseMessageTooBig      = 1009
	CloseMissingExtension   = 1010
	CloseInternalServerErr  = 1011
)

// OpcodeName returns a human-readable tag for an opcode, including raw
// nibble values outside the named set.
func OpcodeName(op byte) string {
	switch op {
	case OpcodeContinuation:
		return "continuation"
	case OpcodeText:
		return "text"
	case OpcodeBinary:
		return "binary"
	case OpcodeClose:
		return "close"
	case OpcodePing:
		return "ping"
	case OpcodePong:
		return "pong"
	default:
		return "unknown"
	}
}

// IsControlOpcode reports whether op designates a control frame.
func IsControlOpcode(op byte) bool {
	return op >= 0x8
}
