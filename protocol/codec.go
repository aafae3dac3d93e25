// File: protocol/codec.go
// Package protocol implements the frame codec with payload size enforcement.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Encoding follows RFC 6455 section 5.2: FIN and opcode in byte 0, MASK
// flag and 7-bit length field in byte 1, big-endian 16/64-bit extended
// lengths, optional 4-byte masking key, then payload. Outbound frames in
// the server-to-peer direction are never masked; the masked variant exists
// for the peer side of a loopback exchange.
//
// DecodeFrame tolerates buffers holding less than one full frame: it
// returns (nil, 0, nil) so callers can accumulate more bytes and retry,
// sliding their buffer forward by the consumed count after each success.

package protocol

import (
	"encoding/binary"
	"errors"
)

// ErrPayloadTooLarge is returned when a frame declares a payload above
// MaxFramePayload.
var ErrPayloadTooLarge = errors.New("frame payload exceeds maximum allowed size")

// EncodeFrame serializes f to wire format without masking.
func EncodeFrame(f *Frame) []byte {
	dst := make([]byte, 0, headerLen(len(f.Payload))+len(f.Payload))
	dst = appendHeader(dst, f, false)
	return append(dst, f.Payload...)
}

// EncodeFrameMasked serializes f with the MASK bit set, appending key and
// XOR-ing the payload with key[i%4]. f.Payload is not modified.
func EncodeFrameMasked(f *Frame, key [4]byte) []byte {
	dst := make([]byte, 0, headerLen(len(f.Payload))+4+len(f.Payload))
	dst = appendHeader(dst, f, true)
	dst = append(dst, key[:]...)
	start := len(dst)
	dst = append(dst, f.Payload...)
	ApplyMask(dst[start:], key)
	return dst
}

// appendHeader writes byte 0, byte 1 and any extended length field.
func appendHeader(dst []byte, f *Frame, mask bool) []byte {
	b0 := f.Opcode & 0x0F
	if f.Fin {
		b0 |= FinBit
	}
	var maskBit byte
	if mask {
		maskBit = MaskBit
	}

	plen := len(f.Payload)
	switch {
	case plen <= 125:
		dst = append(dst, b0, byte(plen)|maskBit)
	case plen <= 0xFFFF:
		dst = append(dst, b0, 126|maskBit, 0, 0)
		binary.BigEndian.PutUint16(dst[len(dst)-2:], uint16(plen))
	default:
		dst = append(dst, b0, 127|maskBit, 0, 0, 0, 0, 0, 0, 0, 0)
		binary.BigEndian.PutUint64(dst[len(dst)-8:], uint64(plen))
	}
	return dst
}

func headerLen(plen int) int {
	switch {
	case plen <= 125:
		return 2
	case plen <= 0xFFFF:
		return 4
	default:
		return 10
	}
}

// DecodeFrame parses one frame from raw.
//
// Returns the decoded frame and the total byte count consumed (header,
// masking key and payload) so the caller can slide its buffer forward.
// An incomplete buffer yields (nil, 0, nil), never a partial frame.
// Masked payloads are unmasked into a fresh slice; raw is left untouched.
func DecodeFrame(raw []byte) (*Frame, int, error) {
	if len(raw) < 2 {
		return nil, 0, nil // Incomplete
	}
	fin := raw[0]&FinBit != 0
	opcode := raw[0] & 0x0F
	masked := raw[1]&MaskBit != 0
	length := uint64(raw[1] & 0x7F)
	offset := 2

	switch length {
	case 126:
		if len(raw) < offset+2 {
			return nil, 0, nil // Incomplete
		}
		length = uint64(binary.BigEndian.Uint16(raw[offset:]))
		offset += 2
	case 127:
		if len(raw) < offset+8 {
			return nil, 0, nil // Incomplete
		}
		length = binary.BigEndian.Uint64(raw[offset:])
		offset += 8
	}

	if length > MaxFramePayload {
		return nil, 0, ErrPayloadTooLarge
	}

	var maskKey [4]byte
	if masked {
		if len(raw) < offset+4 {
			return nil, 0, nil // Incomplete
		}
		copy(maskKey[:], raw[offset:offset+4])
		offset += 4
	}

	totalLen := offset + int(length)
	if len(raw) < totalLen {
		return nil, 0, nil // Incomplete
	}

	payload := make([]byte, length)
	copy(payload, raw[offset:totalLen])
	if masked {
		ApplyMask(payload, maskKey)
	}

	return &Frame{
		Fin:     fin,
		Opcode:  opcode,
		Payload: payload,
	}, totalLen, nil
}
