package protocol

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// TestFrameRoundTrip verifies decode(encode(frame)) recovers the frame and
// consumes exactly the encoded length, across the length-field boundaries
// of the wire format (7-bit, 16-bit and 64-bit encodings).
func TestFrameRoundTrip(t *testing.T) {
	lengths := []int{0, 1, 125, 126, 65535, 65536, 1 << 17}

	for _, n := range lengths {
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(i % 251)
		}
		original := &Frame{Fin: true, Opcode: OpcodeBinary, Payload: payload}

		encoded := EncodeFrame(original)
		decoded, consumed, err := DecodeFrame(encoded)
		if err != nil {
			t.Fatalf("len=%d: decode error: %v", n, err)
		}
		if decoded == nil {
			t.Fatalf("len=%d: decode reported incomplete on a full frame", n)
		}
		if consumed != len(encoded) {
			t.Errorf("len=%d: consumed %d bytes, encoded %d", n, consumed, len(encoded))
		}
		if decoded.Fin != original.Fin || decoded.Opcode != original.Opcode {
			t.Errorf("len=%d: header mismatch: fin=%t opcode=%d", n, decoded.Fin, decoded.Opcode)
		}
		if !bytes.Equal(decoded.Payload, original.Payload) {
			t.Errorf("len=%d: payload mismatch", n)
		}
	}
}

// TestFrameRoundTripOpcodes exercises every named opcode with both FIN values.
func TestFrameRoundTripOpcodes(t *testing.T) {
	opcodes := []byte{OpcodeContinuation, OpcodeText, OpcodeBinary, OpcodeClose, OpcodePing, OpcodePong}

	for _, op := range opcodes {
		for _, fin := range []bool{true, false} {
			original := &Frame{Fin: fin, Opcode: op, Payload: []byte("probe")}
			decoded, consumed, err := DecodeFrame(EncodeFrame(original))
			if err != nil || decoded == nil {
				t.Fatalf("opcode=%#x fin=%t: decode failed: %v", op, fin, err)
			}
			if decoded.Fin != fin || decoded.Opcode != op {
				t.Errorf("opcode=%#x fin=%t: got opcode=%#x fin=%t", op, fin, decoded.Opcode, decoded.Fin)
			}
			if consumed != 2+len(original.Payload) {
				t.Errorf("opcode=%#x: consumed %d, want %d", op, consumed, 2+len(original.Payload))
			}
		}
	}
}

// TestUnknownOpcodePassthrough ensures raw nibble values outside the named
// set survive a codec round trip unmodified.
func TestUnknownOpcodePassthrough(t *testing.T) {
	for _, op := range []byte{0x3, 0x7, 0xB, 0xF} {
		original := &Frame{Fin: true, Opcode: op, Payload: []byte{0x42}}
		decoded, _, err := DecodeFrame(EncodeFrame(original))
		if err != nil || decoded == nil {
			t.Fatalf("opcode=%#x: decode failed: %v", op, err)
		}
		if decoded.Opcode != op {
			t.Errorf("opcode=%#x coerced to %#x", op, decoded.Opcode)
		}
		if OpcodeName(decoded.Opcode) != "unknown" {
			t.Errorf("opcode=%#x: expected unknown tag, got %q", op, OpcodeName(decoded.Opcode))
		}
	}
}

// TestMaskedRoundTrip verifies the masked encoding path: the MASK bit is
// set, the payload on the wire differs from the clear payload, and decode
// unmasks it back.
func TestMaskedRoundTrip(t *testing.T) {
	key := [4]byte{0xDE, 0xAD, 0xBE, 0xEF}
	payload := []byte("masked payload under test")
	original := &Frame{Fin: true, Opcode: OpcodeText, Payload: payload}

	encoded := EncodeFrameMasked(original, key)
	if encoded[1]&MaskBit == 0 {
		t.Fatal("MASK bit not set on masked encoding")
	}
	if bytes.Equal(encoded[6:], payload) {
		t.Error("wire payload equals clear payload; masking had no effect")
	}
	if !bytes.Equal(original.Payload, payload) {
		t.Error("EncodeFrameMasked modified the source payload")
	}

	decoded, consumed, err := DecodeFrame(encoded)
	if err != nil || decoded == nil {
		t.Fatalf("decode failed: %v", err)
	}
	if consumed != len(encoded) {
		t.Errorf("consumed %d, want %d", consumed, len(encoded))
	}
	if !bytes.Equal(decoded.Payload, payload) {
		t.Errorf("unmasked payload mismatch: %q", decoded.Payload)
	}
}

// TestApplyMaskSymmetry checks that masking is self-inverse per byte.
func TestApplyMaskSymmetry(t *testing.T) {
	key := [4]byte{0x12, 0x34, 0x56, 0x78}
	payload := []byte("the quick brown fox jumps over the lazy dog")
	buf := append([]byte(nil), payload...)

	ApplyMask(buf, key)
	if bytes.Equal(buf, payload) {
		t.Error("mask pass left payload unchanged")
	}
	ApplyMask(buf, key)
	if !bytes.Equal(buf, payload) {
		t.Error("double mask did not restore payload")
	}
}

// TestDecodeIncomplete feeds every strict prefix of valid frames to the
// decoder and expects an incomplete result each time, never a frame and
// never an error.
func TestDecodeIncomplete(t *testing.T) {
	frames := [][]byte{
		EncodeFrame(&Frame{Fin: true, Opcode: OpcodeText, Payload: []byte("hello")}),
		EncodeFrame(&Frame{Fin: true, Opcode: OpcodeBinary, Payload: make([]byte, 300)}),
		EncodeFrameMasked(&Frame{Fin: true, Opcode: OpcodePong, Payload: []byte("ping-0")}, [4]byte{1, 2, 3, 4}),
	}

	for fi, encoded := range frames {
		for cut := 0; cut < len(encoded); cut++ {
			frame, consumed, err := DecodeFrame(encoded[:cut])
			if err != nil {
				t.Fatalf("frame %d prefix %d: unexpected error: %v", fi, cut, err)
			}
			if frame != nil || consumed != 0 {
				t.Fatalf("frame %d prefix %d: expected incomplete, got frame=%v consumed=%d", fi, cut, frame, consumed)
			}
		}
	}
}

// TestDecodeEmptyPayload verifies a zero-length payload decodes right
// after the two header bytes.
func TestDecodeEmptyPayload(t *testing.T) {
	decoded, consumed, err := DecodeFrame([]byte{FinBit | OpcodePing, 0x00})
	if err != nil || decoded == nil {
		t.Fatalf("decode failed: %v", err)
	}
	if consumed != 2 {
		t.Errorf("consumed %d, want 2", consumed)
	}
	if len(decoded.Payload) != 0 {
		t.Errorf("expected empty payload, got %d bytes", len(decoded.Payload))
	}
}

// TestDecodeSlidingBuffer decodes two concatenated frames by advancing the
// buffer by the consumed count, the loop stream transports rely on.
func TestDecodeSlidingBuffer(t *testing.T) {
	first := &Frame{Fin: true, Opcode: OpcodeText, Payload: []byte("first")}
	second := &Frame{Fin: true, Opcode: OpcodeBinary, Payload: []byte("second")}
	buf := append(EncodeFrame(first), EncodeFrame(second)...)

	var got []*Frame
	for len(buf) > 0 {
		frame, consumed, err := DecodeFrame(buf)
		if err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if frame == nil {
			t.Fatalf("incomplete with %d bytes remaining", len(buf))
		}
		got = append(got, frame)
		buf = buf[consumed:]
	}

	if len(got) != 2 {
		t.Fatalf("decoded %d frames, want 2", len(got))
	}
	if !bytes.Equal(got[0].Payload, first.Payload) || !bytes.Equal(got[1].Payload, second.Payload) {
		t.Error("frame order or payloads corrupted across slide")
	}
}

// TestDecodeOversizePayload ensures a declared length above the cap fails
// decode instead of allocating.
func TestDecodeOversizePayload(t *testing.T) {
	raw := make([]byte, 10)
	raw[0] = FinBit | OpcodeBinary
	raw[1] = 127
	binary.BigEndian.PutUint64(raw[2:], uint64(MaxFramePayload)+1)

	frame, consumed, err := DecodeFrame(raw)
	if err == nil {
		t.Fatalf("expected error, got frame=%v consumed=%d", frame, consumed)
	}
}

// TestCloseFrame checks the 2-byte big-endian close payload convention.
func TestCloseFrame(t *testing.T) {
	frame := NewCloseFrame(CloseNormalClosure)
	if !bytes.Equal(frame.Payload, []byte{0x03, 0xE8}) {
		t.Fatalf("close payload = %v, want {0x03, 0xE8}", frame.Payload)
	}

	decoded, _, err := DecodeFrame(EncodeFrame(frame))
	if err != nil || decoded == nil {
		t.Fatalf("decode failed: %v", err)
	}
	code, ok := decoded.CloseCode()
	if !ok || code != CloseNormalClosure {
		t.Errorf("CloseCode() = %d, %t; want %d, true", code, ok, CloseNormalClosure)
	}

	if _, ok := NewTextFrame(nil).CloseCode(); ok {
		t.Error("CloseCode() reported ok for a TEXT frame")
	}
}
