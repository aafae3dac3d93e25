// File: session/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The session loop state machine:
//
//	STARTING -> CONNECTED -> {TEST_EXCHANGE | INTERACTIVE} -> CLOSING -> CLOSED
//
// STARTING opens the stream with response metadata. TEST_EXCHANGE sends a
// fixed count of PING probes and validates each PONG byte for byte.
// INTERACTIVE echoes data frames until a CLOSE arrives, the writer goes
// invalid, or the session is stopped. Both paths end by sending a normal
// closure CLOSE frame and finalizing the writer.

package session

import (
	"bytes"
	"fmt"
	"time"

	"github.com/momentics/wsock/api"
	"github.com/momentics/wsock/protocol"
)

// Run executes the session loop to completion. It is intended to run on
// its own goroutine; Done is closed when it returns.
func (s *Session) Run() {
	defer close(s.done)
	defer s.setStatus(api.SessionClosed)

	meta := api.StreamMetadata{
		MIME: "application/octet-stream",
		Headers: map[string]string{
			"Access-Control-Allow-Origin": "*",
			"Cache-Control":               "no-cache",
		},
	}
	if err := s.writer.Start(meta); err != nil {
		s.logger.Printf("[ws] stream start failed: %v", err)
		s.running.Store(false)
		return
	}

	s.connected.Store(true)
	s.setStatus(api.SessionConnected)
	s.logger.Printf("[ws] client connected via stream scheme")

	if s.cfg.TestMode {
		s.runTestExchange()
	} else {
		s.runInteractive()
	}
}

// runTestExchange drives the scripted ping/pong conformance check.
func (s *Session) runTestExchange() {
	for i := 0; i < s.cfg.PingCount && s.running.Load() && s.writer.Valid(); i++ {
		probe := []byte(fmt.Sprintf("ping-%d", i))
		if err := s.writer.Write(protocol.EncodeFrame(protocol.NewPingFrame(probe))); err != nil {
			s.logger.Printf("[test] FAILED: ping write: %v", err)
			s.testResult.Store(1)
			break
		}
		s.pingsSent.Add(1)
		s.logger.Printf("[ws] sent PING: %s", probe)

		response, ok := s.queue.PopWait(s.cfg.PingTimeout)
		if !ok || response.Opcode != protocol.OpcodePong {
			s.logger.Printf("[test] FAILED: no PONG received for %s", probe)
			s.testResult.Store(1)
			break
		}
		if !bytes.Equal(response.Payload, probe) {
			s.logger.Printf("[test] FAILED: PONG mismatch: expected %q, got %q", probe, response.Payload)
			s.testResult.Store(1)
			break
		}

		s.pongsReceived.Add(1)
		s.logger.Printf("[ws] PONG received: %s", response.Payload)

		if i == s.cfg.PingCount-1 {
			s.testResult.Store(0)
			s.logger.Printf("[test] SUCCESS: all %d ping/pong exchanges completed", s.cfg.PingCount)
		}
	}

	s.setStatus(api.SessionClosing)
	s.sendClose()

	// Let the transport flush the CLOSE frame before the stream ends.
	time.Sleep(s.cfg.CloseLinger)
	s.running.Store(false)
	s.writer.Finish()
	s.connected.Store(false)
}

// runInteractive is the default echo loop.
func (s *Session) runInteractive() {
	for s.running.Load() && s.writer.Valid() {
		frame, ok := s.queue.PopWait(s.cfg.PopTimeout)
		if !ok {
			continue
		}

		switch frame.Opcode {
		case protocol.OpcodeText, protocol.OpcodeBinary:
			if err := s.writer.Write(protocol.EncodeFrame(frame)); err != nil {
				s.logger.Printf("[ws] echo write failed: %v", err)
				s.running.Store(false)
				break
			}
			s.logger.Printf("[ws] echoed: %s", frame.Payload)

		case protocol.OpcodePing:
			// Symmetric keep-alive: answer with a PONG carrying the
			// probe payload.
			if err := s.writer.Write(protocol.EncodeFrame(protocol.NewPongFrame(frame.Payload))); err != nil {
				s.running.Store(false)
			}

		case protocol.OpcodePong:
			s.pongsReceived.Add(1)

		case protocol.OpcodeClose:
			s.running.Store(false)
		}

		if !s.running.Load() {
			break
		}
	}

	s.setStatus(api.SessionClosing)
	s.sendClose()
	s.writer.Finish()
	s.connected.Store(false)
}

// sendClose emits the normal-closure CLOSE frame. Write failures here are
// ignored: the peer may already be gone.
func (s *Session) sendClose() {
	_ = s.writer.Write(protocol.EncodeFrame(protocol.NewCloseFrame(protocol.CloseNormalClosure)))
}
