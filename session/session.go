// File: session/session.go
// Package session implements the per-connection control flow.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Session owns one outbound stream writer, drains one frame queue, and
// runs either the scripted ping/pong exchange (test mode) or the
// interactive echo loop. All counters and flags are atomics: they are
// written by the session goroutine and the ingress path and read by the
// reporting/shutdown path on another goroutine.

package session

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/momentics/wsock/api"
	"github.com/momentics/wsock/concurrency"
)

// Config holds session parameters, immutable per run.
type Config struct {
	TestMode    bool          // scripted ping/pong exchange instead of interactive echo
	PingCount   int           // probes sent in test mode
	PingTimeout time.Duration // wait for each PONG
	PopTimeout  time.Duration // interactive-loop pop wait
	CloseLinger time.Duration // pause after the CLOSE frame before finalizing
	Logger      *log.Logger   // nil means log.Default()
}

// DefaultConfig returns the parameters of the reference conformance run.
func DefaultConfig() Config {
	return Config{
		PingCount:   3,
		PingTimeout: 3000 * time.Millisecond,
		PopTimeout:  100 * time.Millisecond,
		CloseLinger: 100 * time.Millisecond,
	}
}

// Session is the per-connection state: one writer, one queue, counters.
type Session struct {
	cfg    Config
	queue  *concurrency.FrameQueue
	writer api.StreamWriter
	logger *log.Logger

	running       atomic.Bool
	connected     atomic.Bool
	pingsSent     atomic.Int64
	pongsReceived atomic.Int64
	testResult    atomic.Int32
	status        atomic.Int32 // api.SessionStatus

	done chan struct{}
}

// New constructs a session over the given queue and writer. The test
// result starts at 1 (failure) and flips to 0 only when every exchange
// completes.
func New(queue *concurrency.FrameQueue, writer api.StreamWriter, cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Session{
		cfg:    cfg,
		queue:  queue,
		writer: writer,
		logger: logger,
		done:   make(chan struct{}),
	}
	s.testResult.Store(1)
	s.running.Store(true)
	s.status.Store(int32(api.SessionStarting))
	return s
}

// Queue returns the inbound frame queue this session drains.
func (s *Session) Queue() *concurrency.FrameQueue {
	return s.queue
}

// Stop clears the running flag and wakes the loop if it is blocked on the
// queue. Safe to call from any goroutine; the loop still finalizes the
// writer on its way out.
func (s *Session) Stop() {
	s.running.Store(false)
	s.queue.Close()
}

// Done is closed when the session loop has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Running reports whether the loop should keep iterating.
func (s *Session) Running() bool {
	return s.running.Load()
}

// Connected reports whether the outbound stream has been opened and not
// yet torn down.
func (s *Session) Connected() bool {
	return s.connected.Load()
}

// Status returns the current lifecycle state.
func (s *Session) Status() api.SessionStatus {
	return api.SessionStatus(s.status.Load())
}

// PingsSent returns the number of PING probes written.
func (s *Session) PingsSent() int64 {
	return s.pingsSent.Load()
}

// PongsReceived returns the number of accepted PONG frames.
func (s *Session) PongsReceived() int64 {
	return s.pongsReceived.Load()
}

// Result returns the recorded test result code: 0 success, nonzero failure.
func (s *Session) Result() int {
	return int(s.testResult.Load())
}

// Report snapshots the counters for the exit path.
func (s *Session) Report() api.TestReport {
	return api.TestReport{
		PingsSent:     s.PingsSent(),
		PongsReceived: s.PongsReceived(),
		Result:        s.Result(),
	}
}

func (s *Session) setStatus(status api.SessionStatus) {
	s.status.Store(int32(status))
}
