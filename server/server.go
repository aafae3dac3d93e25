// File: server/server.go
// Package server implements connection admission and session supervision.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The Server is the entry point the host transport dispatches into: the
// connect path starts a session, anything else is rejected, and inbound
// binary messages are routed to the active session's ingress adapter.
// Each session gets a freshly constructed frame queue, and every session
// goroutine is tracked and joined on Shutdown rather than detached.

package server

import (
	"log"
	"sync"

	"github.com/momentics/wsock/adapters"
	"github.com/momentics/wsock/api"
	"github.com/momentics/wsock/concurrency"
	"github.com/momentics/wsock/session"
)

// Config holds parameters immutable per run.
type Config struct {
	ConnectPath string         // stream path admitted as a connection request
	Session     session.Config // parameters for every session this server starts
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		ConnectPath: "/connect",
		Session:     session.DefaultConfig(),
	}
}

// Server routes connection requests and inbound messages to sessions.
// One session is active at a time; a new connect request supersedes the
// previous session.
type Server struct {
	cfg     Config
	logger  *log.Logger
	control *adapters.ControlAdapter

	mu      sync.Mutex
	current *session.Session
	ingress *adapters.Ingress
	closed  bool

	wg       sync.WaitGroup
	testDone chan api.TestReport
}

// Ensure compliance with api.GracefulShutdown.
var _ api.GracefulShutdown = (*Server)(nil)

// New constructs a Server, applying functional options over defaults.
func New(opts ...Option) *Server {
	s := &Server{
		cfg:      *DefaultConfig(),
		control:  adapters.NewControlAdapter(),
		testDone: make(chan api.TestReport, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.cfg.Session.Logger = s.logger

	s.control.SetConfig(map[string]any{
		"connect_path": s.cfg.ConnectPath,
		"test_mode":    s.cfg.Session.TestMode,
		"ping_count":   s.cfg.Session.PingCount,
	})
	s.registerProbes()
	return s
}

// HandleStream is the connection admission entry point. The connect path
// starts a session over the given writer; any other path is rejected with
// a not-found error and the writer is left untouched.
func (s *Server) HandleStream(path string, writer api.StreamWriter) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return api.ErrServerClosed
	}
	if path != s.cfg.ConnectPath {
		s.mu.Unlock()
		return api.NewError(api.ErrCodeNotFound, "no stream handler for path").
			WithContext("path", path)
	}

	// Supersede a session the peer abandoned without closing.
	if prev := s.current; prev != nil && prev.Running() {
		s.logger.Printf("[ws] superseding active session")
		prev.Stop()
	}

	queue := concurrency.NewFrameQueue()
	sess := session.New(queue, writer, s.cfg.Session)
	s.current = sess
	s.ingress = adapters.NewIngress(queue)
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Printf("[ws] %s request, starting session", path)

	go func() {
		defer s.wg.Done()
		sess.Run()
		if s.cfg.Session.TestMode {
			select {
			case s.testDone <- sess.Report():
			default:
			}
		}
	}()
	return nil
}

// HandleBinary routes one inbound binary message to the active session's
// ingress adapter. Messages arriving with no session are dropped; the
// message is acknowledged as handled either way.
func (s *Server) HandleBinary(data []byte) bool {
	s.mu.Lock()
	in := s.ingress
	s.mu.Unlock()

	if in == nil {
		return true
	}
	return in.HandleBinary(data)
}

// BinaryHandler exposes HandleBinary for registration with the host
// transport.
func (s *Server) BinaryHandler() api.BinaryHandler {
	return s.HandleBinary
}

// Control returns the runtime introspection surface.
func (s *Server) Control() api.Control {
	return s.control
}

// TestDone yields the report of a completed test-mode session. The
// channel receives at most one report per session.
func (s *Server) TestDone() <-chan api.TestReport {
	return s.testDone
}

// Session returns the active session, or nil.
func (s *Server) Session() *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Shutdown stops the active session and joins all session goroutines.
// Implements api.GracefulShutdown.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	s.closed = true
	cur := s.current
	s.mu.Unlock()

	if cur != nil {
		cur.Stop()
	}
	s.wg.Wait()
	return nil
}

// registerProbes exposes session counters through the Control surface.
func (s *Server) registerProbes() {
	s.control.RegisterDebugProbe("session.status", func() any {
		if cur := s.Session(); cur != nil {
			return cur.Status().String()
		}
		return api.SessionUnknown.String()
	})
	s.control.RegisterDebugProbe("session.pings_sent", func() any {
		if cur := s.Session(); cur != nil {
			return cur.PingsSent()
		}
		return int64(0)
	})
	s.control.RegisterDebugProbe("session.pongs_received", func() any {
		if cur := s.Session(); cur != nil {
			return cur.PongsReceived()
		}
		return int64(0)
	})
	s.control.RegisterDebugProbe("session.dropped_chunks", func() any {
		s.mu.Lock()
		in := s.ingress
		s.mu.Unlock()
		if in != nil {
			return in.Dropped()
		}
		return int64(0)
	})
}
