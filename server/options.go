// File: server/options.go
// Package server defines functional options for the Server.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"log"
	"time"
)

// Option customizes server initialization.
type Option func(*Server)

// WithConnectPath overrides the stream path admitted as a connection request.
func WithConnectPath(path string) Option {
	return func(s *Server) {
		s.cfg.ConnectPath = path
	}
}

// WithTestMode switches sessions into the scripted ping/pong exchange.
func WithTestMode(enabled bool) Option {
	return func(s *Server) {
		s.cfg.Session.TestMode = enabled
	}
}

// WithPingCount sets the number of probes sent in test mode.
func WithPingCount(n int) Option {
	return func(s *Server) {
		s.cfg.Session.PingCount = n
	}
}

// WithPingTimeout sets how long a test-mode session waits for each PONG.
func WithPingTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.cfg.Session.PingTimeout = d
	}
}

// WithPopTimeout sets the interactive-loop queue wait.
func WithPopTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.cfg.Session.PopTimeout = d
	}
}

// WithCloseLinger sets the pause between the CLOSE frame and stream
// finalization.
func WithCloseLinger(d time.Duration) Option {
	return func(s *Server) {
		s.cfg.Session.CloseLinger = d
	}
}

// WithLogger routes session and server diagnostics to the given logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}
