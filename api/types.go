// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations, DTOs, and constants.

package api

import "time"

// SessionStatus enumerates the state of a framing session.
type SessionStatus int

const (
	SessionUnknown SessionStatus = iota
	SessionStarting
	SessionConnected
	SessionClosing
	SessionClosed
)

func (s SessionStatus) String() string {
	switch s {
	case SessionStarting:
		return "starting"
	case SessionConnected:
		return "connected"
	case SessionClosing:
		return "closing"
	case SessionClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// TestReport summarizes a scripted ping/pong conformance run.
// Result is 0 on success and nonzero on failure.
type TestReport struct {
	PingsSent     int64
	PongsReceived int64
	Result        int
}

// ServiceInfo exposes descriptive build- and runtime info for external tools.
type ServiceInfo struct {
	Name      string
	Version   string
	StartedAt time.Time
}
