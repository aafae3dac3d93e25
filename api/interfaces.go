// File: api/interfaces.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Collaborator contracts consumed by the wsock core: the outbound stream
// writer obtained per connection request, and the inbound binary-message
// delivery hook registered with the host transport.

package api

// StreamMetadata carries the response metadata emitted when an outbound
// stream is opened.
type StreamMetadata struct {
	MIME    string
	Headers map[string]string
}

// StreamWriter is the outbound half of a connection: a long-lived response
// stream that accepts successive byte buffers.
//
// The core calls Start exactly once, Write zero or more times, and Finish
// exactly once per session.
type StreamWriter interface {
	// Start opens the stream with response metadata.
	Start(meta StreamMetadata) error

	// Write appends one buffer to the stream. Fire-and-forget: the call
	// returns without waiting for peer acknowledgment.
	Write(p []byte) error

	// Valid reports whether the peer is still attached to the stream.
	Valid() bool

	// Finish finalizes the stream. No Write may follow Finish.
	Finish() error
}

// BinaryHandler consumes one inbound binary message delivered by the host
// transport and reports whether the message was handled.
type BinaryHandler func(data []byte) bool
