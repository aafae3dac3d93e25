// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the core interfaces.

package fake

import (
	"sync"

	"github.com/momentics/wsock/api"
)

// StreamWriter is a fake implementation of api.StreamWriter for testing.
// It records the Start metadata and every written buffer, and lets tests
// flip validity or inject errors at any point.
type StreamWriter struct {
	mu         sync.Mutex
	meta       api.StreamMetadata
	started    bool
	finished   bool
	invalid    bool
	writes     [][]byte
	startError error
	writeError error
	onWrite    func([]byte)
}

// NewStreamWriter creates a fake writer that is valid until finished or
// explicitly invalidated.
func NewStreamWriter() *StreamWriter {
	return &StreamWriter{}
}

// Start implements api.StreamWriter.Start.
func (w *StreamWriter) Start(meta api.StreamMetadata) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.startError != nil {
		return w.startError
	}
	w.meta = meta
	w.started = true
	return nil
}

// Write implements api.StreamWriter.Write.
func (w *StreamWriter) Write(p []byte) error {
	w.mu.Lock()
	if w.writeError != nil {
		err := w.writeError
		w.mu.Unlock()
		return err
	}
	if w.finished || w.invalid {
		w.mu.Unlock()
		return api.ErrStreamClosed
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	w.writes = append(w.writes, buf)
	hook := w.onWrite
	w.mu.Unlock()

	if hook != nil {
		hook(buf)
	}
	return nil
}

// Valid implements api.StreamWriter.Valid.
func (w *StreamWriter) Valid() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.invalid && !w.finished
}

// Finish implements api.StreamWriter.Finish.
func (w *StreamWriter) Finish() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.finished = true
	return nil
}

// Invalidate simulates the peer disconnecting mid-stream.
func (w *StreamWriter) Invalidate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.invalid = true
}

// SetStartError configures Start to fail.
func (w *StreamWriter) SetStartError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.startError = err
}

// SetWriteError configures Write to fail.
func (w *StreamWriter) SetWriteError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writeError = err
}

// OnWrite installs a hook invoked after each successful write with a copy
// of the buffer. Used to pipe outbound bytes into a loopback peer.
func (w *StreamWriter) OnWrite(fn func([]byte)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onWrite = fn
}

// Started reports whether Start has been called.
func (w *StreamWriter) Started() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.started
}

// Finished reports whether Finish has been called.
func (w *StreamWriter) Finished() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.finished
}

// Metadata returns the metadata passed to Start.
func (w *StreamWriter) Metadata() api.StreamMetadata {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.meta
}

// Writes returns copies of all buffers written so far.
func (w *StreamWriter) Writes() [][]byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([][]byte, len(w.writes))
	copy(out, w.writes)
	return out
}
