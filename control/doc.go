// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics, configuration control, and debug introspection layer
// for wsock sessions.
//
// Provides concurrent-safe state handling primitives including:
//   - Immutable snapshot config reads and atomic updates
//   - Runtime observers for reload propagation
//   - Metrics telemetry contracts
//   - State export, debug hooks, and probe registration
//
// This package is cross-platform and build-tag-partitioned as needed.
package control
