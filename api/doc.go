// Package api
// Author: momentics <momentics@gmail.com>
//
// Pure interface and shared-type layer for the wsock library.
//
// The api package has no dependencies on other wsock packages. It declares
// the collaborator contracts of the core (outbound stream writer, inbound
// binary-message hook), the session status and reporting DTOs, the Control
// surface for runtime introspection, and common error values.
package api
