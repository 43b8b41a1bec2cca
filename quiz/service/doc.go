// Package service implements the live quiz event surface.
//
// The service package implements:
//   - Session start/end with idempotent PIN allocation
//   - Participant joins by PIN or direct room subscription
//   - Question broadcast with snapshot caching and answer-state reset
//   - Answer aggregation and the end-of-question signal
//   - Connection teardown (the only implicit trigger in the subsystem)
//
// Transport independence:
//
// The service never touches a socket. Outbound fan-out goes through the
// Publisher interface (Subscribe/Publish) and direct replies go through the
// Conn interface, so any transport (websockets, channels, a message
// queue) can sit underneath. transport/websocket provides the production
// implementation.
//
// Failure semantics:
//
// Unknown pins, rooms, and connection bindings are recoverable: they surface
// as sentinel errors or silent no-ops per operation, never as a fault that
// reaches other rooms.
package service
