// Package room owns all per-room mutable state for live quiz sessions.
//
// The room package implements:
//   - Distinct participant membership per room (set semantics)
//   - Connection -> (room, studentID) bindings for O(1) teardown
//   - The cached question snapshot served to late joiners
//   - Answer aggregation with an expected-count snapshot per question
//   - Reclamation of fully idle rooms
//
// Answer threshold:
//
// SubmitAnswer inserts the student into the answered set and compares the set
// size against the expected count in one critical section, so the
// end-of-question signal fires exactly once per question even under
// concurrent submissions. A question whose expected count was snapshotted at
// zero never ends on its own; only the host closes it.
//
// Concurrency:
//
// Each room carries its own mutex, so operations on different rooms proceed
// in parallel while operations on one room serialize. The manager's outer
// lock guards only the room and binding maps and is never held across room
// work.
package room
