// Package registry tracks which quizzes are currently live and the join
// codes that resolve to them.
//
// The registry implements:
//   - Bijective quizID <-> PIN mapping for the lifetime of a session
//   - Idempotent session start (repeated StartLive returns the same PIN)
//   - Collision-checked 6-digit PIN generation from crypto/rand
//   - Idempotent session teardown
//
// PINs:
//
// A PIN is a 6-digit numeric string drawn from [100000, 999999]. Generation
// retries until the code is not held by any other live session; with 900,000
// possible codes collisions are rare but are still checked, never assumed
// away.
//
// Concurrency:
//
// The registry is safe for concurrent use. A single RWMutex guards both maps
// so the bijection can never be observed half-updated.
package registry
