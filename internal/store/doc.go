// Package store provides SQLite-backed storage for recorded fixture runs.
//
// Each run holds the notifications every stream of a fixture delivered
// during playback, so runs can be listed and compared later.
//
// # Ordering
//
// Runs are ordered by seq, a logical counter assigned by the store on
// write. Wall-clock timestamps are never stored. Messages are ordered by
// (stream, idx), where idx is the position in the recorded history.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Message values are stored as canonical JSON text (see internal/snapshot).
package store
