// Package store provides SQLite-backed durable storage for emitted records.
//
// The store is an append-only log. Each row holds one emission:
//   - id: emission ID from an engine.IDGenerator (UUIDv7 in production)
//   - record_hash: ir.RecordID, a content hash over target and record
//   - seq: logical clock value, never a timestamp
//   - target, template and the record's parts, key-values and index
//
// Parts, key-values and index are stored as RFC 8785 canonical JSON, so
// equal records produce identical rows and identical hashes.
//
// Every multi-row read orders by seq ASC, id ASC COLLATE BINARY, so results
// are stable across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// OpenReadOnly skips all of this except busy_timeout and sets query_only,
// so readers never create files or migrate a log that a writer owns.
// Migrations are versioned with PRAGMA user_version; a log newer than the
// build is refused with ErrSchemaTooNew.
package store
