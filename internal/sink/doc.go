// Package sink provides engine.Sink implementations: a target router, a
// log/slog forwarder, a framed binary writer and an in-memory recorder.
//
// The SQLite sink lives in package store.
package sink
