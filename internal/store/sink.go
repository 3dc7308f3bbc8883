package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/emit/internal/engine"
	"github.com/roach88/emit/internal/ir"
)

// Sink appends every emitted record to a Store.
//
// Each record gets an emission ID from the generator and the next seq from
// a logical clock that resumes after the last stored seq. Write failures are
// logged and remembered; Err returns the first one.
//
// Thread-safety: Emit is safe for concurrent use.
type Sink struct {
	store *Store
	clock *engine.Clock
	ids   engine.IDGenerator

	mu  sync.Mutex
	err error
}

// NewSink creates a Sink writing to s. A nil ids uses UUIDv7.
func NewSink(ctx context.Context, s *Store, ids engine.IDGenerator) (*Sink, error) {
	last, err := s.LastSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("store sink: %w", err)
	}
	if ids == nil {
		ids = engine.UUIDv7Generator{}
	}
	return &Sink{store: s, clock: engine.NewClockAt(last), ids: ids}, nil
}

// Emit implements engine.Sink.
func (k *Sink) Emit(target *string, _ []string, _ []ir.Value, rec *ir.Record) {
	// The write, not the clock, is serialized: seq order must match row order.
	k.mu.Lock()
	defer k.mu.Unlock()

	stored := StoredRecord{
		ID:     k.ids.Generate(),
		Seq:    k.clock.Next(),
		Target: target,
		Record: rec,
	}
	if err := k.store.WriteRecord(context.Background(), stored); err != nil {
		slog.Error("store sink write failed",
			"id", stored.ID,
			"seq", stored.Seq,
			"template", rec.Template,
			"error", err,
		)
		if k.err == nil {
			k.err = err
		}
		return
	}

	slog.Debug("record stored", "id", stored.ID, "seq", stored.Seq)
}

// Err returns the first write failure, if any.
func (k *Sink) Err() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.err
}

// Close closes the underlying store.
func (k *Sink) Close() error {
	return k.store.Close()
}
