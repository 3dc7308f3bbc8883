package store

import (
	"context"
	"fmt"

	"github.com/roach88/emit/internal/engine"
	"github.com/roach88/emit/internal/query"
)

// Replay re-dispatches the records matching q to sink, in seq order, and
// returns how many were delivered.
//
// Records carry their original target, so replaying into a router sends
// each record where it would have gone when first emitted.
func (s *Store) Replay(ctx context.Context, sink engine.Sink, q query.Query) (int, error) {
	records, err := s.Query(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("replay: %w", err)
	}

	for i, sr := range records {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		rec := sr.Record
		sink.Emit(sr.Target, rec.KVs.Names(), rec.KVs.Values(), rec)
	}
	return len(records), nil
}
