package store

import (
	"context"

	"github.com/roach88/emit/internal/query"
)

var recordQueries = query.NewSQLCompiler("records", recordColumns)

// Query returns the records matching q, in seq order.
func (s *Store) Query(ctx context.Context, q query.Query) ([]StoredRecord, error) {
	sql, params, err := recordQueries.Compile(q)
	if err != nil {
		return nil, err
	}
	return s.queryRecords(ctx, sql, params...)
}
