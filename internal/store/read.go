package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/emit/internal/ir"
)

const recordColumns = `id, record_hash, seq, target, template, parts, kvs, idx, engine_version, record_version`

// ReadRecord retrieves a single record by emission ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRecord(ctx context.Context, id string) (StoredRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE id = ?
	`, id)
	return scanRecord(row)
}

// ReadRecords returns every record in seq order.
// Returns an empty slice (not nil) when the log is empty.
func (s *Store) ReadRecords(ctx context.Context) ([]StoredRecord, error) {
	return s.queryRecords(ctx, `
		SELECT `+recordColumns+`
		FROM records
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
}

// ReadRecordsAfter returns up to limit records with seq greater than after,
// in seq order. A non-positive limit means no limit.
func (s *Store) ReadRecordsAfter(ctx context.Context, after int64, limit int) ([]StoredRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: negative LIMIT is unbounded
	}
	return s.queryRecords(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE seq > ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
		LIMIT ?
	`, after, limit)
}

// ReadByTarget returns the records emitted to target, in seq order.
// An empty target selects records emitted without one.
func (s *Store) ReadByTarget(ctx context.Context, target string) ([]StoredRecord, error) {
	if target == "" {
		return s.queryRecords(ctx, `
			SELECT `+recordColumns+`
			FROM records
			WHERE target IS NULL
			ORDER BY seq ASC, id COLLATE BINARY ASC
		`)
	}
	return s.queryRecords(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE target = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, target)
}

// ReadByHash returns every emission of an identical record, in seq order.
func (s *Store) ReadByHash(ctx context.Context, hash string) ([]StoredRecord, error) {
	return s.queryRecords(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE record_hash = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, hash)
}

// ListTargets returns the distinct non-empty targets, alphabetically.
func (s *Store) ListTargets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT target FROM records
		WHERE target IS NOT NULL
		ORDER BY target COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("query targets: %w", err)
	}
	defer rows.Close()

	targets := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate targets: %w", err)
	}
	return targets, nil
}

// LastSeq returns the highest seq in the log, or 0 when it is empty.
// Used to resume the logical clock after reopening a store.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM records`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return seq, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]StoredRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []StoredRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (StoredRecord, error) {
	var rec StoredRecord
	var target sql.NullString
	var template, partsJSON, kvsJSON, indexJSON string

	if err := sc.Scan(
		&rec.ID, &rec.Hash, &rec.Seq, &target, &template,
		&partsJSON, &kvsJSON, &indexJSON, &rec.EngineVersion, &rec.RecordVersion,
	); err != nil {
		return StoredRecord{}, err
	}
	if target.Valid {
		t := target.String
		rec.Target = &t
	}

	parts, err := unmarshalParts(partsJSON)
	if err != nil {
		return StoredRecord{}, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	kvs, err := unmarshalKVs(kvsJSON)
	if err != nil {
		return StoredRecord{}, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	index, err := unmarshalIndex(indexJSON)
	if err != nil {
		return StoredRecord{}, fmt.Errorf("record %s: %w", rec.ID, err)
	}

	rec.Record = &ir.Record{Template: template, Parts: parts, KVs: kvs, Index: index}
	return rec, nil
}
