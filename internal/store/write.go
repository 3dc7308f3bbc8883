package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/emit/internal/ir"
)

// WriteRecord appends a record to the log.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - rewriting an ID is a
// no-op. The hash is computed here when rec.Hash is empty.
func (s *Store) WriteRecord(ctx context.Context, rec StoredRecord) error {
	if rec.Record == nil {
		return fmt.Errorf("write record %s: nil record", rec.ID)
	}

	hash := rec.Hash
	if hash == "" {
		var err error
		hash, err = ir.RecordID(rec.TargetName(), rec.Record)
		if err != nil {
			return fmt.Errorf("write record %s: %w", rec.ID, err)
		}
	}

	partsJSON, err := marshalParts(rec.Record.Parts)
	if err != nil {
		return fmt.Errorf("write record %s: %w", rec.ID, err)
	}
	kvsJSON, err := marshalKVs(rec.Record.KVs)
	if err != nil {
		return fmt.Errorf("write record %s: %w", rec.ID, err)
	}
	indexJSON, err := marshalIndex(rec.Record.Index)
	if err != nil {
		return fmt.Errorf("write record %s: %w", rec.ID, err)
	}

	engineVersion := rec.EngineVersion
	if engineVersion == "" {
		engineVersion = ir.EngineVersion
	}
	recordVersion := rec.RecordVersion
	if recordVersion == "" {
		recordVersion = ir.RecordVersion
	}

	var target sql.NullString
	if rec.Target != nil {
		target = sql.NullString{String: *rec.Target, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records
		(id, record_hash, seq, target, template, parts, kvs, idx, engine_version, record_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		hash,
		rec.Seq,
		target,
		rec.Record.Template,
		partsJSON,
		kvsJSON,
		indexJSON,
		engineVersion,
		recordVersion,
	)
	if err != nil {
		return fmt.Errorf("write record %s: %w", rec.ID, err)
	}
	return nil
}
