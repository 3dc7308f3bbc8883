package store

import "github.com/roach88/emit/internal/ir"

// StoredRecord is one row of the record log.
type StoredRecord struct {
	ID            string     `json:"id"`
	Hash          string     `json:"hash"`
	Seq           int64      `json:"seq"`
	Target        *string    `json:"target,omitempty"`
	Record        *ir.Record `json:"record"`
	EngineVersion string     `json:"engine_version"`
	RecordVersion string     `json:"record_version"`
}

// TargetName returns the target, or "" when the record had none.
func (r StoredRecord) TargetName() string {
	if r.Target == nil {
		return ""
	}
	return *r.Target
}
