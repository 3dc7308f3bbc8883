package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainRecord = "emit/record/v1"
	DomainPlan   = "emit/plan/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RecordValue returns the canonical structure of a record:
// {"template", "parts", "kvs", "target"}. Attributes are not part of the
// record identity; they only steer how values were captured.
func RecordValue(target string, rec *Record) Map {
	return Map{
		"template": String(rec.Template),
		"target":   String(target),
		"parts":    PartsValue(rec.Parts),
		"kvs":      rec.KVs.Map(),
	}
}

// RecordID computes the content-addressed ID of a record sent to target.
// Two emissions with identical template, target and values share an ID.
func RecordID(target string, rec *Record) (string, error) {
	canonical, err := MarshalCanonical(RecordValue(target, rec))
	if err != nil {
		return "", fmt.Errorf("RecordID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRecord, canonical), nil
}

// PlanKey computes the cache key for compiling template with declarations.
func PlanKey(template string, decls []string) string {
	list := make(List, len(decls))
	for i, d := range decls {
		list[i] = String(d)
	}
	// Strings and lists of strings always marshal.
	canonical, _ := MarshalCanonical(Map{"template": String(template), "decls": list})
	return hashWithDomain(DomainPlan, canonical)
}

// MustRecordID is like RecordID but panics on error.
// Use only in tests or when values are known to be valid.
func MustRecordID(target string, rec *Record) string {
	id, err := RecordID(target, rec)
	if err != nil {
		panic(err)
	}
	return id
}
