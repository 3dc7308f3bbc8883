package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}
}

func TestOpen_AppliesPragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("synchronous", "1")) // NORMAL
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
}

func TestOpen_RunsMigrations(t *testing.T) {
	s := createTestStore(t)

	v, err := userVersion(s.db)
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, v)

	var name string
	err = s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'index' AND name = 'idx_records_hash'`).Scan(&name)
	require.NoError(t, err)
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestClose_Twice(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.NotPanics(t, func() { _ = s.Close() })
}

func TestOpen_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path)
	assert.ErrorIs(t, err, ErrSchemaTooNew)
	_, err = OpenReadOnly(path)
	assert.ErrorIs(t, err, ErrSchemaTooNew)
}

func TestOpenReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	w, err := Open(path)
	require.NoError(t, err)
	rec := createTestRecord(t, "tick {n: 1}")
	require.NoError(t, w.WriteRecord(t.Context(), StoredRecord{ID: "em-1", Seq: 1, Record: rec}))
	require.NoError(t, w.Close())

	r, err := OpenReadOnly(path)
	require.NoError(t, err)
	defer r.Close()
	assert.True(t, r.ReadOnly())

	records, err := r.ReadRecords(t.Context())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec, records[0].Record)

	err = r.WriteRecord(t.Context(), StoredRecord{ID: "em-2", Seq: 2, Record: rec})
	assert.Error(t, err)
}

func TestOpenReadOnly_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	_, err := OpenReadOnly(path)
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpenReadOnly_NotARecordLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.db")
	db, err := connect(path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE notes (body TEXT)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = OpenReadOnly(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no records table")
}
