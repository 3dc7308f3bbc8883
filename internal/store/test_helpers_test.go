package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/emit/internal/capture"
	"github.com/roach88/emit/internal/compiler"
	"github.com/roach88/emit/internal/engine"
	"github.com/roach88/emit/internal/ir"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord compiles and executes a template.
func createTestRecord(t *testing.T, template string, decls ...string) *ir.Record {
	t.Helper()
	plan, err := compiler.CompileStrings(template, decls, compiler.Options{})
	require.NoError(t, err)
	rec, err := engine.Execute(plan, capture.Vars{}, capture.Capturer{})
	require.NoError(t, err)
	return rec
}

func strp(s string) *string { return &s }
