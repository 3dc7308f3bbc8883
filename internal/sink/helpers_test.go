package sink

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/emit/internal/capture"
	"github.com/roach88/emit/internal/compiler"
	"github.com/roach88/emit/internal/engine"
	"github.com/roach88/emit/internal/ir"
)

// build compiles and executes a template against scope.
func build(t *testing.T, template string, decls []string, scope capture.Vars) *ir.Record {
	t.Helper()
	plan, err := compiler.CompileStrings(template, decls, compiler.Options{})
	require.NoError(t, err)
	rec, err := engine.Execute(plan, scope, capture.Capturer{})
	require.NoError(t, err)
	return rec
}

func emit(s engine.Sink, target *string, rec *ir.Record) {
	s.Emit(target, rec.KVs.Names(), rec.KVs.Values(), rec)
}

func strp(s string) *string { return &s }
