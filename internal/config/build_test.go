package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/emit/internal/capture"
	"github.com/roach88/emit/internal/compiler"
	"github.com/roach88/emit/internal/engine"
	"github.com/roach88/emit/internal/ir"
	"github.com/roach88/emit/internal/sink"
	"github.com/roach88/emit/internal/store"
)

func record(t *testing.T, template string) *ir.Record {
	t.Helper()
	plan, err := compiler.CompileStrings(template, nil, compiler.Options{})
	require.NoError(t, err)
	rec, err := engine.Execute(plan, capture.Vars{}, capture.Capturer{})
	require.NoError(t, err)
	return rec
}

func strp(s string) *string { return &s }

func TestBuild_RoutesByName(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "audit.db")
	wirePath := filepath.Join(dir, "export.bin")
	logPath := filepath.Join(dir, "console.log")

	cfg := &Config{
		Default: "console",
		Sinks: []SinkConfig{
			{Name: "console", Kind: KindSlog, Path: logPath, Format: "json"},
			{Name: "audit", Kind: KindSQLite, Path: dbPath},
			{Name: "export", Kind: KindWire, Path: wirePath, Codec: "msgpack", Compress: "zstd", Async: 8},
		},
	}

	router, closer, err := Build(t.Context(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"audit", "console", "export"}, router.Targets())

	login := record(t, "login {n: 1}")
	charge := record(t, "charge {n: 2}")
	tick := record(t, "tick {n: 3}")

	router.Emit(strp("audit"), nil, nil, login)
	router.Emit(strp("export"), nil, nil, charge)
	router.Emit(nil, nil, nil, tick)
	require.NoError(t, closer.Close())

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	stored, err := st.ReadRecords(t.Context())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, login, stored[0].Record)

	data, err := os.ReadFile(wirePath)
	require.NoError(t, err)
	frames, err := sink.ReadFrames(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, charge, frames[0].Record)

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), `"msg":"tick 3"`)
}

func TestBuild_InvalidConfig(t *testing.T) {
	_, _, err := Build(t.Context(), &Config{Sinks: []SinkConfig{{Name: "a", Kind: "kafka"}}})
	assert.ErrorContains(t, err, "invalid config")
}

func TestBuild_OpenFailureClosesEarlierSinks(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Sinks: []SinkConfig{
		{Name: "audit", Kind: KindSQLite, Path: filepath.Join(dir, "audit.db")},
		{Name: "bad", Kind: KindWire, Path: filepath.Join(dir, "missing", "out.bin")},
	}}

	_, _, err := Build(t.Context(), cfg)
	assert.ErrorContains(t, err, "sink bad")
}

func TestCloser_ReverseOrderAndIdempotent(t *testing.T) {
	var order []int
	var c closers
	c.add(func() error { order = append(order, 1); return nil })
	c.add(func() error { order = append(order, 2); return nil })

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, []int{2, 1}, order)
}
