package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Text(t *testing.T) {
	out, err := execute(t, "check", "Text and {b: 17} and {a} and {#[attr] c} and {d: expr}", "--field", "a: 42")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Compiled 4 field(s)")
	assert.Contains(t, out, "0. b: 17 (template)")
	assert.Contains(t, out, "1. a: 42 (extra)")
	assert.Contains(t, out, "2. #[attr] c (template)")
	assert.Contains(t, out, "3. d: expr (template)")
	assert.Contains(t, out, "Sorted: a, b, c, d")
	assert.Contains(t, out, "Index:  [1 0 2 3]")
}

func TestCheck_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "check", "charged {amount}",
		"--target", "billing", "-f", "amount: 1200", "-f", `target: "prod"`)
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "billing", data["target"])
	assert.Equal(t, []any{"amount", "target"}, data["sorted"])
	assert.Equal(t, []any{float64(0)}, data["index"])
	assert.NotContains(t, data, "problems")
}

func TestCheck_TargetFlag(t *testing.T) {
	out, err := execute(t, "check", "tick {n: 1}", "--target", "audit")
	require.NoError(t, err)
	assert.Contains(t, out, "Target: audit")
}

func TestCheck_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"parse", []string{"check", "oops {"}, ErrCodeParse},
		{"conflict", []string{"check", "{a: 1}", "--field", "a: 2"}, ErrCodeConflict},
		{"unresolved", []string{"check", "hello {name}"}, ErrCodeUnresolvedHole},
		{"duplicate", []string{"check", "tick", "-f", "x: 1", "-f", "x: 2"}, ErrCodeDuplicateKey},
		{"bad declaration", []string{"check", "tick", "-f", "1x"}, ErrCodeParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.code+"]")
		})
	}
}

func TestCheck_ErrorJSONDetails(t *testing.T) {
	out, err := execute(t, "--format", "json", "check", "{a: 1}", "--field", "a: 2")
	require.Error(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConflict, resp.Error.Code)
	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", details["kind"])
	assert.Equal(t, "a", details["field"])
}

func TestCheck_Ambient(t *testing.T) {
	_, err := execute(t, "check", "hello {name}", "--ambient")
	require.NoError(t, err)
}
