package capture

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/emit/internal/ir"
)

func TestCUEEvaluator(t *testing.T) {
	e := NewCUEEvaluator()
	scope := Vars{
		"count": 41,
		"user":  "ada",
		"tags":  []string{"x", "y"},
		"rec":   ir.Map{"id": ir.Int(3)},
	}

	tests := []struct {
		name string
		expr string
		want ir.Value
	}{
		{"literal int", "17", ir.Int(17)},
		{"literal string", `"short lived"`, ir.String("short lived")},
		{"arithmetic on scope", "count + 1", ir.Int(42)},
		{"interpolation", `"hi \(user)"`, ir.String("hi ada")},
		{"builtin", "strings.ToUpper(user)", ir.String("ADA")},
		{"list", "[count, 2]", ir.List{ir.Int(41), ir.Int(2)}},
		{"index", "tags[1]", ir.String("y")},
		{"struct", "{a: 1, b: user}", ir.Map{"a": ir.Int(1), "b": ir.String("ada")}},
		{"selector on ir value", "rec.id", ir.Int(3)},
		{"null", "null", ir.Null{}},
		{"bool", "count > 40", ir.Bool(true)},
		{"empty list", "[]", ir.List{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Eval(tt.expr, scope)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCUEEvaluatorErrors(t *testing.T) {
	e := NewCUEEvaluator()

	tests := []struct {
		name string
		expr string
	}{
		{"syntax", "1 +"},
		{"unknown reference", "missing + 1"},
		{"incomplete", "int"},
		{"conflict", "1 & 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Eval(tt.expr, Vars{"n": 1})
			require.Error(t, err)
		})
	}
}

func TestCUEEvaluatorKeepsFloatsRaw(t *testing.T) {
	e := NewCUEEvaluator()

	got, err := e.Eval("1.5", nil)
	require.NoError(t, err)
	assert.Equal(t, 1.5, got)

	got, err = e.Eval("{a: 1, b: [2.5]}", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": int64(1), "b": []any{2.5}}, got)

	got, err = e.Eval("{a: 1}", nil)
	require.NoError(t, err)
	assert.Equal(t, ir.Map{"a": ir.Int(1)}, got)
}

func TestCUEEvaluatorSkipsUnencodableBindings(t *testing.T) {
	e := NewCUEEvaluator()
	got, err := e.Eval("n * 2", Vars{"n": 4, "ch": make(chan int)})
	require.NoError(t, err)
	assert.Equal(t, ir.Int(8), got)
}

func TestCUEEvaluatorNilScope(t *testing.T) {
	got, err := NewCUEEvaluator().Eval(`"x"`, nil)
	require.NoError(t, err)
	assert.Equal(t, ir.String("x"), got)
}

func TestCUEEvaluatorConcurrent(t *testing.T) {
	e := NewCUEEvaluator()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := e.Eval("n + 1", Vars{"n": i})
			if err == nil && got != ir.Int(int64(i+1)) {
				err = assert.AnError
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}
