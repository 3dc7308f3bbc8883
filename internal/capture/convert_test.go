package capture

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/emit/internal/ir"
)

type level int

func (l level) String() string { return [...]string{"low", "high"}[l] }

type point struct{ X, Y int }

func TestFromGo(t *testing.T) {
	var nilPtr *int
	var nilErr error
	n := 5

	tests := []struct {
		name string
		raw  any
		want ir.Value
	}{
		{"nil", nil, ir.Null{}},
		{"string", "hi", ir.String("hi")},
		{"int", 42, ir.Int(42)},
		{"int8", int8(-3), ir.Int(-3)},
		{"uint32", uint32(7), ir.Int(7)},
		{"bool", true, ir.Bool(true)},
		{"pointer", &n, ir.Int(5)},
		{"nil pointer", nilPtr, ir.Null{}},
		{"nil error", nilErr, ir.Null{}},
		{"error", errors.New("disk full"), ir.String("disk full")},
		{"stringer", level(1), ir.String("high")},
		{"duration", 1500 * time.Millisecond, ir.String("1.5s")},
		{"slice", []string{"a", "b"}, ir.List{ir.String("a"), ir.String("b")}},
		{"array", [2]int{1, 2}, ir.List{ir.Int(1), ir.Int(2)}},
		{"nil slice", []int(nil), ir.Null{}},
		{"map", map[string]int{"b": 2, "a": 1}, ir.Map{"a": ir.Int(1), "b": ir.Int(2)}},
		{"nested any", map[string]any{"xs": []any{1, "two", nil}}, ir.Map{"xs": ir.List{ir.Int(1), ir.String("two"), ir.Null{}}}},
		{"ir value", ir.Int(9), ir.Int(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromGo(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromGoRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"float", 1.5},
		{"float in slice", []float64{1}},
		{"struct", point{1, 2}},
		{"int keyed map", map[int]string{1: "a"}},
		{"channel", make(chan int)},
		{"uint overflow", uint64(math.MaxUint64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromGo(tt.raw)
			require.Error(t, err)
		})
	}

	_, err := FromGo(2.0)
	assert.ErrorIs(t, err, ErrFloat)
}

func TestToGo(t *testing.T) {
	v := ir.Map{
		"s": ir.String("x"),
		"n": ir.Int(1),
		"b": ir.Bool(false),
		"l": ir.List{ir.Null{}},
	}
	assert.Equal(t, map[string]any{
		"s": "x",
		"n": int64(1),
		"b": false,
		"l": []any{nil},
	}, ToGo(v))
}
