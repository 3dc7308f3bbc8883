package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	var _ Value = Null{}
	var _ Value = String("test")
	var _ Value = Int(42)
	var _ Value = Bool(true)
	var _ Value = List{String("a"), Int(1)}
	var _ Value = Map{"key": String("value")}
}

func TestMapSortedKeysRFC8785Order(t *testing.T) {
	m := Map{"a": Int(1), "A": Int(2), "aa": Int(3), "aA": Int(4), "Aa": Int(5), "AA": Int(6)}
	assert.Equal(t, []string{"A", "AA", "Aa", "a", "aA", "aa"}, m.SortedKeys())
}

func TestCompareKeysRFC8785(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"a", "b", -1},
		{"b", "a", 1},
		{"a", "a", 0},
		{"a", "ab", -1},
		// U+FF61 is a single UTF-16 unit; U+1F600 is a surrogate pair starting 0xD83D.
		{"\U0001F600", "\uff61", -1},
	}

	for _, tt := range tests {
		got := compareKeysRFC8785(tt.a, tt.b)
		switch {
		case tt.want < 0:
			assert.Negative(t, got, "%q vs %q", tt.a, tt.b)
		case tt.want > 0:
			assert.Positive(t, got, "%q vs %q", tt.a, tt.b)
		default:
			assert.Zero(t, got, "%q vs %q", tt.a, tt.b)
		}
	}
}

func TestUnmarshalValue(t *testing.T) {
	v, err := UnmarshalValue([]byte(`{"n":9007199254740993,"s":"x","b":true,"l":[1,null]}`))
	require.NoError(t, err)
	assert.Equal(t, Map{
		"n": Int(9007199254740993),
		"s": String("x"),
		"b": Bool(true),
		"l": List{Int(1), Null{}},
	}, v)
}

func TestUnmarshalValueRejectsFloats(t *testing.T) {
	for _, input := range []string{`1.5`, `{"a":1e3}`, `[2E2]`} {
		_, err := UnmarshalValue([]byte(input))
		require.Error(t, err, input)
		assert.Contains(t, err.Error(), "floats are not allowed")
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "hello", Format(String("hello")))
	assert.Equal(t, "42", Format(Int(42)))
	assert.Equal(t, "false", Format(Bool(false)))
	assert.Equal(t, "null", Format(nil))
	assert.Equal(t, `["a",1]`, Format(List{String("a"), Int(1)}))
	assert.Equal(t, `{"a":1,"b":"x"}`, Format(Map{"b": String("x"), "a": Int(1)}))
}

func TestKeyValueJSONRoundTrip(t *testing.T) {
	kvs := KeyValues{
		{Name: "a", Value: Map{"x": List{Int(1)}}, Attrs: []string{"debug"}},
		{Name: "b", Value: Null{}},
	}

	data, err := json.Marshal(kvs)
	require.NoError(t, err)

	var back KeyValues
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, kvs, back)
}
