package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/emit/internal/ir"
)

func TestMarshalParts_Canonical(t *testing.T) {
	data, err := marshalParts([]ir.Part{ir.Text("hi "), ir.Hole("user")})
	require.NoError(t, err)
	assert.Equal(t, `[{"text":"hi "},{"hole":"user"}]`, data)

	parts, err := unmarshalParts(data)
	require.NoError(t, err)
	assert.Equal(t, []ir.Part{ir.Text("hi "), ir.Hole("user")}, parts)
}

func TestMarshalKVs_Canonical(t *testing.T) {
	kvs := ir.KeyValues{
		{Name: "a", Value: ir.Int(1)},
		{Name: "b", Value: ir.Map{"z": ir.Bool(true), "y": ir.Null{}}, Attrs: []string{"debug"}},
	}

	data, err := marshalKVs(kvs)
	require.NoError(t, err)
	assert.Equal(t,
		`[{"name":"a","value":1},{"attrs":["debug"],"name":"b","value":{"y":null,"z":true}}]`,
		data)

	got, err := unmarshalKVs(data)
	require.NoError(t, err)
	assert.Equal(t, kvs, got)
}

func TestMarshalKVs_LargeIntegerPrecision(t *testing.T) {
	kvs := ir.KeyValues{{Name: "big", Value: ir.Int(9007199254740993)}}
	data, err := marshalKVs(kvs)
	require.NoError(t, err)

	got, err := unmarshalKVs(data)
	require.NoError(t, err)
	assert.Equal(t, ir.Int(9007199254740993), got[0].Value)
}

func TestMarshalIndex(t *testing.T) {
	data, err := marshalIndex([]int{1, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, "[1,0,2]", data)

	index, err := unmarshalIndex(data)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 2}, index)
}

func TestUnmarshal_Malformed(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"parts not json", func() error { _, err := unmarshalParts("{"); return err }},
		{"parts not list", func() error { _, err := unmarshalParts(`{"text":"x"}`); return err }},
		{"parts missing kind", func() error { _, err := unmarshalParts(`[{"other":"x"}]`); return err }},
		{"kvs not list", func() error { _, err := unmarshalKVs(`1`); return err }},
		{"kvs missing name", func() error { _, err := unmarshalKVs(`[{"value":1}]`); return err }},
		{"kvs missing value", func() error { _, err := unmarshalKVs(`[{"name":"a"}]`); return err }},
		{"kvs float value", func() error { _, err := unmarshalKVs(`[{"name":"a","value":1.5}]`); return err }},
		{"kvs bad attr", func() error { _, err := unmarshalKVs(`[{"name":"a","value":1,"attrs":[2]}]`); return err }},
		{"index not ints", func() error { _, err := unmarshalIndex(`["0"]`); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.fn())
		})
	}
}
