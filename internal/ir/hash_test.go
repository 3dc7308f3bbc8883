package ir

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() *Record {
	return &Record{
		Template: "Text and {b} and {a}",
		Parts:    []Part{Text("Text and "), Hole("b"), Text(" and "), Hole("a")},
		KVs: KeyValues{
			{Name: "a", Value: String("hello")},
			{Name: "b", Value: Int(17)},
		},
		Index: []int{1, 0},
	}
}

func TestRecordIDDeterminism(t *testing.T) {
	id1, err := RecordID("", testRecord())
	require.NoError(t, err)
	id2, err := RecordID("", testRecord())
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 64)
	_, err = hex.DecodeString(id1)
	assert.NoError(t, err)
}

func TestRecordIDChangesWithInput(t *testing.T) {
	base := MustRecordID("", testRecord())

	assert.NotEqual(t, base, MustRecordID("audit", testRecord()), "target is part of identity")

	changed := testRecord()
	changed.KVs[1].Value = Int(18)
	assert.NotEqual(t, base, MustRecordID("", changed))
}

func TestRecordIDIgnoresAttributes(t *testing.T) {
	withAttrs := testRecord()
	withAttrs.KVs[0].Attrs = []string{"debug"}
	assert.Equal(t, MustRecordID("", testRecord()), MustRecordID("", withAttrs))
}

func TestPlanKeyDomainSeparation(t *testing.T) {
	key := PlanKey("{a}", []string{"a: 1"})
	assert.Equal(t, key, PlanKey("{a}", []string{"a: 1"}))
	assert.NotEqual(t, key, PlanKey("{a}", []string{"a: 2"}))
	assert.NotEqual(t, key, PlanKey("{a}", nil))
}

func TestHashWithDomainNullSeparator(t *testing.T) {
	// "ab" + 0x00 + "c" differs from "a" + 0x00 + "bc".
	assert.NotEqual(t, hashWithDomain("ab", []byte("c")), hashWithDomain("a", []byte("bc")))
}

func TestMustRecordIDPanics(t *testing.T) {
	rec := testRecord()
	rec.KVs[0].Value = nil
	rec.KVs = append(rec.KVs, KeyValue{Name: "z", Value: badValue{}})
	assert.Panics(t, func() { MustRecordID("", rec) })
}

// badValue satisfies Value only for tests; canonical marshaling rejects it.
type badValue struct{}

func (badValue) value() {}
