package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/emit/internal/ir"
	"github.com/roach88/emit/internal/query"
)

func seedQueryStore(t *testing.T) *Store {
	t.Helper()
	s := createTestStore(t)
	ctx := t.Context()

	rows := []struct {
		id     string
		target *string
		rec    *ir.Record
	}{
		{"q1", strp("audit"), createTestRecord(t, "login {user}", `user: "ada"`, "ok: true")},
		{"q2", nil, createTestRecord(t, "tick {n: 1}")},
		{"q3", strp("billing"), createTestRecord(t, "charge {user} {n: 1}", `user: "bob"`, `code: "1"`)},
		{"q4", strp("audit"), createTestRecord(t, "login {user}", `user: "ada"`, "ok: false", "gone: null")},
	}
	for i, r := range rows {
		require.NoError(t, s.WriteRecord(ctx, StoredRecord{ID: r.id, Seq: int64(i + 1), Target: r.target, Record: r.rec}))
	}
	return s
}

func queryIDs(t *testing.T, s *Store, q query.Query) []string {
	t.Helper()
	records, err := s.Query(t.Context(), q)
	require.NoError(t, err)
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

func TestQuery_Filters(t *testing.T) {
	s := seedQueryStore(t)

	tests := []struct {
		name string
		q    query.Query
		want []string
	}{
		{"all", query.Query{}, []string{"q1", "q2", "q3", "q4"}},
		{"limit", query.Query{Limit: 2}, []string{"q1", "q2"}},
		{"target", query.Where(query.TargetIs{Target: "audit"}), []string{"q1", "q4"}},
		{"no target", query.Where(query.TargetIs{}), []string{"q2"}},
		{"after", query.Where(query.SeqAfter{Seq: 2}), []string{"q3", "q4"}},
		{"has field", query.Where(query.HasField{Name: "user"}), []string{"q1", "q3", "q4"}},
		{"string", query.Where(query.FieldEquals{Name: "user", Value: ir.String("ada")}), []string{"q1", "q4"}},
		{"int", query.Where(query.FieldEquals{Name: "n", Value: ir.Int(1)}), []string{"q2", "q3"}},
		{"bool", query.Where(query.FieldEquals{Name: "ok", Value: ir.Bool(false)}), []string{"q4"}},
		{"null", query.Where(query.FieldEquals{Name: "gone", Value: ir.Null{}}), []string{"q4"}},
		{"string is not int", query.Where(query.FieldEquals{Name: "code", Value: ir.Int(1)}), []string{}},
		{"combined", query.Query{
			Filter: query.And{Predicates: []query.Predicate{
				query.TargetIs{Target: "audit"},
				query.SeqAfter{Seq: 1},
				query.FieldEquals{Name: "user", Value: ir.String("ada")},
			}},
		}, []string{"q4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, queryIDs(t, s, tt.q))
		})
	}
}

func TestQuery_Invalid(t *testing.T) {
	s := createTestStore(t)
	_, err := s.Query(t.Context(), query.Where(query.FieldEquals{Name: "tags", Value: ir.List{}}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid query")
}
