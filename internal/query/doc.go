// Package query describes filters over the stored record log and compiles
// them to parameterized SQLite SQL.
//
// A filter is a tree of predicates:
//
//	And{Predicates: []Predicate{
//	  TargetIs{Target: "billing"},
//	  SeqAfter{Seq: 100},
//	  FieldEquals{Name: "user", Value: ir.String("ada")},
//	}}
//
// compiles to
//
//	SELECT <columns> FROM records
//	WHERE target = ? AND seq > ? AND EXISTS (
//	  SELECT 1 FROM json_each(records.kvs) AS kv
//	  WHERE json_extract(kv.value, '$.name') = ?
//	    AND json_type(kv.value, '$.value') = ?
//	    AND json_extract(kv.value, '$.value') = ?)
//	ORDER BY seq ASC, id COLLATE BINARY ASC
//	LIMIT ?
//
// Values are always bound as parameters, never interpolated. Every query is
// ordered by (seq, id) so results are deterministic.
//
// Field values are matched by JSON type as well as by value, so the string
// "1", the integer 1 and the bool true are three different filters.
// Only scalar values (string, integer, bool, null) can be matched.
package query
