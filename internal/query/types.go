package query

import "github.com/roach88/emit/internal/ir"

// Predicate is a condition on a stored record.
//
// Sealed: only types in this package implement it, so compilers can switch
// over it exhaustively.
type Predicate interface {
	predicateNode()
}

// TargetIs matches records emitted to Target. An empty Target matches
// records emitted without one.
type TargetIs struct {
	Target string
}

func (TargetIs) predicateNode() {}

// SeqAfter matches records with a logical seq greater than Seq.
type SeqAfter struct {
	Seq int64
}

func (SeqAfter) predicateNode() {}

// HasField matches records carrying a field named Name.
type HasField struct {
	Name string
}

func (HasField) predicateNode() {}

// FieldEquals matches records whose field Name holds Value.
// Value must be a scalar: ir.String, ir.Int, ir.Bool or ir.Null.
type FieldEquals struct {
	Name  string
	Value ir.Value
}

func (FieldEquals) predicateNode() {}

// And matches when every predicate matches. An empty And matches everything.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Query selects records from the log.
type Query struct {
	Filter Predicate // nil selects every record
	Limit  int       // at most this many records; 0 means all
}

// Where builds a query that matches all of preds. Nil predicates are skipped.
func Where(preds ...Predicate) Query {
	var kept []Predicate
	for _, p := range preds {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return Query{}
	case 1:
		return Query{Filter: kept[0]}
	default:
		return Query{Filter: And{Predicates: kept}}
	}
}
