package query

import (
	"fmt"
	"strings"

	"github.com/roach88/emit/internal/ir"
)

// SQLCompiler compiles queries against the records table.
type SQLCompiler struct {
	Table   string // table name, also used to qualify the kvs column
	Columns string // select list
}

// NewSQLCompiler creates a compiler selecting columns from table.
func NewSQLCompiler(table, columns string) *SQLCompiler {
	return &SQLCompiler{Table: table, Columns: columns}
}

// Compile converts q to parameterized SQL and its arguments.
// The result is always ordered by (seq, id).
func (c *SQLCompiler) Compile(q Query) (string, []any, error) {
	if err := Validate(q); err != nil {
		return "", nil, fmt.Errorf("invalid query: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", c.Columns, c.Table)

	var params []any
	if q.Filter != nil {
		where, whereParams, err := c.compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		b.WriteString(" WHERE ")
		b.WriteString(where)
		params = whereParams
	}

	b.WriteString(" ORDER BY seq ASC, id COLLATE BINARY ASC")

	limit := q.Limit
	if limit == 0 {
		limit = -1 // SQLite: negative LIMIT is unbounded
	}
	b.WriteString(" LIMIT ?")
	params = append(params, limit)

	return b.String(), params, nil
}

func (c *SQLCompiler) compilePredicate(p Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case TargetIs:
		if pred.Target == "" {
			return "target IS NULL", nil, nil
		}
		return "target = ?", []any{pred.Target}, nil
	case SeqAfter:
		return "seq > ?", []any{pred.Seq}, nil
	case HasField:
		return c.fieldExists("json_extract(kv.value, '$.name') = ?"), []any{pred.Name}, nil
	case FieldEquals:
		return c.compileFieldEquals(pred)
	case And:
		return c.compileAnd(pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *SQLCompiler) compileFieldEquals(eq FieldEquals) (string, []any, error) {
	typ, err := scalarType(eq.Value)
	if err != nil {
		return "", nil, err
	}

	cond := "json_extract(kv.value, '$.name') = ? AND json_type(kv.value, '$.value') = ?"
	params := []any{eq.Name, typ}

	switch v := eq.Value.(type) {
	case ir.String:
		cond += " AND json_extract(kv.value, '$.value') = ?"
		params = append(params, string(v))
	case ir.Int:
		cond += " AND json_extract(kv.value, '$.value') = ?"
		params = append(params, int64(v))
	}
	// Bool and null are fully decided by json_type.
	return c.fieldExists(cond), params, nil
}

func (c *SQLCompiler) compileAnd(and And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, pred := range and.Predicates {
		sql, predParams, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, predParams...)
	}
	return strings.Join(parts, " AND "), params, nil
}

func (c *SQLCompiler) fieldExists(cond string) string {
	return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s.kvs) AS kv WHERE %s)", c.Table, cond)
}
