package query

import (
	"errors"
	"fmt"

	"github.com/roach88/emit/internal/fields"
	"github.com/roach88/emit/internal/ir"
)

// Validate checks that a query can be compiled: field names are identifiers,
// matched values are scalars and the limit is not negative. All problems are
// reported together.
func Validate(q Query) error {
	v := &validator{}
	if q.Limit < 0 {
		v.addf("limit must not be negative, got %d", q.Limit)
	}
	if q.Filter != nil {
		v.validatePredicate(q.Filter)
	}
	return errors.Join(v.errs...)
}

type validator struct {
	errs []error
}

func (v *validator) addf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case TargetIs, SeqAfter:
	case HasField:
		v.validateName(pred.Name)
	case FieldEquals:
		v.validateName(pred.Name)
		if _, err := scalarType(pred.Value); err != nil {
			v.addf("field %q: %v", pred.Name, err)
		}
	case And:
		for _, child := range pred.Predicates {
			if child == nil {
				v.addf("nil predicate in And")
				continue
			}
			v.validatePredicate(child)
		}
	default:
		v.addf("unsupported predicate type: %T", p)
	}
}

func (v *validator) validateName(name string) {
	if !fields.ValidName(name) {
		v.addf("invalid field name %q", name)
	}
}

// scalarType returns the SQLite json_type of a scalar value.
func scalarType(val ir.Value) (string, error) {
	switch x := val.(type) {
	case ir.String:
		return "text", nil
	case ir.Int:
		return "integer", nil
	case ir.Bool:
		if x {
			return "true", nil
		}
		return "false", nil
	case nil, ir.Null:
		return "null", nil
	default:
		return "", fmt.Errorf("only scalar values can be matched, got %T", val)
	}
}
