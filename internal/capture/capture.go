package capture

import (
	"fmt"

	"github.com/roach88/emit/internal/ir"
)

// Capturer produces field values from a scope.
type Capturer struct {
	// Eval evaluates inline expressions. Nil uses DefaultEvaluator.
	Eval Evaluator
}

// Field captures the value of one resolved field.
// Every failure is reported as a CaptureError naming the field.
func (c Capturer) Field(f ir.ResolvedField, scope Scope) (ir.Value, error) {
	strategy, err := Select(f.Attrs)
	if err != nil {
		return nil, ir.NewCaptureError(f.Name, err)
	}

	raw, err := c.source(f, scope)
	if err != nil {
		return nil, ir.NewCaptureError(f.Name, err)
	}

	v, err := strategy.Capture(raw)
	if err != nil {
		return nil, ir.NewCaptureError(f.Name, fmt.Errorf("%s capture: %w", strategy.Name(), err))
	}
	return v, nil
}

// source returns the raw host value for f: the caller's binding for a bare
// field, or the evaluated expression.
func (c Capturer) source(f ir.ResolvedField, scope Scope) (any, error) {
	if f.Expr == "" {
		if scope == nil {
			return nil, fmt.Errorf("no binding for %q: empty scope", f.Name)
		}
		raw, ok := scope.Lookup(f.Name)
		if !ok {
			return nil, fmt.Errorf("no binding for %q in scope", f.Name)
		}
		return raw, nil
	}

	eval := c.Eval
	if eval == nil {
		eval = DefaultEvaluator()
	}
	return eval.Eval(f.Expr, scope)
}
