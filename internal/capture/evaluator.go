package capture

import (
	"errors"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/emit/internal/ir"
)

// Evaluator computes the raw value of an inline field expression.
type Evaluator interface {
	Eval(expr string, scope Scope) (any, error)
}

// CUEEvaluator evaluates inline expressions as CUE.
//
// The scope is encoded as the enclosing struct of the expression, so
// `{n: count + 1}` reads the caller's count and `{who: strings.ToUpper(user)}`
// can call CUE builtins. Bindings CUE cannot encode are left out of the
// expression's view. Results are ir.Values, except that a result holding a
// float is returned as plain Go data for the capture strategy to judge.
//
// Thread-safety: Eval is safe for concurrent use.
type CUEEvaluator struct {
	mu  sync.Mutex
	ctx *cue.Context
}

// NewCUEEvaluator creates an evaluator with its own CUE context.
func NewCUEEvaluator() *CUEEvaluator {
	return &CUEEvaluator{ctx: cuecontext.New()}
}

// Eval implements Evaluator.
func (e *CUEEvaluator) Eval(expr string, scope Scope) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	env := e.ctx.CompileString("{}")
	if scope != nil {
		for _, name := range scope.Names() {
			raw, _ := scope.Lookup(name)
			if v, ok := raw.(ir.Value); ok {
				raw = ToGo(v)
			}
			encoded := e.ctx.Encode(raw)
			if encoded.Err() != nil {
				continue
			}
			env = env.FillPath(cue.MakePath(cue.Str(name)), encoded)
		}
	}

	v := e.ctx.CompileString(expr, cue.Scope(env), cue.InferBuiltins(true))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("evaluate %q: %w", expr, err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("evaluate %q: %w", expr, err)
	}
	raw, err := toGo(v)
	if err != nil {
		return nil, fmt.Errorf("evaluate %q: %w", expr, err)
	}
	// Floats stay raw so the field's strategy decides: plain rejects them,
	// debug and serialize accept them.
	val, err := FromGo(raw)
	switch {
	case err == nil:
		return val, nil
	case errors.Is(err, ErrFloat):
		return raw, nil
	default:
		return nil, fmt.Errorf("evaluate %q: %w", expr, err)
	}
}

// toGo converts a concrete CUE value into plain Go data: nil, bool, int64,
// float64, string, []any and map[string]any.
func toGo(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.NullKind:
		return nil, nil
	case cue.BoolKind:
		return v.Bool()
	case cue.IntKind:
		return v.Int64()
	case cue.FloatKind:
		return v.Float64()
	case cue.StringKind:
		return v.String()
	case cue.BytesKind:
		b, err := v.Bytes()
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		list := []any{}
		for iter.Next() {
			item, err := toGo(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", len(list), err)
			}
			list = append(list, item)
		}
		return list, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, err
		}
		m := map[string]any{}
		for iter.Next() {
			name := iter.Selector().Unquoted()
			item, err := toGo(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", name, err)
			}
			m[name] = item
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported CUE value of kind %v", v.Kind())
	}
}

// defaultEvaluator backs DefaultEvaluator.
var defaultEvaluator = NewCUEEvaluator()

// DefaultEvaluator returns the shared CUE evaluator.
func DefaultEvaluator() Evaluator {
	return defaultEvaluator
}
