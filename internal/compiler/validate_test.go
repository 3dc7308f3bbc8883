package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/emit/internal/ir"
)

func validPlan(t *testing.T) *ir.Plan {
	t.Helper()
	plan, err := CompileStrings("{b: 1} {a: 2}", []string{"c: 3"}, Options{})
	require.NoError(t, err)
	return plan
}

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateCompiledPlan(t *testing.T) {
	assert.Empty(t, Validate(validPlan(t)))
}

func TestValidateViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *ir.Plan)
		want   string
	}{
		{
			name:   "short index",
			mutate: func(p *ir.Plan) { p.Index = p.Index[:1] },
			want:   ErrIndexLength,
		},
		{
			name:   "index points elsewhere",
			mutate: func(p *ir.Plan) { p.Index[0], p.Index[1] = p.Index[1], p.Index[0] },
			want:   ErrIndexMismatch,
		},
		{
			name:   "index out of range",
			mutate: func(p *ir.Plan) { p.Index[0] = 9 },
			want:   ErrIndexMismatch,
		},
		{
			name:   "unsorted",
			mutate: func(p *ir.Plan) { p.Sorted[0], p.Sorted[1] = p.Sorted[1], p.Sorted[0] },
			want:   ErrSortOrder,
		},
		{
			name:   "bad position",
			mutate: func(p *ir.Plan) { p.Fields[2].Position = 7 },
			want:   ErrPositionInvalid,
		},
		{
			name:   "hole without field",
			mutate: func(p *ir.Plan) { p.Parts = append(p.Parts, ir.Hole("zz")) },
			want:   ErrHoleUnresolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := validPlan(t)
			tt.mutate(plan)
			assert.Contains(t, codes(Validate(plan)), tt.want)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{Field: "a", Message: "broken", Code: ErrSortOrder}
	assert.Equal(t, "[E204] a: broken", err.Error())

	err = ValidationError{Message: "broken", Code: ErrIndexLength}
	assert.Equal(t, "[E202] broken", err.Error())
}
