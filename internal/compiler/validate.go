package compiler

import (
	"fmt"

	"github.com/roach88/emit/internal/ir"
)

// Plan validation codes (E200-E209).
const (
	ErrHoleUnresolved  = "E201" // a hole has no resolved field
	ErrIndexLength     = "E202" // index length differs from field count
	ErrIndexMismatch   = "E203" // index entry points at a different field
	ErrSortOrder       = "E204" // sorted fields not strictly ascending
	ErrPositionInvalid = "E205" // rendering position out of order
)

// ValidationError describes a broken plan invariant.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validate checks every structural invariant of a plan and returns all
// violations found (does not fail-fast). Plans produced by Compile always
// validate; this exists for plans decoded from storage or built by hand.
func Validate(plan *ir.Plan) []ValidationError {
	var errs []ValidationError

	for i, f := range plan.Fields {
		if f.Position != i {
			errs = append(errs, ValidationError{
				Field:   f.Name,
				Message: fmt.Sprintf("rendering position %d at index %d", f.Position, i),
				Code:    ErrPositionInvalid,
			})
		}
	}

	for i := 1; i < len(plan.Sorted); i++ {
		if plan.Sorted[i-1].Name >= plan.Sorted[i].Name {
			errs = append(errs, ValidationError{
				Field:   plan.Sorted[i].Name,
				Message: fmt.Sprintf("sorted fields not strictly ascending after %q", plan.Sorted[i-1].Name),
				Code:    ErrSortOrder,
			})
		}
	}

	if len(plan.Index) != len(plan.Fields) || len(plan.Sorted) != len(plan.Fields) {
		errs = append(errs, ValidationError{
			Message: fmt.Sprintf("index has %d entries, sorted %d, fields %d", len(plan.Index), len(plan.Sorted), len(plan.Fields)),
			Code:    ErrIndexLength,
		})
	} else {
		for r, s := range plan.Index {
			if s < 0 || s >= len(plan.Sorted) || plan.Sorted[s].Name != plan.Fields[r].Name {
				errs = append(errs, ValidationError{
					Field:   plan.Fields[r].Name,
					Message: fmt.Sprintf("index[%d] = %d does not point at the field", r, s),
					Code:    ErrIndexMismatch,
				})
			}
		}
	}

	for _, part := range plan.Parts {
		if part.IsHole() && plan.Sorted.Find(part.Name) < 0 {
			errs = append(errs, ValidationError{
				Field:   part.Name,
				Message: "hole has no resolved field",
				Code:    ErrHoleUnresolved,
			})
		}
	}

	return errs
}
