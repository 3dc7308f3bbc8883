package harness

import (
	"github.com/roach88/emit/internal/ir"
	"github.com/roach88/emit/internal/store"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation and pipeline check held.
	Pass bool `json:"pass"`

	// Errors contains failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Plan is the compiled plan, nil when compilation failed.
	Plan *ir.Plan `json:"plan,omitempty"`

	// Record is the emitted record, nil when the pipeline failed.
	Record *ir.Record `json:"record,omitempty"`

	// Target is the target the record was dispatched to.
	Target string `json:"target,omitempty"`

	// Err is the pipeline error, if any.
	Err error `json:"-"`

	// ErrorKind is the kind of Err, or "" when Err is nil.
	ErrorKind ir.ErrorKind `json:"error_kind,omitempty"`

	// Dispatched counts records that reached the sink registry.
	Dispatched int `json:"dispatched"`

	// Stored holds the records read back from the scenario's store.
	Stored []store.StoredRecord `json:"stored,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError adds a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
