package engine

import (
	"slices"

	"github.com/roach88/emit/internal/capture"
	"github.com/roach88/emit/internal/ir"
)

// Execute captures every field of plan from scope and assembles the record.
//
// Values are produced in rendering order, so a failing field reports the
// first failure as the template reads. The first CaptureError aborts.
// The record owns copies of the plan's slices, so a cached plan is never
// reachable from a sink.
func Execute(plan *ir.Plan, scope capture.Scope, c capture.Capturer) (*ir.Record, error) {
	kvs := make(ir.KeyValues, len(plan.Sorted))
	for r, f := range plan.Fields {
		v, err := c.Field(f, scope)
		if err != nil {
			return nil, err
		}
		s := plan.Index[r]
		kvs[s] = ir.KeyValue{Name: f.Name, Value: v, Attrs: slices.Clone(f.Attrs)}
	}
	return Assemble(plan.Template, slices.Clone(plan.Parts), kvs, slices.Clone(plan.Index)), nil
}
