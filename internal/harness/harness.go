package harness

import (
	"context"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/roach88/emit/internal/capture"
	"github.com/roach88/emit/internal/compiler"
	"github.com/roach88/emit/internal/engine"
	"github.com/roach88/emit/internal/ir"
	"github.com/roach88/emit/internal/sink"
	"github.com/roach88/emit/internal/store"
	"github.com/roach88/emit/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario gets a fresh emitter, registry and in-memory store, so runs
// are isolated and deterministic. The returned error covers harness failures
// (the store could not be opened); pipeline errors land in Result.Err and
// are checked against the scenario's expectations.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	stored, err := store.NewSink(ctx, st, testutil.NewSequentialIDs("em"))
	if err != nil {
		return nil, fmt.Errorf("failed to create store sink: %w", err)
	}

	mem := sink.NewMemory()
	reg := &engine.Registry{}
	reg.Install(engine.SinkFunc(func(target *string, names []string, values []ir.Value, rec *ir.Record) {
		mem.Emit(target, names, values, rec)
		stored.Emit(target, names, values, rec)
	}))

	emitter := engine.NewEmitter(
		engine.WithRegistry(reg),
		engine.WithAmbient(scenario.Ambient),
	)

	result := NewResult()
	result.Plan, result.Err = emitter.Compile(scenario.Template, scenario.Fields, scenario.Target)
	if result.Err == nil {
		result.Record, result.Err = emitter.EmitPlan(result.Plan, capture.Vars(scenario.Scope))
	}
	result.ErrorKind = ir.KindOf(result.Err)

	if err := stored.Err(); err != nil {
		return nil, fmt.Errorf("failed to store record: %w", err)
	}
	if result.Stored, err = st.ReadRecords(ctx); err != nil {
		return nil, fmt.Errorf("failed to read stored records: %w", err)
	}

	result.Dispatched = mem.Len()
	if emissions := mem.Emissions(); len(emissions) > 0 && emissions[0].Target != nil {
		result.Target = *emissions[0].Target
	}

	checkPipeline(result)
	checkExpect(scenario.Expect, result)
	return result, nil
}

// checkPipeline verifies what must hold for every emission: failures
// dispatch nothing, successes dispatch exactly once, the plan validates and
// the stored record reads back unchanged.
func checkPipeline(result *Result) {
	if result.Err != nil {
		if result.Dispatched != 0 {
			result.AddError(fmt.Sprintf("pipeline failed but %d record(s) were dispatched", result.Dispatched))
		}
		return
	}

	if result.Dispatched != 1 {
		result.AddError(fmt.Sprintf("expected exactly one dispatch, got %d", result.Dispatched))
	}
	for _, verr := range compiler.Validate(result.Plan) {
		result.AddError("invalid plan: " + verr.Error())
	}
	if len(result.Stored) != 1 {
		result.AddError(fmt.Sprintf("expected one stored record, got %d", len(result.Stored)))
		return
	}
	// Empty and nil slices are the same record once stored.
	if diff := cmp.Diff(result.Record, result.Stored[0].Record, cmpopts.EquateEmpty()); diff != "" {
		result.AddError("stored record differs from the emitted record (-emitted +stored):\n" + diff)
	}
}

// checkExpect compares the result against the scenario's expectations.
func checkExpect(expect Expect, result *Result) {
	if err := assertError(expect.Error, result); err != nil {
		result.AddError(err.Error())
	}
	if result.Err != nil {
		return
	}

	checks := []error{
		assertNames("rendering", expect.Rendering, renderingNames(result.Plan)),
		assertNames("sorted", expect.Sorted, result.Record.KVs.Names()),
		assertIndex(expect.Index, result.Record.Index),
		assertValues(expect.Values, result.Record.KVs),
		assertMessage(expect.Message, result.Record),
		assertTarget(expect.Target, result.Target),
	}
	for _, err := range checks {
		if err != nil {
			result.AddError(err.Error())
		}
	}
}

func renderingNames(plan *ir.Plan) []string {
	names := make([]string, len(plan.Fields))
	for i, f := range plan.Fields {
		names[i] = f.Name
	}
	return names
}
