package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/emit/internal/ir"
)

// Snapshot returns the canonical JSON that golden files store for a result:
// the scenario name plus either the error kind or the record (template,
// target, parts, values) and its index map.
func Snapshot(name string, result *Result) ([]byte, error) {
	snapshot := ir.Map{"name": ir.String(name)}
	if result.Err != nil {
		snapshot["error"] = ir.String(result.ErrorKind)
	} else {
		index := make(ir.List, len(result.Record.Index))
		for i, s := range result.Record.Index {
			index[i] = ir.Int(s)
		}
		snapshot["record"] = ir.RecordValue(result.Target, result.Record)
		snapshot["index"] = index
	}
	return ir.MarshalCanonical(snapshot)
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's snapshot against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
