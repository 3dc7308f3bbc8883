package harness

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/roach88/emit/internal/capture"
	"github.com/roach88/emit/internal/ir"
	"github.com/roach88/emit/internal/sink"
)

// AssertionError is returned when an expectation does not hold.
type AssertionError struct {
	Type     string // expectation name, e.g. "sorted"
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// assertError checks the pipeline error kind. An empty expected kind means
// the pipeline must succeed.
func assertError(expected string, result *Result) error {
	if expected == "" {
		if result.Err == nil {
			return nil
		}
		return &AssertionError{Type: "error", Expected: "no error", Actual: result.Err.Error()}
	}

	want := parseKind(expected)
	if result.ErrorKind == want {
		return nil
	}
	actual := "no error"
	if result.Err != nil {
		actual = result.Err.Error()
	}
	return &AssertionError{Type: "error", Expected: string(want), Actual: actual}
}

func assertNames(kind string, expected, actual []string) error {
	if len(expected) == 0 || slicesEqual(expected, actual) {
		return nil
	}
	return &AssertionError{
		Type:     kind,
		Expected: fmt.Sprintf("%v", expected),
		Actual:   fmt.Sprintf("%v", actual),
	}
}

func assertIndex(expected, actual []int) error {
	if len(expected) == 0 || reflect.DeepEqual(expected, actual) {
		return nil
	}
	return &AssertionError{
		Type:     "index",
		Expected: fmt.Sprintf("%v", expected),
		Actual:   fmt.Sprintf("%v", actual),
	}
}

// assertValues checks each expected value against the captured one by
// canonical JSON, so YAML ints and captured ir.Int compare equal.
func assertValues(expected map[string]any, kvs ir.KeyValues) error {
	names := make([]string, 0, len(expected))
	for name := range expected {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		want, err := capture.FromGo(expected[name])
		if err != nil {
			return &AssertionError{Type: "values", Expected: name, Actual: fmt.Sprintf("unusable expected value: %v", err)}
		}
		got, ok := kvs.Get(name)
		if !ok {
			return &AssertionError{Type: "values", Expected: fmt.Sprintf("%s = %s", name, ir.Format(want)), Actual: "field missing"}
		}

		wantJSON, err1 := ir.MarshalCanonical(want)
		gotJSON, err2 := ir.MarshalCanonical(got)
		if err1 != nil || err2 != nil || !bytes.Equal(wantJSON, gotJSON) {
			return &AssertionError{
				Type:     "values",
				Expected: fmt.Sprintf("%s = %s", name, wantJSON),
				Actual:   fmt.Sprintf("%s = %s", name, gotJSON),
			}
		}
	}
	return nil
}

func assertMessage(expected string, rec *ir.Record) error {
	if expected == "" {
		return nil
	}
	if actual := sink.Render(rec); actual != expected {
		return &AssertionError{Type: "message", Expected: fmt.Sprintf("%q", expected), Actual: fmt.Sprintf("%q", actual)}
	}
	return nil
}

func assertTarget(expected, actual string) error {
	if expected == "" || expected == actual {
		return nil
	}
	return &AssertionError{Type: "target", Expected: expected, Actual: actual}
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
