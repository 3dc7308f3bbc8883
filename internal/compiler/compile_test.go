package compiler

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/emit/internal/fields"
	"github.com/roach88/emit/internal/ir"
)

func renderingNames(plan *ir.Plan) []string {
	out := make([]string, len(plan.Fields))
	for i, f := range plan.Fields {
		out[i] = f.Name
	}
	return out
}

func TestCompileMixedTemplate(t *testing.T) {
	plan, err := CompileStrings(
		"Text and {b: 17} and {a} and {#[attr] c} and {d: expr}",
		[]string{"a: 42"},
		Options{},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c", "d"}, renderingNames(plan))
	assert.Equal(t, []string{"a", "b", "c", "d"}, plan.Sorted.Names())
	assert.Equal(t, []int{1, 0, 2, 3}, plan.Index)
	assert.Empty(t, Validate(plan))

	a := plan.Sorted[plan.Sorted.Find("a")]
	assert.Equal(t, "42", a.Expr)
	assert.Equal(t, ir.OriginExtra, a.Origin)

	c := plan.Sorted[plan.Sorted.Find("c")]
	assert.Equal(t, []string{"attr"}, c.Attrs)
}

func TestCompilePlanShape(t *testing.T) {
	plan, err := CompileStrings("x={x} y={y: 2}", []string{"x: 1"}, Options{})
	require.NoError(t, err)

	want := &ir.Plan{
		Template: "x={x} y={y: 2}",
		Parts:    []ir.Part{ir.Text("x="), ir.Hole("x"), ir.Text(" y="), ir.Hole("y")},
		Fields: []ir.ResolvedField{
			{FieldEntry: ir.FieldEntry{Name: "x", Expr: "1", Origin: ir.OriginExtra}, Position: 0},
			{FieldEntry: ir.FieldEntry{Name: "y", Expr: "2", Origin: ir.OriginTemplate}, Position: 1},
		},
		Sorted: ir.SortedKeyValues{
			{FieldEntry: ir.FieldEntry{Name: "x", Expr: "1", Origin: ir.OriginExtra}, Position: 0},
			{FieldEntry: ir.FieldEntry{Name: "y", Expr: "2", Origin: ir.OriginTemplate}, Position: 1},
		},
		Index: []int{0, 1},
	}

	ignoreOffsets := cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().String() == ".Offset"
	}, cmp.Ignore())
	if diff := cmp.Diff(want, plan, ignoreOffsets); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name     string
		template string
		decls    []string
		opts     Options
		is       func(error) bool
	}{
		{"unresolved bare hole", "{a}", nil, Options{}, ir.IsUnresolvedHoleError},
		{"conflicting inline value", "{a: 1}", []string{"a: 2"}, Options{}, ir.IsConflictError},
		{"conflicting attributes", "{#[debug] a}", []string{"a"}, Options{}, ir.IsConflictError},
		{"duplicate extras", "hi", []string{"a: 1", "a: 2"}, Options{}, ir.IsDuplicateKeyError},
		{"repeated hole", "{a: 1} {a: 1}", nil, Options{}, ir.IsDuplicateKeyError},
		{"unbalanced brace", "oops {a", nil, Options{}, ir.IsParseError},
		{"invalid identifier", "{1a: 2}", nil, Options{}, ir.IsParseError},
		{"invalid extra name", "hi", []string{"a-b: 1"}, Options{}, ir.IsParseError},
		{"duplicate target extras", "hi", []string{`target: "a"`, `target: "b"`}, Options{}, ir.IsDuplicateKeyError},
		{"unresolved target hole", "deploy to {target}", nil, Options{Target: "prod"}, ir.IsUnresolvedHoleError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := CompileStrings(tt.template, tt.decls, tt.opts)
			require.Error(t, err)
			assert.Nil(t, plan)
			assert.True(t, tt.is(err), "unexpected error kind: %v", err)
		})
	}
}

func TestCompileExtraSatisfiesHole(t *testing.T) {
	plan, err := CompileStrings("{a}", []string{"a: 42"}, Options{})
	require.NoError(t, err)
	require.Len(t, plan.Fields, 1)
	assert.Equal(t, "42", plan.Fields[0].Expr)
}

func TestCompileAmbient(t *testing.T) {
	plan, err := CompileStrings("{user} logged in", nil, Options{Ambient: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"user"}, plan.Sorted.Names())
	assert.True(t, plan.Fields[0].Bare())
}

func TestCompileTarget(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		decls []string
		opts  Options
		want  string
		names []string
	}{
		{"none", "hello {who: 1}", nil, Options{}, "", []string{"who"}},
		{"option", "hello {who: 1}", nil, Options{Target: "audit"}, "audit", []string{"who"}},
		{"extra named target", "deploy to {target}", []string{"target: prod"}, Options{}, "", []string{"target"}},
		{"extra and option", "deploy to {target}", []string{`target: "prod"`}, Options{Target: "audit"}, "audit", []string{"target"}},
		{"unreferenced extra", "hi", []string{"target: 1"}, Options{}, "", []string{"target"}},
		{"inline hole", "sent to {target: 1}", nil, Options{}, "", []string{"target"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := CompileStrings(tt.src, tt.decls, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.Target)
			assert.Equal(t, tt.names, plan.Sorted.Names())
		})
	}
}

func TestCompileExtraNamedTargetFillsHole(t *testing.T) {
	plan, err := CompileStrings("deploy to {target}", []string{"target: prod"}, Options{})
	require.NoError(t, err)
	require.Len(t, plan.Fields, 1)
	assert.Equal(t, "target", plan.Fields[0].Name)
	assert.Equal(t, "prod", plan.Fields[0].Expr)
	assert.Equal(t, []int{0}, plan.Index)
}

func TestCompileWithDecls(t *testing.T) {
	decls := []fields.Decl{
		fields.Expr("count", "3"),
		fields.Bind("user").With("debug"),
	}
	plan, err := Compile("{user} sent {count}", decls, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"user", "count"}, renderingNames(plan))
	assert.Equal(t, []int{1, 0}, plan.Index)
	assert.Equal(t, []string{"debug"}, plan.Fields[0].Attrs)
}

func TestCompileExtrasOnly(t *testing.T) {
	plan, err := CompileStrings("no holes here", []string{"z: 1", "a: 2"}, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"z", "a"}, renderingNames(plan))
	assert.Equal(t, []string{"a", "z"}, plan.Sorted.Names())
	assert.Equal(t, []int{1, 0}, plan.Index)
	assert.Equal(t, []ir.Part{ir.Text("no holes here")}, plan.Parts)
}

func TestCompileDeterministic(t *testing.T) {
	src := "{c: 1} {b: 2} {a: 3}"
	first, err := CompileStrings(src, []string{"e: 4", "d: 5"}, Options{})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := CompileStrings(src, []string{"e: 4", "d: 5"}, Options{})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
