package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/emit/internal/compiler"
	"github.com/roach88/emit/internal/ir"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Fields  []string // extra field declarations
	Target  string
	Ambient bool
}

// CheckResult is the JSON payload of a successful check.
type CheckResult struct {
	Template  string      `json:"template"`
	Target    string      `json:"target,omitempty"`
	Rendering []FieldView `json:"rendering"`
	Sorted    []string    `json:"sorted"`
	Index     []int       `json:"index"`
	Problems  []string    `json:"problems,omitempty"`
}

// FieldView describes one field of a compiled plan.
type FieldView struct {
	Name   string   `json:"name"`
	Expr   string   `json:"expr,omitempty"`
	Attrs  []string `json:"attrs,omitempty"`
	Origin string   `json:"origin"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <template>",
		Short: "Compile a template and show its plan",
		Long: `Compile a template with extra field declarations without reading any values.

Prints the fields in rendering order, the sorted field names and the index
map from rendering position to sorted position, or the first error.

Examples:
  emit check 'user {user} logged in {n: 2} times' --field 'user: "ada"'
  emit check 'Text and {b: 17} and {a} and {#[attr] c}' --field 'a: 42' --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Fields, "field", "f", nil, "extra field declaration (repeatable)")
	cmd.Flags().StringVar(&opts.Target, "target", "", "target sink name")
	cmd.Flags().BoolVar(&opts.Ambient, "ambient", false, "let bare holes bind host values without an extra field")

	return cmd
}

func runCheck(opts *CheckOptions, template string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	plan, err := compiler.CompileStrings(template, opts.Fields, compiler.Options{
		Target:  opts.Target,
		Ambient: opts.Ambient,
	})
	if err != nil {
		return failPipeline(formatter, err)
	}
	formatter.VerboseLog("Compiled %d field(s) from %d part(s)", len(plan.Fields), len(plan.Parts))

	result := newCheckResult(plan)
	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %d field(s)\n\n", len(result.Rendering))
	if result.Target != "" {
		fmt.Fprintf(w, "Target: %s\n\n", result.Target)
	}
	fmt.Fprintln(w, "Rendering order:")
	for i, f := range result.Rendering {
		fmt.Fprintf(w, "  %d. %s\n", i, describeField(f))
	}
	fmt.Fprintf(w, "\nSorted: %s\n", strings.Join(result.Sorted, ", "))
	fmt.Fprintf(w, "Index:  %v\n", result.Index)
	for _, p := range result.Problems {
		fmt.Fprintf(w, "  ! %s\n", p)
	}
	return nil
}

func newCheckResult(plan *ir.Plan) CheckResult {
	result := CheckResult{
		Template:  plan.Template,
		Target:    plan.Target,
		Rendering: make([]FieldView, len(plan.Fields)),
		Sorted:    plan.Sorted.Names(),
		Index:     plan.Index,
	}
	for i, f := range plan.Fields {
		result.Rendering[i] = FieldView{Name: f.Name, Expr: f.Expr, Attrs: f.Attrs, Origin: f.Origin.String()}
	}
	for _, verr := range compiler.Validate(plan) {
		result.Problems = append(result.Problems, verr.Error())
	}
	return result
}

func describeField(f FieldView) string {
	var b strings.Builder
	if len(f.Attrs) > 0 {
		fmt.Fprintf(&b, "#[%s] ", strings.Join(f.Attrs, ", "))
	}
	b.WriteString(f.Name)
	if f.Expr != "" {
		fmt.Fprintf(&b, ": %s", f.Expr)
	}
	fmt.Fprintf(&b, " (%s)", f.Origin)
	return b.String()
}
