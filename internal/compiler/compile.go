package compiler

import (
	"github.com/roach88/emit/internal/fields"
	"github.com/roach88/emit/internal/ir"
	"github.com/roach88/emit/internal/template"
)

// Options control compilation.
type Options struct {
	// Target names the sink; empty means the process default sink. The
	// target is never read from the declarations, so a field may be named
	// target like any other.
	Target string

	// Ambient lets fully bare holes bind the caller's value of the same
	// name when no extra field matches.
	Ambient bool
}

// Compile runs the value-free pipeline for one emission site.
func Compile(src string, decls []fields.Decl, opts Options) (*ir.Plan, error) {
	tmpl, err := template.Parse(src)
	if err != nil {
		return nil, err
	}

	extras, err := fields.Normalize(decls)
	if err != nil {
		return nil, err
	}

	resolved, err := Resolve(tmpl.Fields, extras, opts.Ambient)
	if err != nil {
		return nil, err
	}

	sorted, index, err := SortKeys(resolved)
	if err != nil {
		return nil, err
	}

	return &ir.Plan{
		Template: src,
		Target:   opts.Target,
		Parts:    tmpl.Parts,
		Fields:   resolved,
		Sorted:   sorted,
		Index:    index,
	}, nil
}

// CompileStrings is Compile with textual declarations.
func CompileStrings(src string, decls []string, opts Options) (*ir.Plan, error) {
	parsed, err := fields.ParseDecls(decls)
	if err != nil {
		return nil, err
	}
	return Compile(src, parsed, opts)
}
