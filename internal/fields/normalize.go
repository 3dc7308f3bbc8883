package fields

import (
	"github.com/roach88/emit/internal/ir"
)

// Normalize turns declarations into field entries with origin Extra.
//
// Declarations built in code (Bind, Expr, With) bypass the parser, so every
// name and attribute is validated here against the same grammar. Order is
// preserved; duplicate names are left for the resolver to reject.
func Normalize(decls []Decl) ([]ir.FieldEntry, error) {
	entries := make([]ir.FieldEntry, 0, len(decls))
	for _, d := range decls {
		if !ValidName(d.Name) {
			return nil, ir.NewParseError(d.Offset, "invalid field name %q", d.Name)
		}
		for _, tag := range d.Attrs {
			if tag == "" || ScanPath(tag, 0) != len(tag) {
				return nil, ir.NewParseError(d.Offset, "invalid attribute %q on field %q", tag, d.Name)
			}
		}
		entries = append(entries, d.With().Entry(ir.OriginExtra))
	}
	return entries, nil
}

// NormalizeStrings parses then normalizes textual declarations.
func NormalizeStrings(srcs []string) ([]ir.FieldEntry, error) {
	decls, err := ParseDecls(srcs)
	if err != nil {
		return nil, err
	}
	return Normalize(decls)
}
