// Package template tokenizes message templates into literal text and holes.
//
// Holes are written `{name}`, `{name: expr}` or `{#[tag] name}`; `{{` and `}}`
// are literal braces. The hole body uses the field declaration grammar from
// package fields. An inline expression may contain balanced braces and quoted
// strings, so `{m: {a: 1}}` and `{s: "}"}` are single holes.
package template

import (
	"strings"

	"github.com/roach88/emit/internal/fields"
	"github.com/roach88/emit/internal/ir"
)

// Template is a parsed template. It is immutable once parsed.
type Template struct {
	Source string
	Parts  []ir.Part
	Fields []ir.FieldEntry // one per hole, in rendering order, origin Template
}

// HoleNames returns the hole names in rendering order.
func (t *Template) HoleNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// Parse tokenizes src.
func Parse(src string) (*Template, error) {
	t := &Template{Source: src}

	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			t.Parts = append(t.Parts, ir.Text(text.String()))
			text.Reset()
		}
	}

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '{' && i+1 < len(src) && src[i+1] == '{':
			text.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(src) && src[i+1] == '}':
			text.WriteByte('}')
			i += 2
		case c == '}':
			return nil, ir.NewParseError(i, "unmatched '}' in template (use '}}' for a literal brace)")
		case c == '{':
			end, err := holeEnd(src, i)
			if err != nil {
				return nil, err
			}
			body := src[i+1 : end]
			if strings.TrimSpace(body) == "" {
				return nil, ir.NewParseError(i, "empty hole")
			}
			decl, err := fields.ParseDeclAt(body, i+1)
			if err != nil {
				return nil, err
			}
			flush()
			t.Parts = append(t.Parts, ir.Hole(decl.Name))
			t.Fields = append(t.Fields, decl.Entry(ir.OriginTemplate))
			i = end + 1
		default:
			text.WriteByte(c)
			i++
		}
	}
	flush()

	return t, nil
}

// holeEnd returns the index of the '}' closing the hole opened at start.
// Braces nest; quoted strings are skipped with backslash escapes honored.
func holeEnd(src string, start int) (int, error) {
	depth := 0
	for i := start; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		case '"', '\'', '`':
			end := quoteEnd(src, i)
			if end < 0 {
				return 0, ir.NewParseError(i, "unterminated string in hole")
			}
			i = end
		}
	}
	return 0, ir.NewParseError(start, "unclosed hole (use '{{' for a literal brace)")
}

// quoteEnd returns the index of the quote closing the string opened at i, or -1.
func quoteEnd(src string, i int) int {
	q := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			if q != '`' {
				j++
			}
		case q:
			return j
		}
	}
	return -1
}
