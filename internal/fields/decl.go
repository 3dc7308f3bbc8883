package fields

import (
	"strings"

	"github.com/roach88/emit/internal/ir"
)

// Decl is a parsed field declaration.
type Decl struct {
	Name   string
	Expr   string   // empty for a bare reference
	Attrs  []string // in declaration order, duplicates removed
	Offset int      // byte offset of the declaration in its source
}

// Bind declares a bare reference to the caller's binding name.
func Bind(name string) Decl {
	return Decl{Name: name}
}

// Expr declares name with an explicit value expression.
func Expr(name, expr string) Decl {
	return Decl{Name: name, Expr: expr}
}

// With returns a copy of d carrying the additional attribute tags.
func (d Decl) With(tags ...string) Decl {
	attrs := make([]string, 0, len(d.Attrs)+len(tags))
	attrs = append(attrs, d.Attrs...)
	d.Attrs = appendUnique(attrs, tags...)
	return d
}

// String renders the declaration in its source grammar.
func (d Decl) String() string {
	var b strings.Builder
	if len(d.Attrs) > 0 {
		b.WriteString("#[")
		b.WriteString(strings.Join(d.Attrs, ", "))
		b.WriteString("] ")
	}
	b.WriteString(d.Name)
	if d.Expr != "" {
		b.WriteString(": ")
		b.WriteString(d.Expr)
	}
	return b.String()
}

// Entry converts the declaration into a field entry with the given origin.
func (d Decl) Entry(origin ir.Origin) ir.FieldEntry {
	var attrs []string
	if len(d.Attrs) > 0 {
		attrs = append(attrs, d.Attrs...)
	}
	return ir.FieldEntry{
		Name:   d.Name,
		Expr:   d.Expr,
		Attrs:  attrs,
		Origin: origin,
		Offset: d.Offset,
	}
}

// ParseDecl parses a single declaration.
func ParseDecl(src string) (Decl, error) {
	return ParseDeclAt(src, 0)
}

// ParseDeclAt parses a declaration whose first byte sits at offset base in a
// larger source. Error offsets are reported relative to that source.
func ParseDeclAt(src string, base int) (Decl, error) {
	p := &declParser{src: src, base: base}
	return p.parse()
}

// ParseDecls parses each declaration in order.
func ParseDecls(srcs []string) ([]Decl, error) {
	decls := make([]Decl, 0, len(srcs))
	for _, src := range srcs {
		d, err := ParseDecl(src)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, nil
}

type declParser struct {
	src  string
	pos  int
	base int
}

func (p *declParser) parse() (Decl, error) {
	var d Decl

	p.skipSpace()
	for strings.HasPrefix(p.src[p.pos:], "#[") {
		tags, err := p.parseAttrGroup()
		if err != nil {
			return Decl{}, err
		}
		d.Attrs = appendUnique(d.Attrs, tags...)
		p.skipSpace()
	}

	d.Offset = p.base + p.pos
	end := ScanIdent(p.src, p.pos)
	if end == p.pos {
		if p.pos >= len(p.src) {
			return Decl{}, ir.NewParseError(p.base+p.pos, "expected field name")
		}
		return Decl{}, ir.NewParseError(p.base+p.pos, "invalid field name %q", p.word())
	}
	d.Name = p.src[p.pos:end]
	p.pos = end
	p.skipSpace()

	if p.pos == len(p.src) {
		return d, nil
	}
	if p.src[p.pos] != ':' || strings.HasPrefix(p.src[p.pos:], "::") {
		return Decl{}, ir.NewParseError(p.base+p.pos, "unexpected %q after field name %q", p.word(), d.Name)
	}
	p.pos++

	expr := strings.TrimSpace(p.src[p.pos:])
	if expr == "" {
		return Decl{}, ir.NewParseError(p.base+p.pos, "field %q has an empty value expression", d.Name)
	}
	d.Expr = expr
	return d, nil
}

// parseAttrGroup parses `#[tag, tag2]` starting at the '#'.
func (p *declParser) parseAttrGroup() ([]string, error) {
	open := p.pos
	p.pos += 2

	var tags []string
	for {
		p.skipSpace()
		start := p.pos
		end := ScanPath(p.src, p.pos)
		if end == start {
			return nil, ir.NewParseError(p.base+start, "invalid attribute %q", p.word())
		}
		tags = append(tags, p.src[start:end])
		p.pos = end
		p.skipSpace()

		if p.pos >= len(p.src) {
			return nil, ir.NewParseError(p.base+open, "unterminated attribute group")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return tags, nil
		default:
			return nil, ir.NewParseError(p.base+p.pos, "unexpected %q in attribute group", p.src[p.pos])
		}
	}
}

func (p *declParser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

// word returns the run of non-space characters at the cursor, for messages.
func (p *declParser) word() string {
	end := p.pos
	for end < len(p.src) && !isSpace(p.src[end]) && p.src[end] != ',' && p.src[end] != ']' {
		end++
	}
	return p.src[p.pos:end]
}

func appendUnique(dst []string, tags ...string) []string {
	for _, tag := range tags {
		seen := false
		for _, have := range dst {
			if have == tag {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, tag)
		}
	}
	return dst
}
