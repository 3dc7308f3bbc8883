package ir

import (
	"fmt"
	"slices"
	"sort"
)

// PartKind distinguishes literal text from named holes.
type PartKind uint8

const (
	// PartText is a run of literal template text.
	PartText PartKind = iota
	// PartHole is a named placeholder filled from a field.
	PartHole
)

// String returns the kind name used in JSON output.
func (k PartKind) String() string {
	switch k {
	case PartText:
		return "text"
	case PartHole:
		return "hole"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Part is one element of a parsed template.
// Exactly one of Text or Name is meaningful, selected by Kind.
type Part struct {
	Kind PartKind `json:"kind"`
	Text string   `json:"text,omitempty"`
	Name string   `json:"name,omitempty"`
}

// Text creates a literal text part.
func Text(s string) Part {
	return Part{Kind: PartText, Text: s}
}

// Hole creates a hole part referencing the field name.
func Hole(name string) Part {
	return Part{Kind: PartHole, Name: name}
}

// IsHole reports whether the part is a hole.
func (p Part) IsHole() bool {
	return p.Kind == PartHole
}

// Origin records where a field entry was declared.
type Origin uint8

const (
	// OriginTemplate marks a field declared inside a template hole.
	OriginTemplate Origin = iota
	// OriginExtra marks a field passed alongside the template.
	OriginExtra
)

// String returns "template" or "extra".
func (o Origin) String() string {
	if o == OriginTemplate {
		return "template"
	}
	return "extra"
}

// MarshalText implements encoding.TextMarshaler so origins read well in JSON.
func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// FieldEntry is a named value binding.
//
// Expr is the opaque value producer text. An empty Expr is a bare reference:
// the value is the caller's binding with the same name. Attrs is an ordered,
// duplicate-free set of attribute tags; the core stores them verbatim.
type FieldEntry struct {
	Name   string   `json:"name"`
	Expr   string   `json:"expr,omitempty"`
	Attrs  []string `json:"attrs,omitempty"`
	Origin Origin   `json:"origin"`
	Offset int      `json:"-"` // byte offset of the declaration in its source, for errors
}

// Bare reports whether the entry is a plain reference with no expression and
// no attributes of its own.
func (f FieldEntry) Bare() bool {
	return f.Expr == "" && len(f.Attrs) == 0
}

// HasAttr reports whether the entry carries the attribute tag.
func (f FieldEntry) HasAttr(tag string) bool {
	return slices.Contains(f.Attrs, tag)
}

// ResolvedField is a field entry after merge, tagged with its rendering position.
type ResolvedField struct {
	FieldEntry
	Position int `json:"position"`
}

// SortedKeyValues holds resolved fields ordered by name ascending.
// Names are unique; Find relies on that for binary search.
type SortedKeyValues []ResolvedField

// Names returns the field names in sorted order.
func (s SortedKeyValues) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Find returns the sorted index of name, or -1.
func (s SortedKeyValues) Find(name string) int {
	i := sort.Search(len(s), func(i int) bool { return s[i].Name >= name })
	if i < len(s) && s[i].Name == name {
		return i
	}
	return -1
}

// Plan is the value-free output of compilation: everything about an
// emission site that can be decided before any host value is read.
type Plan struct {
	Template string          `json:"template"`
	Target   string          `json:"target,omitempty"` // empty routes to the default sink
	Parts    []Part          `json:"parts"`
	Fields   []ResolvedField `json:"fields"` // rendering order
	Sorted   SortedKeyValues `json:"sorted"`
	Index    []int           `json:"index"` // Index[renderingPos] = sortedPos
}

// KeyValue is a captured field value.
type KeyValue struct {
	Name  string   `json:"name"`
	Value Value    `json:"value"`
	Attrs []string `json:"attrs,omitempty"`
}

// KeyValues is a name-sorted, unique list of captured values.
type KeyValues []KeyValue

// Get looks up a value by name using binary search.
func (kvs KeyValues) Get(name string) (Value, bool) {
	i := sort.Search(len(kvs), func(i int) bool { return kvs[i].Name >= name })
	if i < len(kvs) && kvs[i].Name == name {
		return kvs[i].Value, true
	}
	return nil, false
}

// Names returns the names in sorted order.
func (kvs KeyValues) Names() []string {
	names := make([]string, len(kvs))
	for i, kv := range kvs {
		names[i] = kv.Name
	}
	return names
}

// Values returns the values aligned with Names.
func (kvs KeyValues) Values() []Value {
	values := make([]Value, len(kvs))
	for i, kv := range kvs {
		values[i] = kv.Value
	}
	return values
}

// Map returns the key-values as a Map value.
func (kvs KeyValues) Map() Map {
	m := make(Map, len(kvs))
	for _, kv := range kvs {
		m[kv.Name] = kv.Value
	}
	return m
}

// Record is the immutable result of one emission: rendering-ordered template
// parts paired with sorted, unique key-values.
type Record struct {
	Template string    `json:"template"`
	Parts    []Part    `json:"parts"`
	KVs      KeyValues `json:"kvs"`
	Index    []int     `json:"index"` // Index[renderingPos] = sortedPos
}

// At returns the key-value for rendering position pos.
func (r *Record) At(pos int) KeyValue {
	return r.KVs[r.Index[pos]]
}

// Len returns the number of key-values in the record.
func (r *Record) Len() int {
	return len(r.KVs)
}
