package capture

import (
	"sort"
)

// Scope exposes the caller's bindings at an emission site.
type Scope interface {
	// Lookup returns the value bound to name.
	Lookup(name string) (any, bool)

	// Names returns every bound name in ascending order.
	Names() []string
}

// Vars is a map-backed Scope.
type Vars map[string]any

// Lookup implements Scope.
func (v Vars) Lookup(name string) (any, bool) {
	val, ok := v[name]
	return val, ok
}

// Names implements Scope.
func (v Vars) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Layered returns a Scope that consults each scope in order and returns the
// first binding found. Earlier scopes shadow later ones.
func Layered(scopes ...Scope) Scope {
	return layered(scopes)
}

type layered []Scope

func (l layered) Lookup(name string) (any, bool) {
	for _, s := range l {
		if s == nil {
			continue
		}
		if v, ok := s.Lookup(name); ok {
			return v, true
		}
	}
	return nil, false
}

func (l layered) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range l {
		if s == nil {
			continue
		}
		for _, name := range s.Names() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
