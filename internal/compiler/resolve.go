package compiler

import (
	"github.com/roach88/emit/internal/ir"
)

// Resolve merges template hole fields with extra field entries.
//
// Holes are processed in rendering order. A hole whose name matches an extra
// must be bare; the extra then supplies the value and attributes and leaves
// the pool. A hole with an inline expression or its own attributes and a
// matching extra is a ConflictError. A hole without a matching extra must
// define itself with an expression or attributes, unless ambient is set, in
// which case a bare hole binds the caller's value of the same name.
//
// Extras never referenced by a hole are appended in the order supplied.
// Any repeated name, among holes or among extras, is a DuplicateKeyError.
func Resolve(holes, extras []ir.FieldEntry, ambient bool) ([]ir.ResolvedField, error) {
	pool := make(map[string]int, len(extras))
	for i, e := range extras {
		if _, dup := pool[e.Name]; dup {
			return nil, ir.NewDuplicateKeyError(e.Name)
		}
		pool[e.Name] = i
	}

	resolved := make([]ir.ResolvedField, 0, len(holes)+len(extras))
	seen := make(map[string]bool, len(holes)+len(extras))
	push := func(f ir.FieldEntry) error {
		if seen[f.Name] {
			return ir.NewDuplicateKeyError(f.Name)
		}
		seen[f.Name] = true
		resolved = append(resolved, ir.ResolvedField{FieldEntry: f, Position: len(resolved)})
		return nil
	}

	consumed := make([]bool, len(extras))
	for _, hole := range holes {
		if seen[hole.Name] {
			return nil, ir.NewDuplicateKeyError(hole.Name)
		}

		if i, ok := pool[hole.Name]; ok {
			if !hole.Bare() {
				return nil, ir.NewConflictError(hole.Name, hole.Offset)
			}
			consumed[i] = true
			if err := push(extras[i]); err != nil {
				return nil, err
			}
			continue
		}

		if hole.Bare() && !ambient {
			return nil, ir.NewUnresolvedHoleError(hole.Name, hole.Offset)
		}
		if err := push(hole); err != nil {
			return nil, err
		}
	}

	for i, e := range extras {
		if consumed[i] {
			continue
		}
		if err := push(e); err != nil {
			return nil, err
		}
	}

	return resolved, nil
}
