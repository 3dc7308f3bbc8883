package compiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/emit/internal/ir"
)

// SortKeys orders resolved fields by name and builds the index map from
// rendering position to sorted position.
//
// The sort is stable and depends only on the name set. Uniqueness was
// established by Resolve; it is asserted again here since Find relies on it.
func SortKeys(fields []ir.ResolvedField) (ir.SortedKeyValues, []int, error) {
	sorted := make(ir.SortedKeyValues, len(fields))
	copy(sorted, fields)
	slices.SortStableFunc(sorted, func(a, b ir.ResolvedField) int {
		return strings.Compare(a.Name, b.Name)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Name == sorted[i-1].Name {
			return nil, nil, ir.NewDuplicateKeyError(sorted[i].Name)
		}
	}

	index := make([]int, len(sorted))
	filled := make([]bool, len(sorted))
	for s, f := range sorted {
		if f.Position < 0 || f.Position >= len(sorted) || filled[f.Position] {
			// Positions come from Resolve; a gap or repeat is a pipeline defect.
			panic(fmt.Sprintf("compiler: invalid rendering position %d for field %q", f.Position, f.Name))
		}
		filled[f.Position] = true
		index[f.Position] = s
	}

	return sorted, index, nil
}
