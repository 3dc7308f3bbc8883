package engine

import (
	"fmt"

	"github.com/roach88/emit/internal/ir"
)

// Assemble packages parts, sorted key-values and the rendering index into a
// record. The inputs are retained, not copied.
//
// A length mismatch or an index that is not a permutation of the key-value
// positions means an earlier stage is broken, so Assemble panics.
func Assemble(template string, parts []ir.Part, kvs ir.KeyValues, index []int) *ir.Record {
	if len(kvs) != len(index) {
		panic(fmt.Sprintf("engine: assemble: %d key-values but index has %d entries", len(kvs), len(index)))
	}
	seen := make([]bool, len(index))
	for r, s := range index {
		if s < 0 || s >= len(kvs) || seen[s] {
			panic(fmt.Sprintf("engine: assemble: index[%d] = %d is not a permutation", r, s))
		}
		seen[s] = true
	}
	for i := 1; i < len(kvs); i++ {
		if kvs[i-1].Name >= kvs[i].Name {
			panic(fmt.Sprintf("engine: assemble: key-values not sorted at %q", kvs[i].Name))
		}
	}

	return &ir.Record{
		Template: template,
		Parts:    parts,
		KVs:      kvs,
		Index:    index,
	}
}
