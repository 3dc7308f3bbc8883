package sink

import (
	"strings"

	"github.com/roach88/emit/internal/ir"
)

// Render writes the record's template with every hole replaced by its
// captured value.
func Render(rec *ir.Record) string {
	var b strings.Builder
	for _, p := range rec.Parts {
		if !p.IsHole() {
			b.WriteString(p.Text)
			continue
		}
		v, ok := rec.KVs.Get(p.Name)
		if !ok {
			// Unreachable for assembled records.
			b.WriteString("{" + p.Name + "}")
			continue
		}
		b.WriteString(ir.Format(v))
	}
	return b.String()
}
