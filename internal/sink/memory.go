package sink

import (
	"sync"

	"github.com/roach88/emit/internal/engine"
	"github.com/roach88/emit/internal/ir"
)

// Memory records every emission. Used by tests and the scenario harness.
//
// Thread-safety: all methods are safe for concurrent use.
type Memory struct {
	mu        sync.Mutex
	emissions []engine.Emission
}

// NewMemory creates an empty Memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Emit implements engine.Sink.
func (m *Memory) Emit(target *string, names []string, values []ir.Value, rec *ir.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emissions = append(m.emissions, engine.Emission{
		Target: target,
		Names:  names,
		Values: values,
		Record: rec,
	})
}

// Emissions returns a copy of everything received, in arrival order.
func (m *Memory) Emissions() []engine.Emission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]engine.Emission(nil), m.emissions...)
}

// Records returns the received records in arrival order.
func (m *Memory) Records() []*ir.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := make([]*ir.Record, len(m.emissions))
	for i, e := range m.emissions {
		recs[i] = e.Record
	}
	return recs
}

// Len returns the number of emissions received.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.emissions)
}

// Reset discards everything received.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emissions = nil
}
