package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates emission IDs "prefix-1", "prefix-2", ... for tests.
//
// Unlike engine.FixedGenerator it never runs out, and it can be reset so the
// same scenario produces the same IDs on every run.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int64
}

// NewSequentialIDs creates a generator. An empty prefix uses "em".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "em"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next ID. Implements engine.IDGenerator.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Issued returns how many IDs have been generated since the last Reset.
func (g *SequentialIDs) Issued() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

// Reset restarts the sequence. The next ID is "prefix-1".
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
