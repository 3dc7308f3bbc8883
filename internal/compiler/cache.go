package compiler

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/roach88/emit/internal/ir"
)

// DefaultCacheSize bounds the number of plans a Cache keeps.
const DefaultCacheSize = 1024

// Cache memoizes compiled plans per emission site.
//
// A plan depends only on the template, the declarations and the options, so
// the compiled form can be reused by every later call with the same inputs.
// Errors are not cached. Cached plans are shared and must be treated as
// read-only.
//
// Thread-safety: all methods are safe for concurrent use.
type Cache struct {
	mu    sync.RWMutex
	plans map[string]*ir.Plan
	max   int

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache creates a cache holding up to max plans.
// A non-positive max uses DefaultCacheSize.
func NewCache(max int) *Cache {
	if max <= 0 {
		max = DefaultCacheSize
	}
	return &Cache{plans: make(map[string]*ir.Plan), max: max}
}

// Compile returns the cached plan for the inputs, compiling on a miss.
func (c *Cache) Compile(src string, decls []string, opts Options) (*ir.Plan, error) {
	key := ir.PlanKey(src, decls) + "/" + opts.Target + "/" + strconv.FormatBool(opts.Ambient)

	c.mu.RLock()
	plan, ok := c.plans[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return plan, nil
	}

	plan, err := CompileStrings(src, decls, opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.misses.Add(1)
	if existing, ok := c.plans[key]; ok {
		return existing, nil
	}
	if len(c.plans) >= c.max {
		// Emission sites are a fixed set in practice; a full cache means
		// templates are being built dynamically, so start over.
		c.plans = make(map[string]*ir.Plan)
	}
	c.plans[key] = plan
	return plan, nil
}

// Len returns the number of cached plans.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.plans)
}

// Stats returns the hit and miss counts.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
