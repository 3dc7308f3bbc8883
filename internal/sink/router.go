package sink

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/roach88/emit/internal/engine"
	"github.com/roach88/emit/internal/ir"
)

// Router sends each record to the sink registered for its target.
//
// Records without a target, or with a target that has no route, go to the
// fallback sink. A nil fallback drops them.
//
// Thread-safety: all methods are safe for concurrent use.
type Router struct {
	mu       sync.RWMutex
	routes   map[string]engine.Sink
	fallback engine.Sink
}

// NewRouter creates a router with the given fallback sink.
func NewRouter(fallback engine.Sink) *Router {
	return &Router{routes: make(map[string]engine.Sink), fallback: fallback}
}

// Route registers s for target, replacing any earlier route.
func (r *Router) Route(target string, s engine.Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[target] = s
}

// SetFallback replaces the fallback sink.
func (r *Router) SetFallback(s engine.Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = s
}

// Targets returns the routed target names in ascending order.
func (r *Router) Targets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the sink a record with target would reach.
func (r *Router) Lookup(target *string) engine.Sink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target != nil {
		if s, ok := r.routes[*target]; ok {
			return s
		}
		slog.Debug("no route for target, using fallback", "target", *target)
	}
	return r.fallback
}

// Emit implements engine.Sink.
func (r *Router) Emit(target *string, names []string, values []ir.Value, rec *ir.Record) {
	s := r.Lookup(target)
	if s == nil {
		return
	}
	s.Emit(target, names, values, rec)
}
