package engine

import (
	"log/slog"

	"github.com/roach88/emit/internal/capture"
	"github.com/roach88/emit/internal/compiler"
	"github.com/roach88/emit/internal/fields"
	"github.com/roach88/emit/internal/ir"
)

// Emitter runs the compile, execute and dispatch steps for emission sites.
//
// Thread-safety: Emit is safe for concurrent use.
type Emitter struct {
	cache    *compiler.Cache
	capturer capture.Capturer
	registry *Registry
	ambient  bool
}

// EmitterOption configures an Emitter.
type EmitterOption func(*Emitter)

// WithRegistry dispatches to reg instead of Default.
func WithRegistry(reg *Registry) EmitterOption {
	return func(e *Emitter) {
		e.registry = reg
	}
}

// WithEvaluator evaluates inline expressions with ev instead of CUE.
func WithEvaluator(ev capture.Evaluator) EmitterOption {
	return func(e *Emitter) {
		e.capturer.Eval = ev
	}
}

// WithCache shares a plan cache between emitters.
func WithCache(c *compiler.Cache) EmitterOption {
	return func(e *Emitter) {
		e.cache = c
	}
}

// WithAmbient lets bare holes read the caller's scope without an extra field.
func WithAmbient(ambient bool) EmitterOption {
	return func(e *Emitter) {
		e.ambient = ambient
	}
}

// NewEmitter creates an Emitter. Without options it dispatches to Default,
// evaluates expressions as CUE and caches up to compiler.DefaultCacheSize
// plans.
func NewEmitter(opts ...EmitterOption) *Emitter {
	e := &Emitter{registry: Default}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = compiler.NewCache(0)
	}
	return e
}

// Emit builds a record from template, extra field declarations and scope,
// then dispatches it. On error nothing is dispatched.
func (e *Emitter) Emit(template string, decls []string, scope capture.Scope) (*ir.Record, error) {
	plan, err := e.Compile(template, decls, "")
	if err != nil {
		return nil, err
	}
	return e.EmitPlan(plan, scope)
}

// EmitTo is Emit with an explicit target.
func (e *Emitter) EmitTo(target, template string, decls []string, scope capture.Scope) (*ir.Record, error) {
	plan, err := e.Compile(template, decls, target)
	if err != nil {
		return nil, err
	}
	return e.EmitPlan(plan, scope)
}

// EmitDecls is Emit with structured declarations. It bypasses the plan cache.
func (e *Emitter) EmitDecls(template string, decls []fields.Decl, scope capture.Scope) (*ir.Record, error) {
	plan, err := compiler.Compile(template, decls, compiler.Options{Ambient: e.ambient})
	if err != nil {
		slog.Debug("emit compile failed", "template", template, "error", err)
		return nil, err
	}
	return e.EmitPlan(plan, scope)
}

// Compile returns the cached plan for an emission site.
func (e *Emitter) Compile(template string, decls []string, target string) (*ir.Plan, error) {
	plan, err := e.cache.Compile(template, decls, compiler.Options{Target: target, Ambient: e.ambient})
	if err != nil {
		slog.Debug("emit compile failed", "template", template, "error", err)
		return nil, err
	}
	return plan, nil
}

// EmitPlan executes a compiled plan against scope and dispatches the record.
func (e *Emitter) EmitPlan(plan *ir.Plan, scope capture.Scope) (*ir.Record, error) {
	rec, err := Execute(plan, scope, e.capturer)
	if err != nil {
		slog.Debug("emit capture failed", "template", plan.Template, "error", err)
		return nil, err
	}

	Dispatch(e.registry, plan.Target, rec)
	slog.Debug("record emitted",
		"template", plan.Template,
		"target", plan.Target,
		"fields", rec.Len(),
	)
	return rec, nil
}

// Registry returns the registry the emitter dispatches to.
func (e *Emitter) Registry() *Registry {
	return e.registry
}

// CacheStats returns plan cache hits and misses.
func (e *Emitter) CacheStats() (hits, misses int64) {
	return e.cache.Stats()
}
