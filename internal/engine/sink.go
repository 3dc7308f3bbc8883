package engine

import (
	"sync/atomic"

	"github.com/roach88/emit/internal/ir"
)

// Sink receives completed records.
//
// target is nil when the emission named no target. names and values are the
// record's key-values in sorted order. Sinks must not modify the record.
// Emit has no error result: a sink that can fail reports the failure itself.
type Sink interface {
	Emit(target *string, names []string, values []ir.Value, rec *ir.Record)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(target *string, names []string, values []ir.Value, rec *ir.Record)

// Emit implements Sink.
func (f SinkFunc) Emit(target *string, names []string, values []ir.Value, rec *ir.Record) {
	f(target, names, values, rec)
}

// Discard is a Sink that drops every record.
var Discard Sink = SinkFunc(func(*string, []string, []ir.Value, *ir.Record) {})

// Registry is a process-wide slot holding the current default sink.
//
// An empty registry behaves as Discard. Install and Uninstall may race with
// emissions; each emission sees either the old or the new sink.
//
// Thread-safety: all methods are safe for concurrent use.
type Registry struct {
	slot atomic.Pointer[sinkBox]
}

// sinkBox lets atomic.Pointer hold an interface value.
type sinkBox struct {
	sink Sink
}

// Default is the registry used by emitters that are not given their own.
var Default = &Registry{}

// Install replaces the current sink and returns the previous one (nil if
// the slot was empty). Installing nil empties the slot.
func (r *Registry) Install(s Sink) Sink {
	var box *sinkBox
	if s != nil {
		box = &sinkBox{sink: s}
	}
	return unbox(r.slot.Swap(box))
}

// Uninstall empties the slot and returns the sink that was installed.
func (r *Registry) Uninstall() Sink {
	return unbox(r.slot.Swap(nil))
}

// Current returns the installed sink, or Discard when the slot is empty.
func (r *Registry) Current() Sink {
	if s := unbox(r.slot.Load()); s != nil {
		return s
	}
	return Discard
}

// Installed reports whether a sink is installed.
func (r *Registry) Installed() bool {
	return r.slot.Load() != nil
}

func unbox(b *sinkBox) Sink {
	if b == nil {
		return nil
	}
	return b.sink
}

// Dispatch hands rec to the registry's current sink.
//
// An empty target is passed to the sink as nil. Dispatch is only called with
// records that were fully built; a failed emission never reaches it.
func Dispatch(reg *Registry, target string, rec *ir.Record) {
	var t *string
	if target != "" {
		t = &target
	}
	reg.Current().Emit(t, rec.KVs.Names(), rec.KVs.Values(), rec)
}
