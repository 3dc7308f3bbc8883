package engine

import (
	"context"
	"log/slog"

	"github.com/roach88/emit/internal/ir"
)

// AsyncSink delivers emissions to an inner sink from a single goroutine.
//
// Emit only enqueues, so emitting goroutines never wait on the inner sink.
// Run drains the queue in FIFO order, which keeps delivery in emission order.
//
// Thread-safety model:
//   - Emit: safe from any goroutine
//   - Run: must be called from exactly one goroutine
type AsyncSink struct {
	inner Sink
	queue *emissionQueue
}

// NewAsyncSink wraps inner. maxPending bounds the queue; zero means
// unbounded. Emissions beyond the bound, or after Close, are dropped and
// counted.
func NewAsyncSink(inner Sink, maxPending int) *AsyncSink {
	return &AsyncSink{inner: inner, queue: newEmissionQueue(maxPending)}
}

// Emit implements Sink by enqueueing the emission.
func (a *AsyncSink) Emit(target *string, names []string, values []ir.Value, rec *ir.Record) {
	if !a.queue.Enqueue(Emission{Target: target, Names: names, Values: values, Record: rec}) {
		slog.Warn("emission dropped",
			"template", rec.Template,
			"pending", a.queue.Len(),
			"dropped", a.queue.Dropped(),
		)
	}
}

// Run delivers emissions until ctx is cancelled or Close is called.
// After Close, Run delivers what is still queued and returns nil.
func (a *AsyncSink) Run(ctx context.Context) error {
	slog.Debug("async sink starting")

	for {
		if e, ok := a.queue.TryDequeue(); ok {
			a.inner.Emit(e.Target, e.Names, e.Values, e.Record)
			continue
		}

		select {
		case <-ctx.Done():
			slog.Debug("async sink stopping: context cancelled", "pending", a.queue.Len())
			a.queue.Close()
			return ctx.Err()

		case <-a.queue.Wait():
			// The signal channel closes with the queue, so a closed and
			// drained queue ends the loop here.
			if a.closedAndEmpty() {
				slog.Debug("async sink stopping: queue closed")
				return nil
			}
		}
	}
}

func (a *AsyncSink) closedAndEmpty() bool {
	a.queue.mu.Lock()
	defer a.queue.mu.Unlock()
	return a.queue.closed && len(a.queue.items) == 0
}

// Close stops accepting emissions. Run returns once the queue drains.
func (a *AsyncSink) Close() error {
	a.queue.Close()
	return nil
}

// Pending returns the number of queued emissions.
func (a *AsyncSink) Pending() int {
	return a.queue.Len()
}

// Dropped returns the number of emissions refused by a full or closed queue.
func (a *AsyncSink) Dropped() int64 {
	return a.queue.Dropped()
}
