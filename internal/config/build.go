package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/roach88/emit/internal/engine"
	"github.com/roach88/emit/internal/sink"
	"github.com/roach88/emit/internal/store"
)

// Build opens every configured sink and returns a router over them.
//
// Each sink is routed under its own name; the default sink is the router's
// fallback. Async sinks are drained by goroutines bound to ctx. Closing the
// returned io.Closer drains async queues, then closes sinks in reverse order.
// On error every sink opened so far is closed.
func Build(ctx context.Context, cfg *Config) (*sink.Router, io.Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	router := sink.NewRouter(nil)
	var c closers

	for _, sc := range cfg.Sinks {
		s, closeFn, err := open(ctx, sc)
		if err != nil {
			_ = c.Close()
			return nil, nil, fmt.Errorf("sink %s: %w", sc.Name, err)
		}
		c.add(closeFn)

		if sc.Async > 0 {
			s, closeFn = startAsync(ctx, s, sc.Async)
			c.add(closeFn)
		}

		router.Route(sc.Name, s)
		if sc.Name == cfg.DefaultName() {
			router.SetFallback(s)
		}
		slog.Debug("sink opened", "name", sc.Name, "kind", sc.Kind, "path", sc.Path, "async", sc.Async)
	}

	return router, &c, nil
}

func open(ctx context.Context, sc SinkConfig) (engine.Sink, func() error, error) {
	switch sc.Kind {
	case KindSlog:
		return openSlog(sc)
	case KindSQLite:
		return openSQLite(ctx, sc)
	case KindWire:
		return openWire(sc)
	default:
		return nil, nil, fmt.Errorf("unknown kind %q", sc.Kind)
	}
}

func openSlog(sc SinkConfig) (engine.Sink, func() error, error) {
	w, closeFn, err := openOutput(sc.Path, os.Stderr)
	if err != nil {
		return nil, nil, err
	}

	// Records carry their own level; the handler lets every level through.
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	var handler slog.Handler
	if sc.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	level, _ := sink.ParseLevel(sc.Level)
	return sink.NewSlog(slog.New(handler), level), closeFn, nil
}

func openSQLite(ctx context.Context, sc SinkConfig) (engine.Sink, func() error, error) {
	st, err := store.Open(sc.Path)
	if err != nil {
		return nil, nil, err
	}
	s, err := store.NewSink(ctx, st, nil)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return s, func() error { return errors.Join(s.Err(), s.Close()) }, nil
}

func openWire(sc SinkConfig) (engine.Sink, func() error, error) {
	codec, err := sink.ParseCodec(sc.Codec)
	if err != nil {
		return nil, nil, err
	}
	compression, err := sink.ParseCompression(sc.Compress)
	if err != nil {
		return nil, nil, err
	}

	// Wire.Close closes the writer itself when it is a file.
	w, _, err := openOutput(sc.Path, os.Stdout)
	if err != nil {
		return nil, nil, err
	}
	s := sink.NewWire(w, sink.WireOptions{Codec: codec, Compression: compression})
	return s, func() error { return errors.Join(s.Err(), s.Close()) }, nil
}

// openOutput opens path for appending. Empty or "-" selects std, wrapped
// so it is never closed.
func openOutput(path string, std *os.File) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return struct{ io.Writer }{std}, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open output: %w", err)
	}
	return f, f.Close, nil
}

// startAsync wraps s in an AsyncSink drained by a goroutine. The returned
// close function stops intake and waits for the queue to drain.
func startAsync(ctx context.Context, s engine.Sink, maxPending int) (engine.Sink, func() error) {
	async := engine.NewAsyncSink(s, maxPending)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := async.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("async sink stopped", "error", err)
		}
	}()

	return async, func() error {
		err := async.Close()
		wg.Wait()
		if n := async.Dropped(); n > 0 {
			slog.Warn("async sink dropped records", "dropped", n)
		}
		return err
	}
}

// closers runs close functions in reverse order of registration.
type closers struct {
	fns []func() error
}

func (c *closers) add(fn func() error) {
	c.fns = append(c.fns, fn)
}

// Close implements io.Closer. Safe to call more than once.
func (c *closers) Close() error {
	var errs []error
	for i := len(c.fns) - 1; i >= 0; i-- {
		if err := c.fns[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.fns = nil
	return errors.Join(errs...)
}
