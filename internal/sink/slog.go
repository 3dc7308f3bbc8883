package sink

import (
	"context"
	"log/slog"
	"strings"

	"github.com/roach88/emit/internal/ir"
)

// LevelField is the field name Slog reads the record level from.
const LevelField = "level"

// Slog forwards records to a *slog.Logger.
//
// The message is the rendered template. Every key-value becomes an attribute
// in sorted name order; maps become groups. A string field named level
// (debug, info, warn, error) sets the log level instead of becoming an
// attribute. Without one the sink's own level applies.
type Slog struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlog creates a Slog sink. A nil logger uses slog.Default().
func NewSlog(logger *slog.Logger, level slog.Level) *Slog {
	return &Slog{logger: logger, level: level}
}

// Emit implements engine.Sink.
func (s *Slog) Emit(target *string, names []string, values []ir.Value, rec *ir.Record) {
	logger := s.logger
	if logger == nil {
		logger = slog.Default()
	}

	level := s.level
	attrs := make([]slog.Attr, 0, len(names)+1)
	if target != nil {
		attrs = append(attrs, slog.String("target", *target))
	}
	for i, name := range names {
		if name == LevelField {
			if str, ok := values[i].(ir.String); ok {
				if l, ok := parseLevel(string(str)); ok {
					level = l
					continue
				}
			}
		}
		attrs = append(attrs, slog.Attr{Key: name, Value: slogValue(values[i])})
	}

	ctx := context.Background()
	if !logger.Enabled(ctx, level) {
		return
	}
	logger.LogAttrs(ctx, level, Render(rec), attrs...)
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug", "trace":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, bool) {
	if s == "" {
		return slog.LevelInfo, true
	}
	return parseLevel(s)
}

func slogValue(v ir.Value) slog.Value {
	switch val := v.(type) {
	case ir.String:
		return slog.StringValue(string(val))
	case ir.Int:
		return slog.Int64Value(int64(val))
	case ir.Bool:
		return slog.BoolValue(bool(val))
	case ir.Map:
		attrs := make([]slog.Attr, 0, len(val))
		for _, k := range val.SortedKeys() {
			attrs = append(attrs, slog.Attr{Key: k, Value: slogValue(val[k])})
		}
		return slog.GroupValue(attrs...)
	case ir.List:
		return slog.StringValue(ir.Format(val))
	default:
		return slog.AnyValue(nil)
	}
}
