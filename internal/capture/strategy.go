package capture

import (
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/fxamacker/cbor/v2"

	"github.com/roach88/emit/internal/ir"
)

// Strategy turns a raw host value into a captured value.
type Strategy interface {
	// Name is the canonical strategy name.
	Name() string

	// Capture converts raw. Errors describe why raw cannot be captured.
	Capture(raw any) (ir.Value, error)
}

// Plain captures values that already have a structural form.
type Plain struct{}

// Name implements Strategy.
func (Plain) Name() string { return "plain" }

// Capture implements Strategy.
func (Plain) Capture(raw any) (ir.Value, error) {
	return FromGo(raw)
}

// Debug captures any value as its %+v rendering.
type Debug struct{}

// Name implements Strategy.
func (Debug) Name() string { return "debug" }

// Capture implements Strategy.
func (Debug) Capture(raw any) (ir.Value, error) {
	if v, ok := raw.(ir.Value); ok {
		return ir.String(ir.Format(v)), nil
	}
	return ir.String(fmt.Sprintf("%+v", raw)), nil
}

// Serialize captures any CBOR-encodable value by encoding it with Core
// Deterministic Encoding and decoding the result back into a structural value.
// Struct fields follow `cbor` then `json` tags; encoding.TextMarshaler types
// become text.
type Serialize struct{}

// Name implements Strategy.
func (Serialize) Name() string { return "serialize" }

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("capture: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("capture: CBOR decoder initialization failed: " + err.Error())
	}
}

// Capture implements Strategy.
func (Serialize) Capture(raw any) (ir.Value, error) {
	if v, ok := raw.(ir.Value); ok {
		return v, nil
	}

	data, err := encMode.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("serialize %T: %w", raw, err)
	}
	var decoded any
	if err := decMode.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("serialize %T: %w", raw, err)
	}
	return fromCBOR(decoded)
}

func fromCBOR(v any) (ir.Value, error) {
	switch val := v.(type) {
	case nil:
		return ir.Null{}, nil
	case bool:
		return ir.Bool(val), nil
	case string:
		return ir.String(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", val)
		}
		return ir.Int(int64(val)), nil
	case int64:
		return ir.Int(val), nil
	case float64:
		return fromFloat(val), nil
	case []byte:
		return ir.String(base64.StdEncoding.EncodeToString(val)), nil
	case []any:
		list := make(ir.List, len(val))
		for i, item := range val {
			conv, err := fromCBOR(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = conv
		}
		return list, nil
	case map[string]any:
		m := make(ir.Map, len(val))
		for k, item := range val {
			conv, err := fromCBOR(item)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			m[k] = conv
		}
		return m, nil
	case cbor.Tag:
		return fromCBOR(val.Content)
	default:
		return nil, fmt.Errorf("unsupported CBOR item %T", v)
	}
}

// fromFloat keeps whole numbers exact and renders the rest as decimal text.
func fromFloat(f float64) ir.Value {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return ir.Int(int64(f))
	}
	return ir.String(strconv.FormatFloat(f, 'g', -1, 64))
}

// Attribute tags that select a strategy. Any other tag is carried verbatim.
var strategyTags = map[string]Strategy{
	"plain":       Plain{},
	"display":     Plain{},
	"debug":       Debug{},
	"as_debug":    Debug{},
	"with_debug":  Debug{},
	"serialize":   Serialize{},
	"serde":       Serialize{},
	"emit::serde": Serialize{},
	"sval":        Serialize{},
	"as_sval":     Serialize{},
}

// IsStrategyTag reports whether tag selects a capture strategy.
func IsStrategyTag(tag string) bool {
	_, ok := strategyTags[tag]
	return ok
}

// Select picks the strategy named by attrs, defaulting to Plain.
// Tags naming two different strategies are an error.
func Select(attrs []string) (Strategy, error) {
	var chosen Strategy
	var chosenTag string
	for _, tag := range attrs {
		s, ok := strategyTags[tag]
		if !ok {
			continue
		}
		if chosen != nil && chosen.Name() != s.Name() {
			return nil, fmt.Errorf("attributes %q and %q select different capture strategies", chosenTag, tag)
		}
		chosen, chosenTag = s, tag
	}
	if chosen == nil {
		return Plain{}, nil
	}
	return chosen, nil
}
