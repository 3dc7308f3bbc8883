package store

import (
	"fmt"

	"github.com/roach88/emit/internal/ir"
)

// marshalParts converts template parts to canonical JSON TEXT.
func marshalParts(parts []ir.Part) (string, error) {
	data, err := ir.MarshalCanonical(ir.PartsValue(parts))
	if err != nil {
		return "", fmt.Errorf("marshal parts: %w", err)
	}
	return string(data), nil
}

// marshalKVs converts key-values to canonical JSON TEXT.
// Each entry is {"name", "value"} plus "attrs" when the field has any.
func marshalKVs(kvs ir.KeyValues) (string, error) {
	list := make(ir.List, len(kvs))
	for i, kv := range kvs {
		entry := ir.Map{"name": ir.String(kv.Name), "value": kv.Value}
		if len(kv.Attrs) > 0 {
			attrs := make(ir.List, len(kv.Attrs))
			for j, a := range kv.Attrs {
				attrs[j] = ir.String(a)
			}
			entry["attrs"] = attrs
		}
		list[i] = entry
	}
	data, err := ir.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal kvs: %w", err)
	}
	return string(data), nil
}

// marshalIndex converts the rendering index to canonical JSON TEXT.
func marshalIndex(index []int) (string, error) {
	list := make(ir.List, len(index))
	for i, s := range index {
		list[i] = ir.Int(s)
	}
	data, err := ir.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal index: %w", err)
	}
	return string(data), nil
}

// unmarshalParts parses canonical JSON TEXT to template parts.
func unmarshalParts(data string) ([]ir.Part, error) {
	v, err := ir.UnmarshalValue([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal parts: %w", err)
	}
	parts, err := ir.PartsFromValue(v)
	if err != nil {
		return nil, fmt.Errorf("unmarshal parts: %w", err)
	}
	return parts, nil
}

// unmarshalKVs parses canonical JSON TEXT to key-values.
// Uses ir.UnmarshalValue so large integers keep full precision.
func unmarshalKVs(data string) (ir.KeyValues, error) {
	v, err := ir.UnmarshalValue([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal kvs: %w", err)
	}
	list, ok := v.(ir.List)
	if !ok {
		return nil, fmt.Errorf("unmarshal kvs: expected list, got %T", v)
	}

	kvs := make(ir.KeyValues, len(list))
	for i, item := range list {
		entry, ok := item.(ir.Map)
		if !ok {
			return nil, fmt.Errorf("unmarshal kvs[%d]: expected map, got %T", i, item)
		}
		name, ok := entry["name"].(ir.String)
		if !ok {
			return nil, fmt.Errorf("unmarshal kvs[%d]: missing name", i)
		}
		value, ok := entry["value"]
		if !ok {
			return nil, fmt.Errorf("unmarshal kvs[%d]: missing value", i)
		}
		kv := ir.KeyValue{Name: string(name), Value: value}
		if attrs, ok := entry["attrs"].(ir.List); ok {
			for _, a := range attrs {
				s, ok := a.(ir.String)
				if !ok {
					return nil, fmt.Errorf("unmarshal kvs[%d]: attribute is %T", i, a)
				}
				kv.Attrs = append(kv.Attrs, string(s))
			}
		}
		kvs[i] = kv
	}
	return kvs, nil
}

// unmarshalIndex parses canonical JSON TEXT to the rendering index.
func unmarshalIndex(data string) ([]int, error) {
	v, err := ir.UnmarshalValue([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal index: %w", err)
	}
	list, ok := v.(ir.List)
	if !ok {
		return nil, fmt.Errorf("unmarshal index: expected list, got %T", v)
	}
	index := make([]int, len(list))
	for i, item := range list {
		n, ok := item.(ir.Int)
		if !ok {
			return nil, fmt.Errorf("unmarshal index[%d]: expected integer, got %T", i, item)
		}
		index[i] = int(n)
	}
	return index, nil
}
