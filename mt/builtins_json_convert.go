package mt

import (
	"encoding/json"
	"fmt"
	"math"
)

func jsonValueToValue(val any) (Value, error) {
	switch v := val.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(v), nil
	case string:
		return NewString(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return NewInt(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return NewNull(), fmt.Errorf("invalid number %q", v.String())
		}
		return NewFloat(f), nil
	case float64:
		return NewFloat(v), nil
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			converted, err := jsonValueToValue(item)
			if err != nil {
				return NewNull(), err
			}
			items[i] = converted
		}
		return NewList(items), nil
	case map[string]any:
		obj := make(map[string]Value, len(v))
		for key, item := range v {
			converted, err := jsonValueToValue(item)
			if err != nil {
				return NewNull(), err
			}
			obj[key] = converted
		}
		return NewMap(obj), nil
	default:
		return NewNull(), fmt.Errorf("unsupported JSON value type %T", val)
	}
}

// yamlValueToValue converts a document decoded by yaml.v3. Non-string map
// keys are rendered with %v since map keys are always strings here.
func yamlValueToValue(val any) (Value, error) {
	switch v := val.(type) {
	case int:
		return NewInt(int64(v)), nil
	case int64:
		return NewInt(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return NewFloat(float64(v)), nil
		}
		return NewInt(int64(v)), nil
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			converted, err := yamlValueToValue(item)
			if err != nil {
				return NewNull(), err
			}
			items[i] = converted
		}
		return NewList(items), nil
	case map[string]any:
		obj := make(map[string]Value, len(v))
		for key, item := range v {
			converted, err := yamlValueToValue(item)
			if err != nil {
				return NewNull(), err
			}
			obj[key] = converted
		}
		return NewMap(obj), nil
	case map[any]any:
		obj := make(map[string]Value, len(v))
		for key, item := range v {
			converted, err := yamlValueToValue(item)
			if err != nil {
				return NewNull(), err
			}
			obj[fmt.Sprint(key)] = converted
		}
		return NewMap(obj), nil
	default:
		return jsonValueToValue(val)
	}
}

func valueToJSONValue(val Value) (any, error) {
	switch val.tag {
	case TagNull:
		return nil, nil
	case TagBool:
		return val.Bool(), nil
	case TagInt:
		return val.Int(), nil
	case TagFloat:
		f := val.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("cannot encode %s as JSON", formatFloat(f))
		}
		return f, nil
	case TagString:
		return val.Str(), nil
	case TagList:
		items := val.List()
		out := make([]any, len(items))
		for i, item := range items {
			converted, err := valueToJSONValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	case TagMap:
		entries := val.Map()
		out := make(map[string]any, len(entries))
		for key, item := range entries {
			converted, err := valueToJSONValue(item)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot encode %s as JSON", val.tag)
	}
}
