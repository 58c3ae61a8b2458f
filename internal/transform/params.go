package transform

import (
	"fmt"
	"math"

	"github.com/docforge/pdfops/internal/pdferr"
)

// Params is the normalized parameter mapping for a transform call: string
// keys to primitive values. Values arriving from JSON or YAML decoding
// (float64 numbers, []any lists) are coerced by the accessors.
type Params map[string]any

// Str returns the string value for key, or "" when absent.
func (p Params) Str(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// Bool returns the boolean value for key, or def when absent.
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// Int returns the integer value for key, or def when absent. A value of the
// wrong type is a validation error.
func (p Params) Int(key string, def int) (int, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return def, nil
	}
	n, err := toInt(raw)
	if err != nil {
		return 0, pdferr.Validationf("parameter %q: %v", key, err)
	}
	return n, nil
}

// Float returns the float value for key, or def when absent.
func (p Params) Float(key string, def float64) (float64, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	default:
		return 0, pdferr.Validationf("parameter %q: expected a number, got %T", key, raw)
	}
}

// IntList returns the list of integers for key, or nil when absent.
func (p Params) IntList(key string) ([]int, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case []int:
		return v, nil
	case []any:
		out := make([]int, 0, len(v))
		for _, item := range v {
			n, err := toInt(item)
			if err != nil {
				return nil, pdferr.Validationf("parameter %q: %v", key, err)
			}
			out = append(out, n)
		}
		return out, nil
	default:
		return nil, pdferr.Validationf("parameter %q: expected a list of page numbers, got %T", key, raw)
	}
}

func toInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected an integer, got %v", v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", raw)
	}
}
