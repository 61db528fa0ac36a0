package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseMetric reads a metric field as delivered by a source. ok is false for
// absent, empty, NaN or unparsable values. No range check is applied.
func ParseMetric(v any) (value float64, ok bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		value = t
	case float32:
		value = float64(t)
	case int:
		value = float64(t)
	case int32:
		value = float64(t)
	case int64:
		value = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		value = f
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		value = f
	case *float64:
		if t == nil {
			return 0, false
		}
		value = *t
	default:
		return 0, false
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// NullableMetric is ParseMetric for storage columns that keep absence as NULL.
func NullableMetric(v any) *float64 {
	f, ok := ParseMetric(v)
	if !ok {
		return nil
	}
	return &f
}
