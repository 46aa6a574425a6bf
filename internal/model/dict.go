package model

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	timex "github.com/ferdiebergado/hbnb/internal/pkg/time"
)

// Field decoders accept the Go types produced by encoding/json (string,
// float64, []any) and by database drivers (string, []byte, int64, time.Time).
// A missing or nil key leaves the zero value.

func stringField(d map[string]any, key string) (string, error) {
	switch v := d[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("%w: %s: want string, got %T", ErrInvalidField, key, v)
	}
}

func intField(d map[string]any, key string) (int, error) {
	switch v := d[key].(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int64Field(key, v)
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %s: %v is not an integer", ErrInvalidField, key, v)
		}
		// float64(math.MaxInt) rounds up to 2^63 on 64-bit platforms.
		if v < math.MinInt || v >= math.MaxInt {
			return 0, fmt.Errorf("%w: %s: %v overflows int", ErrInvalidField, key, v)
		}
		return int(v), nil
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidField, key, err)
		}
		return int64Field(key, i)
	default:
		return 0, fmt.Errorf("%w: %s: want integer, got %T", ErrInvalidField, key, v)
	}
}

func int64Field(key string, v int64) (int, error) {
	if v < math.MinInt || v > math.MaxInt {
		return 0, fmt.Errorf("%w: %s: %d overflows int", ErrInvalidField, key, v)
	}
	return int(v), nil
}

func floatField(d map[string]any, key string) (float64, error) {
	switch v := d[key].(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidField, key, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s: want number, got %T", ErrInvalidField, key, v)
	}
}

func stringSliceField(d map[string]any, key string) ([]string, error) {
	switch v := d[key].(type) {
	case nil:
		return nil, nil
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s[%d]: want string, got %T", ErrInvalidField, key, i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s: want list of strings, got %T", ErrInvalidField, key, v)
	}
}

func timeField(d map[string]any, key string, fallback time.Time) (time.Time, error) {
	switch v := d[key].(type) {
	case nil:
		return fallback, nil
	case time.Time:
		return v.UTC(), nil
	case string:
		t, err := timex.Parse(v)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s: %v", ErrInvalidTimestamp, key, err)
		}
		return t, nil
	case []byte:
		t, err := timex.Parse(string(v))
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s: %v", ErrInvalidTimestamp, key, err)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("%w: %s: want text, got %T", ErrInvalidTimestamp, key, v)
	}
}
