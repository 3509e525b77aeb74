package core

import (
	"fmt"

	"github.com/spf13/cast"
)

// GetString extracts string from config map with default
func GetString(m map[string]interface{}, key, defaultVal string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return defaultVal
}

// GetInt extracts int from config map with default
func GetInt(m map[string]interface{}, key string, defaultVal int) int {
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetFloat extracts float64 from config map with default
func GetFloat(m map[string]interface{}, key string, defaultVal float64) float64 {
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	f, err := ToFloat(v)
	if err != nil {
		return defaultVal
	}
	return f
}

// GetMap extracts map from config with default empty map
func GetMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key].(map[string]interface{}); ok {
		return v
	}
	if v, ok := m[key].(map[string]float64); ok {
		out := make(map[string]interface{}, len(v))
		for k, f := range v {
			out[k] = f
		}
		return out
	}
	return make(map[string]interface{})
}

// ToFloat converts numbers, numeric strings and bools to float64
func ToFloat(v interface{}) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("unable to convert nil to float64")
	}
	return cast.ToFloat64E(v)
}

// MergeMap merges multiple maps into one, later maps win
func MergeMap(maps ...map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	for _, m := range maps {
		for k, v := range m {
			result[k] = v
		}
	}
	return result
}

// CopyMap creates a shallow copy of a map
func CopyMap(m map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
