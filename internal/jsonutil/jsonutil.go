// Package jsonutil provides shared utilities for JSON-shaped data:
// error wrapping, loose payload decoding, and typed map lookups.
package jsonutil

import (
	"encoding/json"
	"fmt"
)

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v any, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// Decode converts a loosely typed payload (a struct, a map decoded from
// JSON, or raw JSON bytes) into v by round-tripping through JSON.
func Decode(payload any, v any, context string) error {
	var data []byte
	switch p := payload.(type) {
	case nil:
		return fmt.Errorf("%s: empty payload", context)
	case []byte:
		data = p
	case json.RawMessage:
		data = p
	case string:
		data = []byte(p)
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("%s: %w", context, err)
		}
		data = b
	}
	return UnmarshalWithContext(data, v, context)
}

// GetString returns m[key] when it is a string, else "".
func GetString(m map[string]any, key string) string {
	return GetStringOr(m, key, "")
}

// GetStringOr returns m[key] when it is a string, else def.
func GetStringOr(m map[string]any, key, def string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return def
}

// GetBool extracts a bool, falling back to defaultValue.
func GetBool(m map[string]any, key string, defaultValue bool) bool {
	if val, ok := m[key].(bool); ok {
		return val
	}
	return defaultValue
}

// GetInt extracts a whole number. JSON numbers decode as float64, so both
// float64 and int are accepted.
func GetInt(m map[string]any, key string, defaultValue int) int {
	switch val := m[key].(type) {
	case float64:
		return int(val)
	case int:
		return val
	default:
		return defaultValue
	}
}

// ToString renders a payload for display. Whole float64 values print
// without a fraction; raw JSON bytes print as text.
func ToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case json.RawMessage:
		return string(val)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%.0f", val)
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
