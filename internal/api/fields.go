package api

import "encoding/json"

// Payload field accessors. Envelope payloads decode as map[string]any, so
// numbers arrive as float64 and structured values as nested maps.

// StringField returns a string payload field.
func StringField(data map[string]any, key string) (string, bool) {
	value, ok := data[key].(string)
	return value, ok
}

// IntField returns an integer payload field.
func IntField(data map[string]any, key string) (int, bool) {
	switch v := data[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// Int64Field returns a 64-bit integer payload field.
func Int64Field(data map[string]any, key string) (int64, bool) {
	switch v := data[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

// BoolField returns a boolean payload field.
func BoolField(data map[string]any, key string) (bool, bool) {
	value, ok := data[key].(bool)
	return value, ok
}

// DecodeField unmarshals a structured payload field into dst via its JSON
// representation.
func DecodeField(data map[string]any, key string, dst any) bool {
	raw, ok := data[key]
	if !ok {
		return false
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return false
	}
	return json.Unmarshal(encoded, dst) == nil
}
