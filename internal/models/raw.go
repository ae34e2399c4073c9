package models

// RawRecord is a loosely-typed provider payload. Each provider client
// tags the records it emits with its source name; every other field is
// provider-shaped and absorbed by the normalizer.
type RawRecord map[string]interface{}

// Source returns the provider tag on the record, or "unknown".
func (r RawRecord) Source() string {
	if s, ok := r["source"].(string); ok && s != "" {
		return s
	}
	return "unknown"
}

// GetString returns the string at key, or "" when absent or not a string.
func (r RawRecord) GetString(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// GetFloat returns the numeric value at key. JSON decoding yields
// float64, but provider adapters may attach other numeric types directly.
func (r RawRecord) GetFloat(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// GetInt returns the integer value at key, truncating floats.
func (r RawRecord) GetInt(key string) (int, bool) {
	f, ok := r.GetFloat(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// GetBool returns the boolean value at key.
func (r RawRecord) GetBool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

// GetMap returns the nested object at key, or nil.
func (r RawRecord) GetMap(key string) map[string]interface{} {
	m, _ := r[key].(map[string]interface{})
	return m
}
