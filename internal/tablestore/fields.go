package tablestore

import "strconv"

// Fields is a loosely-typed record payload. The store does not guarantee
// column types, so all reads go through the defensive accessors below
// instead of scattering type assertions through the codebase.
type Fields map[string]any

// Str returns the string value of key, or "" if absent or not a string.
func (f Fields) Str(key string) string {
	if v, ok := f[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the integer value of key. Numbers arrive as float64 from JSON;
// numeric strings are parsed; anything else yields the default.
func (f Fields) Int(key string, def int) int {
	switch v := f[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

// Int64 behaves like Int for 64-bit values such as Telegram user ids.
func (f Fields) Int64(key string, def int64) int64 {
	switch v := f[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}

// Float returns the float value of key with the same coercion rules as Int.
func (f Fields) Float(key string, def float64) float64 {
	switch v := f[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}

// StrSlice returns the list value of key. Link fields come back as JSON
// arrays of record ids; a bare string is treated as a one-element list.
func (f Fields) StrSlice(key string) []string {
	switch v := f[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

// Has reports whether key is present, regardless of its type.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}
