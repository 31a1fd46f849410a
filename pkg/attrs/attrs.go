// Package attrs reads values back out of slog-style key/value lists.
package attrs

// Lookup returns the value following the first occurrence of key, and
// whether it has type T.
func Lookup[T any](kv []any, key string) (T, bool) {
	var zero T
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok && k == key {
			v, ok := kv[i+1].(T)
			return v, ok
		}
	}
	return zero, false
}

// String is Lookup for strings; absent or non-string values read as "".
func String(kv []any, key string) string {
	s, _ := Lookup[string](kv, key)
	return s
}
