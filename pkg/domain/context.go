package domain

// UserContext holds session-scoped values (e.g. the patient's display name).
// It is owned by the session layer; the engine only reads it.
type UserContext map[string]any

// Merge copies params into the context. Existing keys are overwritten, none are deleted.
// It returns the keys whose value was written.
func (c UserContext) Merge(params map[string]any) []string {
	if c == nil || len(params) == 0 {
		return nil
	}
	keys := make([]string, 0, len(params))
	for k, v := range params {
		c[k] = v
		keys = append(keys, k)
	}
	return keys
}

// Clone returns a deep copy of the context (nested maps and slices included).
func (c UserContext) Clone() UserContext {
	if c == nil {
		return UserContext{}
	}
	return UserContext(CloneMap(c))
}

// CloneMap deep-copies a loosely typed mapping. Nil stays nil.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneMap(val)
	case UserContext:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return v
	}
}
