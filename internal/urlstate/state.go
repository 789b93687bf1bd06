package urlstate

import "slices"

// State holds decoded parameter values keyed by parameter name. Values are
// string, float64, bool or []string according to the schema.
//
// A State returned by Store.State is shared between callers and must not
// be modified.
type State map[string]any

// String returns the string value for key, or "" if absent.
func (s State) String(key string) string {
	v, _ := s[key].(string)
	return v
}

// Number returns the numeric value for key, or 0 if absent.
func (s State) Number(key string) float64 {
	v, _ := s[key].(float64)
	return v
}

// Int returns the numeric value for key truncated to an int.
func (s State) Int(key string) int {
	return int(s.Number(key))
}

// Bool returns the boolean value for key.
func (s State) Bool(key string) bool {
	v, _ := s[key].(bool)
	return v
}

// Strings returns a copy of the array value for key.
func (s State) Strings(key string) []string {
	v, _ := s[key].([]string)
	return slices.Clone(v)
}

// Equal reports whether both states hold the same keys and values.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for k, a := range s {
		b, ok := other[k]
		if !ok || !valueEqual(a, b) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	switch a := a.(type) {
	case []string:
		bs, ok := b.([]string)
		return ok && slices.Equal(a, bs)
	case string, float64, bool, nil:
		return a == b
	}
	return false
}
