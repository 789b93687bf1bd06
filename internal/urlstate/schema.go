// Package urlstate binds typed, validated state to the query string of a URL.
//
// A Schema names the query parameters a caller owns and how each one is
// decoded. Reading never fails: a missing, malformed, or rejected value
// falls back to its declared default. Writing removes parameters that hold
// their default so URLs stay short and canonical.
package urlstate

import (
	"log/slog"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Param describes one query parameter. It is implemented only by String,
// Number, Boolean and StringArray.
type Param interface {
	param()
}

// String is a free-form text parameter.
type String struct {
	Default  string
	Validate func(string) bool
}

// Number is a numeric parameter. Values are decoded as float64.
type Number struct {
	Default  float64
	Validate func(float64) bool
}

// Boolean is decoded as true for "true" or "1" and false otherwise.
type Boolean struct {
	Default  bool
	Validate func(bool) bool
}

// StringArray is a comma-joined list. Empty elements are dropped.
type StringArray struct {
	Default  []string
	Validate func([]string) bool
}

func (String) param()      {}
func (Number) param()      {}
func (Boolean) param()     {}
func (StringArray) param() {}

// Schema maps parameter names to their descriptions.
type Schema map[string]Param

// Decode derives a State holding one entry per schema key.
func (s Schema) Decode(values url.Values) State {
	state := make(State, len(s))
	for key, p := range s {
		raw, present := first(values, key)
		state[key] = decodeParam(key, p, raw, present)
	}
	return state
}

// Encode writes the entries of partial into dst. Keys that are not part of
// the schema are ignored. Entries equal to their default, or encoding to
// the empty string, are removed from dst.
func (s Schema) Encode(dst url.Values, partial State) {
	for key, v := range partial {
		p, ok := s[key]
		if !ok {
			continue
		}
		raw, isDefault, ok := encodeParam(p, v)
		if !ok {
			slog.Debug("urlstate: ignoring value of wrong type", "key", key, "value", v)
			continue
		}
		if isDefault || raw == "" {
			dst.Del(key)
			continue
		}
		dst.Set(key, raw)
	}
}

// Defaults returns the state a URL without any schema keys decodes to.
func (s Schema) Defaults() State {
	return s.Decode(url.Values{})
}

func first(values url.Values, key string) (string, bool) {
	vs, ok := values[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func decodeParam(key string, p Param, raw string, present bool) (v any) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("urlstate: validator panicked", "key", key, "panic", r)
			v = defaultOf(p)
		}
	}()

	switch p := p.(type) {
	case String:
		if !present || (p.Validate != nil && !p.Validate(raw)) {
			return p.Default
		}
		return raw
	case Number:
		if !present {
			return p.Default
		}
		n, ok := parseNumber(raw)
		if !ok || (p.Validate != nil && !p.Validate(n)) {
			return p.Default
		}
		return n
	case Boolean:
		if !present {
			return p.Default
		}
		b := raw == "true" || raw == "1"
		if p.Validate != nil && !p.Validate(b) {
			return p.Default
		}
		return b
	case StringArray:
		if !present {
			return slices.Clone(p.Default)
		}
		arr := splitArray(raw)
		if p.Validate != nil && !p.Validate(arr) {
			return slices.Clone(p.Default)
		}
		return arr
	}
	return nil
}

func defaultOf(p Param) any {
	switch p := p.(type) {
	case String:
		return p.Default
	case Number:
		return p.Default
	case Boolean:
		return p.Default
	case StringArray:
		return slices.Clone(p.Default)
	}
	return nil
}

// parseNumber follows the loose numeric conversion browsers apply to query
// values: surrounding whitespace is ignored and a blank string is zero.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

func splitArray(raw string) []string {
	out := []string{}
	if raw == "" {
		return out
	}
	for _, part := range strings.Split(raw, ",") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// encodeParam returns the query form of v, whether v equals the default,
// and false when v has the wrong type for p.
func encodeParam(p Param, v any) (string, bool, bool) {
	switch p := p.(type) {
	case String:
		s, ok := v.(string)
		if !ok {
			return "", false, false
		}
		return s, s == p.Default, true
	case Number:
		n, ok := toFloat(v)
		if !ok {
			return "", false, false
		}
		return strconv.FormatFloat(n, 'f', -1, 64), n == p.Default, true
	case Boolean:
		b, ok := v.(bool)
		if !ok {
			return "", false, false
		}
		return strconv.FormatBool(b), b == p.Default, true
	case StringArray:
		arr, ok := v.([]string)
		if !ok {
			return "", false, false
		}
		return strings.Join(arr, ","), len(arr) == 0 && len(p.Default) == 0, true
	}
	return "", false, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
