package filter

import "strings"

const (
	entrySep = ","
	partSep  = ":"
)

// Serializable reports whether value survives a round trip through the
// filters parameter: it is non-empty and holds no entry separator.
func Serializable(value string) bool {
	return value != "" && !strings.Contains(value, entrySep)
}

// Serialize encodes filters as "field:operator:value" entries joined by
// commas. Labels are never encoded.
func Serialize(filters []Value) string {
	if len(filters) == 0 {
		return ""
	}
	parts := make([]string, len(filters))
	for i, f := range filters {
		parts[i] = f.Field + partSep + string(f.Operator) + partSep + f.Value
	}
	return strings.Join(parts, entrySep)
}

// Parse decodes a serialized filter list against fields. Entries that are
// malformed, name an unknown field, or use an unknown operator are dropped.
// The operator is not checked against the field type; see ParseStrict.
//
// The value is everything after the second colon. Labels are filled in
// from the field's static options.
func Parse(s string, fields Fields) []Value {
	return parse(s, fields, false)
}

// ParseStrict is Parse that also drops entries whose operator is not
// offered for the field's type, such as "is" on a date field.
func ParseStrict(s string, fields Fields) []Value {
	return parse(s, fields, true)
}

// Normalize parses s and serializes the result, yielding the canonical
// form with every invalid entry removed.
func Normalize(s string, fields Fields, strict bool) string {
	return Serialize(parse(s, fields, strict))
}

func parse(s string, fields Fields, strict bool) []Value {
	out := []Value{}
	if s == "" {
		return out
	}
	for _, entry := range strings.Split(s, entrySep) {
		v, ok := parseEntry(entry, fields, strict)
		if ok {
			out = append(out, v)
		}
	}
	return out
}

func parseEntry(entry string, fields Fields, strict bool) (Value, bool) {
	segs := strings.SplitN(entry, partSep, 3)
	if len(segs) < 3 {
		return Value{}, false
	}
	id, opName, value := segs[0], segs[1], segs[2]
	if id == "" || opName == "" || value == "" {
		return Value{}, false
	}
	field, ok := fields.Lookup(id)
	if !ok {
		return Value{}, false
	}
	op, ok := ParseOperator(opName)
	if !ok {
		return Value{}, false
	}
	if strict && !Allowed(field.Type, op) {
		return Value{}, false
	}
	label, _ := field.OptionLabel(value)
	return Value{Field: id, Operator: op, Value: value, Label: label}, true
}
