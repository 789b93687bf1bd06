// Package filter models faceted filters: the field definitions a user can
// filter on, the compact "field:operator:value" wire grammar, and the
// stateful pieces (builder, menu, chip) that produce and edit filter lists.
package filter

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// FieldType decides which operators and value pickers a field offers.
type FieldType string

const (
	TypeSelect      FieldType = "select"
	TypeAsyncSelect FieldType = "asyncSelect"
	TypeDate        FieldType = "date"
)

// String returns the string representation of the field type.
func (t FieldType) String() string {
	return string(t)
}

// IsValid reports whether t is a known field type.
func (t FieldType) IsValid() bool {
	switch t {
	case TypeSelect, TypeAsyncSelect, TypeDate:
		return true
	}
	return false
}

// ParseFieldType returns the field type named s.
func ParseFieldType(s string) (FieldType, bool) {
	t := FieldType(s)
	return t, t.IsValid()
}

// Operator compares a record's field with a filter value.
type Operator string

const (
	OpIs     Operator = "is"
	OpIsNot  Operator = "isNot"
	OpBefore Operator = "before"
	OpAfter  Operator = "after"
)

// String returns the wire name of the operator.
func (o Operator) String() string {
	return string(o)
}

// IsValid reports whether o is one of the four known operators.
func (o Operator) IsValid() bool {
	switch o {
	case OpIs, OpIsNot, OpBefore, OpAfter:
		return true
	}
	return false
}

// Label returns the human-readable operator text.
func (o Operator) Label() string {
	switch o {
	case OpIs:
		return "is"
	case OpIsNot:
		return "is not"
	case OpBefore:
		return "before"
	case OpAfter:
		return "after"
	}
	return string(o)
}

// ParseOperator returns the operator with wire name s.
func ParseOperator(s string) (Operator, bool) {
	o := Operator(s)
	return o, o.IsValid()
}

// Option is one selectable value of a field.
type Option struct {
	Value string `json:"value" toml:"value"`
	Label string `json:"label" toml:"label"`
	Color string `json:"color,omitempty" toml:"color"`
	Icon  string `json:"icon,omitempty" toml:"icon"`
}

// LoaderFunc fetches options matching query. It must return promptly once
// ctx is cancelled.
type LoaderFunc func(ctx context.Context, query string) ([]Option, error)

// Field is a filterable dimension.
type Field struct {
	ID      string    `json:"id" toml:"id"`
	Label   string    `json:"label" toml:"label"`
	Type    FieldType `json:"type" toml:"type"`
	Icon    string    `json:"icon,omitempty" toml:"icon"`
	Options []Option  `json:"options,omitempty" toml:"options"`

	// LoadOptions backs TypeAsyncSelect fields.
	LoadOptions LoaderFunc `json:"-" toml:"-"`
}

// OptionLabel returns the label of the static option with the given value.
func (f Field) OptionLabel(value string) (string, bool) {
	for _, o := range f.Options {
		if o.Value == value {
			return o.Label, true
		}
	}
	return "", false
}

// Option returns the static option with the given value.
func (f Field) Option(value string) (Option, bool) {
	for _, o := range f.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// Value is one committed filter. Label is display text only and never
// part of the serialized form.
type Value struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
	Label    string   `json:"label,omitempty"`
}

// Fields is an ordered set of field definitions.
type Fields []Field

// Lookup returns the field with the given id.
func (fs Fields) Lookup(id string) (Field, bool) {
	for _, f := range fs {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// ErrInvalidField is wrapped by errors returned from Fields.Validate.
var ErrInvalidField = errors.New("invalid field definition")

// Validate checks that ids are unique and usable in the wire grammar and
// that every field has a known type.
func (fs Fields) Validate() error {
	seen := make(map[string]bool, len(fs))
	for i, f := range fs {
		switch {
		case f.ID == "":
			return fmt.Errorf("%w: field %d has no id", ErrInvalidField, i)
		case strings.ContainsAny(f.ID, ",:"):
			return fmt.Errorf("%w: field id %q contains a reserved character", ErrInvalidField, f.ID)
		case seen[f.ID]:
			return fmt.Errorf("%w: duplicate field id %q", ErrInvalidField, f.ID)
		case !f.Type.IsValid():
			return fmt.Errorf("%w: field %q has unknown type %q", ErrInvalidField, f.ID, f.Type)
		}
		seen[f.ID] = true
		for _, o := range f.Options {
			if !Serializable(o.Value) {
				return fmt.Errorf("%w: field %q has option value %q that cannot be serialized", ErrInvalidField, f.ID, o.Value)
			}
		}
	}
	return nil
}
