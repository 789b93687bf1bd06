package filter

import "strconv"

// Chip is the display model of one committed filter.
type Chip struct {
	Filter Value
	Field  Field
	Index  int
}

// ChipChoice is one entry of a chip's value popover.
type ChipChoice struct {
	Option   Option
	Selected bool
}

// NewChip returns the chip for v at position index of its list.
func NewChip(v Value, f Field, index int) Chip {
	return Chip{Filter: v, Field: f, Index: index}
}

// Chips returns a chip per filter, skipping filters on unknown fields.
func Chips(filters []Value, fields Fields) []Chip {
	chips := make([]Chip, 0, len(filters))
	for i, v := range filters {
		f, ok := fields.Lookup(v.Field)
		if !ok {
			continue
		}
		chips = append(chips, NewChip(v, f, i))
	}
	return chips
}

// Key identifies the chip within its list. A field may appear in several
// filters, so the position is part of the key.
func (c Chip) Key() string {
	return c.Filter.Field + "-" + strconv.Itoa(c.Index)
}

// FieldLabel returns the field's display name.
func (c Chip) FieldLabel() string {
	return c.Field.Label
}

// OperatorLabel returns the operator's display text.
func (c Chip) OperatorLabel() string {
	return c.Filter.Operator.Label()
}

// ValueLabel returns the value's display text.
func (c Chip) ValueLabel() string {
	if c.Field.Type == TypeDate {
		return FormatDateValue(c.Filter.Value)
	}
	if c.Filter.Label != "" {
		return c.Filter.Label
	}
	if label, ok := c.Field.OptionLabel(c.Filter.Value); ok {
		return label
	}
	return c.Filter.Value
}

// Color returns the color of the selected option, if any.
func (c Chip) Color() string {
	if c.Field.Type == TypeDate {
		return ""
	}
	o, _ := c.Field.Option(c.Filter.Value)
	return o.Color
}

// Icon returns the icon of the selected option, if any.
func (c Chip) Icon() string {
	if c.Field.Type == TypeDate {
		return ""
	}
	o, _ := c.Field.Option(c.Filter.Value)
	return o.Icon
}

// ToggleOperator returns the filter with its operator swapped.
func (c Chip) ToggleOperator() Value {
	v := c.Filter
	v.Operator = ToggleOperator(c.Field.Type, v.Operator)
	return v
}

// Choices returns the values offered when the chip's value is edited.
// Date fields offer the relative shortcuts.
func (c Chip) Choices() []ChipChoice {
	opts := c.Field.Options
	if c.Field.Type == TypeDate {
		opts = RelativeShortcuts()
	}
	out := make([]ChipChoice, len(opts))
	for i, o := range opts {
		out[i] = ChipChoice{Option: o, Selected: o.Value == c.Filter.Value}
	}
	return out
}

// Reselect returns the filter with a new value and label.
func (c Chip) Reselect(value, label string) Value {
	v := c.Filter
	v.Value = value
	v.Label = label
	return v
}
