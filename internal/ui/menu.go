package ui

import (
	"strings"

	"github.com/alfredjeanlab/facets/internal/filter"
)

// customDateValue marks the menu entry that switches a date field to
// absolute date entry.
const customDateValue = "custom"

// MenuItem is one selectable row of the filter menu.
type MenuItem struct {
	Label string
	Value string
	Color string
	Icon  string

	// Field is set on rows of the field step.
	Field *filter.Field
}

// MenuItems returns the selectable rows for the menu state in snap.
func MenuItems(snap filter.MenuSnapshot) []MenuItem {
	switch step := snap.Step.(type) {
	case filter.FieldsStep:
		items := make([]MenuItem, len(snap.Fields))
		for i := range snap.Fields {
			f := snap.Fields[i]
			items[i] = MenuItem{Label: f.Label, Value: f.ID, Icon: f.Icon, Field: &f}
		}
		return items
	case filter.ValuesStep:
		if step.Field.Type == filter.TypeDate {
			if snap.DatePicker {
				return nil
			}
			var items []MenuItem
			for _, o := range filter.RelativeShortcuts() {
				items = append(items, MenuItem{Label: o.Label, Value: o.Value})
			}
			return append(items, MenuItem{Label: "Custom date...", Value: customDateValue})
		}
		items := make([]MenuItem, len(snap.Options))
		for i, o := range snap.Options {
			items[i] = MenuItem{Label: o.Label, Value: o.Value, Color: o.Color, Icon: o.Icon}
		}
		return items
	}
	return nil
}

// MenuTitle returns the heading for the menu state in snap.
func MenuTitle(snap filter.MenuSnapshot) string {
	if vs, ok := snap.Step.(filter.ValuesStep); ok {
		if snap.DatePicker {
			return vs.Field.Label + ": enter a date (" + filter.DateLayout + ")"
		}
		return vs.Field.Label
	}
	return "Filter by"
}

// RenderMenu renders the menu box. input is the rendered search line, or
// empty when the step has no search box. cursor indexes MenuItems(snap).
func RenderMenu(snap filter.MenuSnapshot, input string, cursor int) string {
	var lines []string
	lines = append(lines, RenderAccent(MenuTitle(snap)))
	if input != "" {
		lines = append(lines, input)
	}

	items := MenuItems(snap)
	for i, it := range items {
		label := it.Label
		if it.Icon != "" {
			label = it.Icon + " " + label
		}
		label = RenderColor(label, it.Color)
		if i == cursor {
			lines = append(lines, selectedStyle.Render("> "+label))
		} else {
			lines = append(lines, "  "+label)
		}
	}
	if len(items) == 0 && !snap.DatePicker {
		if msg := snap.Empty.String(); msg != "" {
			lines = append(lines, RenderMuted(msg))
		}
	}
	if snap.Loading && len(items) > 0 {
		lines = append(lines, RenderMuted(filter.EmptyLoading.String()))
	}
	return menuStyle.Render(strings.Join(lines, "\n"))
}
