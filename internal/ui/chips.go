package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alfredjeanlab/facets/internal/filter"
)

// removeGlyph marks the remove affordance of a chip.
const removeGlyph = "×"

// ChipText returns the plain text of a chip: icon, field, operator and
// value, then the remove glyph.
func ChipText(c filter.Chip) string {
	parts := make([]string, 0, 5)
	if icon := c.Icon(); icon != "" {
		parts = append(parts, icon)
	} else if c.Field.Icon != "" {
		parts = append(parts, c.Field.Icon)
	}
	parts = append(parts, c.FieldLabel(), c.OperatorLabel(), c.ValueLabel(), removeGlyph)
	return strings.Join(parts, " ")
}

// RenderChip renders c as a bordered chip. The value takes the option's
// color and a selected chip is highlighted.
func RenderChip(c filter.Chip, selected bool) string {
	icon := c.Icon()
	if icon == "" {
		icon = c.Field.Icon
	}
	var b strings.Builder
	if icon != "" {
		b.WriteString(RenderColor(icon, c.Color()))
		b.WriteString(" ")
	}
	b.WriteString(c.FieldLabel())
	b.WriteString(" ")
	b.WriteString(RenderMuted(c.OperatorLabel()))
	b.WriteString(" ")
	b.WriteString(RenderColor(c.ValueLabel(), c.Color()))
	b.WriteString(" ")
	b.WriteString(RenderMuted(removeGlyph))

	style := chipStyle
	if selected {
		style = style.BorderForeground(colorAccent)
	}
	return style.Render(b.String())
}

// RenderChips lays the chips out side by side. selected is the index of
// the highlighted chip, or -1.
func RenderChips(chips []filter.Chip, selected int) string {
	if len(chips) == 0 {
		return RenderMuted("No filters")
	}
	rendered := make([]string, len(chips))
	for i, c := range chips {
		rendered[i] = RenderChip(c, i == selected)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// RenderChipLine renders chips on one plain line, for non-interactive
// output.
func RenderChipLine(chips []filter.Chip) string {
	texts := make([]string, len(chips))
	for i, c := range chips {
		texts[i] = "[" + strings.TrimSuffix(ChipText(c), " "+removeGlyph) + "]"
	}
	return strings.Join(texts, " ")
}
