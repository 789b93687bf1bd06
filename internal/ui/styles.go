package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent   = lipgloss.Color("74")  // blue
	colorCmd      = lipgloss.Color("250") // light gray
	colorMuted    = lipgloss.Color("245") // medium gray
	colorSelected = lipgloss.Color("236") // selected row background
	colorBorder   = lipgloss.Color("240")
)

// renderer writes styles for stdout. ForceNoColor downgrades it to plain
// ASCII.
var renderer = lipgloss.NewRenderer(os.Stdout)

// Styles are rebuilt from renderer by ForceNoColor.
var (
	accentStyle   lipgloss.Style
	commandStyle  lipgloss.Style
	mutedStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	chipStyle     lipgloss.Style
	menuStyle     lipgloss.Style
)

func init() {
	buildStyles()
}

func buildStyles() {
	accentStyle = renderer.NewStyle().Foreground(colorAccent)
	commandStyle = renderer.NewStyle().Foreground(colorCmd)
	mutedStyle = renderer.NewStyle().Foreground(colorMuted)
	selectedStyle = renderer.NewStyle().Background(colorSelected).Bold(true)
	chipStyle = renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)
	menuStyle = renderer.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	return accentStyle.Render(s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	return mutedStyle.Render(s)
}

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string {
	return commandStyle.Render(s)
}

// RenderColor returns s in color, a hex or ANSI code as carried by filter
// options. An empty color leaves s unstyled.
func RenderColor(s, color string) string {
	if color == "" {
		return s
	}
	return renderer.NewStyle().Foreground(lipgloss.Color(color)).Render(s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	renderer.SetColorProfile(termenv.Ascii)
	buildStyles()
}
