package main

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/facets/internal/ui"
)

// Patterns used to colorize Cobra's default help output.
var (
	// Section headers: unindented line ending with ":" (e.g. "Views:", "Flags:").
	// Excludes "Usage:" which we leave unstyled.
	reGroupHeader = regexp.MustCompile(`(?m)^([A-Z][^\n]*:)\s*$`)

	// Command names: two-space indent, then a word, then two-or-more spaces
	// before the description.
	reCommand = regexp.MustCompile(`(?m)^(  )(\S+)(  )`)

	// Flag type annotations: e.g. "--http-url string", "--limit int".
	reFlagType = regexp.MustCompile(`(--?\S+\s+)(string|int|duration|stringSlice|stringArray)`)

	// Quoted defaults such as (default "http://localhost:8080").
	reDefault = regexp.MustCompile(`\(default "[^"]*"\)`)
)

// colorizedHelpFunc returns a Cobra help function that post-processes the
// default help text with ANSI colors when the terminal supports it.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	defaultHelp := func(cmd *cobra.Command, args []string) {
		cmd.SetOut(cmd.OutOrStdout())
		_ = cmd.Usage()
	}

	return func(cmd *cobra.Command, args []string) {
		if !ui.ShouldUseColor() {
			defaultHelp(cmd, args)
			return
		}

		// Save the original writer before redirecting to a buffer.
		orig := cmd.OutOrStdout()

		var buf bytes.Buffer
		cmd.SetOut(&buf)
		_ = cmd.Usage()
		cmd.SetOut(orig)

		colorized := colorizeHelpOutput(buf.String())
		fmt.Fprint(orig, colorized)
	}
}

// helpRule pairs a pattern with the styling applied to each match.
type helpRule struct {
	re    *regexp.Regexp
	style func(parts []string) string
}

var helpRules = []helpRule{
	{reGroupHeader, func(p []string) string { return ui.RenderAccent(strings.TrimSpace(p[0])) }},
	{reCommand, func(p []string) string { return p[1] + ui.RenderCommand(p[2]) + p[3] }},
	{reFlagType, func(p []string) string { return p[1] + ui.RenderMuted(p[2]) }},
	{reDefault, func(p []string) string { return ui.RenderMuted(p[0]) }},
}

// colorizeHelpOutput applies ANSI styling to Cobra's plain-text help.
func colorizeHelpOutput(s string) string {
	for _, rule := range helpRules {
		s = rule.re.ReplaceAllStringFunc(s, func(match string) string {
			return rule.style(rule.re.FindStringSubmatch(match))
		})
	}
	return s
}
