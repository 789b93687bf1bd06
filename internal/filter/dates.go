package filter

import (
	"strings"
	"time"
)

// RelativePrefix marks a date value that is resolved against the current
// day at query time instead of naming a fixed day.
const RelativePrefix = "relative:"

// DateLayout is the layout of absolute date values.
const DateLayout = "2006-01-02"

// Relative date tokens.
const (
	RelativeToday     = "today"
	Relative7Days     = "7d"
	Relative30Days    = "30d"
	RelativeThisMonth = "thisMonth"
)

var relativeLabels = map[string]string{
	RelativeToday:     "Today",
	Relative7Days:     "Last 7 days",
	Relative30Days:    "Last 30 days",
	RelativeThisMonth: "This month",
}

// RelativeShortcuts returns the relative date choices in menu order. Each
// option's value carries RelativePrefix.
func RelativeShortcuts() []Option {
	tokens := []string{RelativeToday, Relative7Days, Relative30Days, RelativeThisMonth}
	out := make([]Option, len(tokens))
	for i, tok := range tokens {
		out[i] = Option{Value: RelativePrefix + tok, Label: relativeLabels[tok]}
	}
	return out
}

// IsRelative reports whether value is a relative date marker.
func IsRelative(value string) bool {
	return strings.HasPrefix(value, RelativePrefix)
}

// FormatDateValue returns display text for a date filter value. Unknown
// relative tokens are shown bare and unparseable dates are shown as given.
func FormatDateValue(value string) string {
	if value == "" {
		return ""
	}
	if tok, ok := strings.CutPrefix(value, RelativePrefix); ok {
		if label, ok := relativeLabels[tok]; ok {
			return label
		}
		return tok
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return value
	}
	return t.Format("Jan 2, 2006")
}

// ResolveRelative returns the first day covered by a relative token as a
// YYYY-MM-DD date in now's location. Unknown tokens are returned unchanged.
func ResolveRelative(token string, now time.Time) string {
	y, m, d := now.Date()
	switch token {
	case RelativeToday:
		return now.Format(DateLayout)
	case Relative7Days:
		return time.Date(y, m, d-7, 0, 0, 0, 0, now.Location()).Format(DateLayout)
	case Relative30Days:
		return time.Date(y, m, d-30, 0, 0, 0, 0, now.Location()).Format(DateLayout)
	case RelativeThisMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location()).Format(DateLayout)
	}
	return token
}

// ResolveDate turns a date filter value into a day. Relative markers are
// resolved against now.
func ResolveDate(value string, now time.Time) (time.Time, bool) {
	if tok, ok := strings.CutPrefix(value, RelativePrefix); ok {
		value = ResolveRelative(tok, now)
	}
	t, err := time.ParseInLocation(DateLayout, value, now.Location())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
