package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/facets/internal/pagination"
)

// RenderPager renders the page selector for st, e.g.
// "< 1 … 4 [5] 6 … 10 >", followed by the item range.
func RenderPager(st pagination.State) string {
	pages := max(st.TotalPages, 1)
	var b strings.Builder
	if st.Page > 1 {
		b.WriteString("< ")
	} else {
		b.WriteString(RenderMuted("<") + " ")
	}
	for _, item := range pagination.PageNumbers(st.Page, pages) {
		switch {
		case item.Ellipsis:
			b.WriteString(RenderMuted("…"))
		case item.Number == st.Page:
			b.WriteString(RenderAccent("[" + strconv.Itoa(item.Number) + "]"))
		default:
			b.WriteString(strconv.Itoa(item.Number))
		}
		b.WriteString(" ")
	}
	if st.Page < pages {
		b.WriteString(">")
	} else {
		b.WriteString(RenderMuted(">"))
	}

	b.WriteString("  ")
	b.WriteString(RenderMuted(RangeText(st)))
	return b.String()
}

// RangeText describes the items shown on the current page, e.g.
// "21-40 of 95".
func RangeText(st pagination.State) string {
	start, end := pagination.ItemRange(st.Page, st.Limit, st.TotalCount)
	if st.TotalCount == 0 {
		return "0 results"
	}
	return fmt.Sprintf("%d-%d of %d", start, end, st.TotalCount)
}
