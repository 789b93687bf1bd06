package pagination

// PageItem is one slot in a page selector: a page number or a gap.
type PageItem struct {
	Number   int
	Ellipsis bool
}

// maxFullWindow is the largest page count shown without gaps.
const maxFullWindow = 7

// PageNumbers returns the page selector window around current. Up to
// seven pages are listed in full. Beyond that the first and last page are
// always present and a gap stands in for the skipped runs.
func PageNumbers(current, total int) []PageItem {
	if total <= maxFullWindow {
		items := make([]PageItem, 0, total)
		for i := 1; i <= total; i++ {
			items = append(items, PageItem{Number: i})
		}
		return items
	}

	var nums []int
	switch {
	case current <= 3:
		nums = []int{1, 2, 3, 4, 0, total}
	case current >= total-2:
		nums = []int{1, 0, total - 3, total - 2, total - 1, total}
	default:
		nums = []int{1, 0, current - 1, current, current + 1, 0, total}
	}

	items := make([]PageItem, len(nums))
	for i, n := range nums {
		if n == 0 {
			items[i] = PageItem{Ellipsis: true}
			continue
		}
		items[i] = PageItem{Number: n}
	}
	return items
}

// ItemRange returns the 1-based positions of the first and last item on
// page. Both are zero when total is zero.
func ItemRange(page, limit, total int) (start, end int) {
	if total <= 0 {
		return 0, 0
	}
	start = (page-1)*limit + 1
	end = min(page*limit, total)
	return start, end
}
