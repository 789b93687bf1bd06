// Package pagination keeps page and page-size selection in a URL query.
package pagination

import (
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/alfredjeanlab/facets/internal/urlstate"
)

// Defaults applied to zero-valued Options fields.
const (
	DefaultLimit      = 20
	DefaultPageParam  = "page"
	DefaultLimitParam = "limit"
)

// DefaultAllowedLimits is the page-size allow-list used when none is given.
var DefaultAllowedLimits = []int{10, 20, 50, 100}

// Options configures a Paginator.
type Options struct {
	TotalCount    int
	DefaultLimit  int
	AllowedLimits []int
	PageParam     string
	LimitParam    string
	Logger        *slog.Logger
}

// State is a consistent snapshot of the derived pagination values.
type State struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// Paginator derives the current page and page size from a Location.
//
// The displayed page is clamped to the last page whenever the total is
// known, but reading never writes the clamped value back.
type Paginator struct {
	store      *urlstate.Store
	opts       Options
	pageParam  string
	limitParam string
	logger     *slog.Logger

	mu    sync.Mutex
	total int
}

// New returns a Paginator bound to loc.
func New(loc urlstate.Location, opts Options) *Paginator {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	if len(opts.AllowedLimits) == 0 {
		opts.AllowedLimits = DefaultAllowedLimits
	}
	if opts.PageParam == "" {
		opts.PageParam = DefaultPageParam
	}
	if opts.LimitParam == "" {
		opts.LimitParam = DefaultLimitParam
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	allowed := slices.Clone(opts.AllowedLimits)
	schema := urlstate.Schema{
		opts.PageParam: urlstate.Number{
			Default: 1,
			Validate: func(v float64) bool {
				return v >= 1 && !math.IsInf(v, 0) && v == math.Trunc(v)
			},
		},
		opts.LimitParam: urlstate.Number{
			Default: float64(opts.DefaultLimit),
			Validate: func(v float64) bool {
				return v == math.Trunc(v) && slices.Contains(allowed, int(v))
			},
		},
	}

	return &Paginator{
		store:      urlstate.NewStore(loc, schema),
		opts:       opts,
		pageParam:  opts.PageParam,
		limitParam: opts.LimitParam,
		logger:     logger,
		total:      max(opts.TotalCount, 0),
	}
}

// Close detaches the paginator from its location.
func (p *Paginator) Close() {
	p.store.Close()
}

// Subscribe registers fn to run when the page or limit in the URL changes.
func (p *Paginator) Subscribe(fn func()) func() {
	return p.store.Subscribe(func(urlstate.State) { fn() })
}

// SetTotalCount updates the known number of items. Negative values are
// treated as zero.
func (p *Paginator) SetTotalCount(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = max(n, 0)
}

// TotalCount returns the known number of items.
func (p *Paginator) TotalCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// AllowedLimits returns the page-size allow-list.
func (p *Paginator) AllowedLimits() []int {
	return slices.Clone(p.opts.AllowedLimits)
}

// State returns page, limit and offset derived from one read of the URL.
func (p *Paginator) State() State {
	st := p.store.State()
	limit := st.Int(p.limitParam)
	total := p.TotalCount()
	pages := totalPages(total, limit)
	page := pages
	if raw := st.Number(p.pageParam); raw < float64(pages) {
		page = int(raw)
	}
	return State{
		Page:       page,
		Limit:      limit,
		Offset:     (page - 1) * limit,
		TotalCount: total,
		TotalPages: pages,
	}
}

// RequestedPage returns the page named by the URL without clamping it to
// the known total. Servers use it to query before the total is known. The
// result is capped so that (page-1)*limit does not overflow an int.
func (p *Paginator) RequestedPage() int {
	st := p.store.State()
	maxPage := math.MaxInt / max(st.Int(p.limitParam), 1)
	if raw := st.Number(p.pageParam); raw < float64(maxPage) {
		return min(int(raw), maxPage)
	}
	return maxPage
}

// Page returns the current page, clamped to the last page.
func (p *Paginator) Page() int { return p.State().Page }

// Limit returns the current page size.
func (p *Paginator) Limit() int { return p.State().Limit }

// Offset returns the index of the first item on the current page.
func (p *Paginator) Offset() int { return p.State().Offset }

// TotalPages returns max(1, ceil(total/limit)).
func (p *Paginator) TotalPages() int { return p.State().TotalPages }

// HasNextPage reports whether a page follows the current one.
func (p *Paginator) HasNextPage() bool {
	st := p.State()
	return st.Page < st.TotalPages
}

// HasPreviousPage reports whether a page precedes the current one.
func (p *Paginator) HasPreviousPage() bool {
	return p.State().Page > 1
}

// SetPage writes n clamped into [1, TotalPages].
func (p *Paginator) SetPage(n int) {
	pages := p.TotalPages()
	n = min(max(n, 1), pages)
	p.store.Set(urlstate.State{p.pageParam: n})
}

// SetLimit writes a new page size and resets the page to 1. Sizes outside
// the allow-list are logged and ignored.
func (p *Paginator) SetLimit(n int) {
	if !slices.Contains(p.opts.AllowedLimits, n) {
		p.logger.Warn("pagination: ignoring page size outside allow-list",
			"limit", n, "allowed", p.opts.AllowedLimits)
		return
	}
	p.store.Set(urlstate.State{p.limitParam: n, p.pageParam: 1})
}

// NextPage advances one page unless already on the last page.
func (p *Paginator) NextPage() {
	st := p.State()
	if st.Page >= st.TotalPages {
		return
	}
	p.store.Set(urlstate.State{p.pageParam: st.Page + 1})
}

// PreviousPage goes back one page unless already on the first page.
func (p *Paginator) PreviousPage() {
	st := p.State()
	if st.Page <= 1 {
		return
	}
	p.store.Set(urlstate.State{p.pageParam: st.Page - 1})
}

// FirstPage jumps to page 1 unless already there.
func (p *Paginator) FirstPage() {
	if p.State().Page <= 1 {
		return
	}
	p.store.Set(urlstate.State{p.pageParam: 1})
}

// LastPage jumps to the last page unless already there.
func (p *Paginator) LastPage() {
	st := p.State()
	if st.Page >= st.TotalPages {
		return
	}
	p.store.Set(urlstate.State{p.pageParam: st.TotalPages})
}

// Reset writes page 1 and the default limit.
func (p *Paginator) Reset() {
	p.store.Set(urlstate.State{p.pageParam: 1, p.limitParam: p.opts.DefaultLimit})
}

func totalPages(total, limit int) int {
	if limit <= 0 {
		return 1
	}
	return max(1, (total+limit-1)/limit)
}
