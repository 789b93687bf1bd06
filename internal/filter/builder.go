package filter

import (
	"slices"
	"sync"

	"github.com/alfredjeanlab/facets/internal/urlstate"
)

// DefaultParamName is the query parameter a URL-synced Builder uses.
const DefaultParamName = "filters"

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	// InitialFilters seeds the list. In URL-synced mode it is used only
	// when the parameter is absent from the location.
	InitialFilters []Value

	// Fields and Location together enable URL sync.
	Fields   Fields
	Location urlstate.Location

	// ParamName defaults to DefaultParamName.
	ParamName string

	// Strict drops entries whose operator does not fit the field type when
	// reading from the location.
	Strict bool

	// OnChange runs after every change to the list.
	OnChange func([]Value)
}

// Builder holds the committed filter list, optionally mirrored into a URL
// query parameter. The sync mode is fixed at construction.
type Builder struct {
	fields   Fields
	param    string
	strict   bool
	store    *urlstate.Store
	onChange func([]Value)

	mu      sync.Mutex
	filters []Value
	unsub   func()
}

// NewBuilder returns a Builder. Call Close to stop following the location.
func NewBuilder(opts BuilderOptions) *Builder {
	b := &Builder{
		fields:   opts.Fields,
		param:    opts.ParamName,
		strict:   opts.Strict,
		onChange: opts.OnChange,
		filters:  slices.Clone(opts.InitialFilters),
	}
	if b.param == "" {
		b.param = DefaultParamName
	}
	if b.filters == nil {
		b.filters = []Value{}
	}
	if opts.Fields == nil || opts.Location == nil {
		return b
	}

	b.store = urlstate.NewStore(opts.Location, urlstate.Schema{
		b.param: urlstate.String{},
	})
	if raw := b.store.State().String(b.param); raw != "" {
		b.filters = b.parse(raw)
	}
	b.unsub = b.store.Subscribe(b.locationChanged)
	return b
}

// URLSynced reports whether the builder mirrors its list into a location.
func (b *Builder) URLSynced() bool {
	return b.store != nil
}

// Fields returns the field definitions the builder parses against.
func (b *Builder) Fields() Fields {
	return b.fields
}

// Filters returns a copy of the current list.
func (b *Builder) Filters() []Value {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.filters)
}

// Serialized returns the current list in wire form.
func (b *Builder) Serialized() string {
	return Serialize(b.Filters())
}

// SetFilters replaces the list. In URL-synced mode the serialized list is
// written to the location, or the parameter is removed when empty.
func (b *Builder) SetFilters(filters []Value) {
	next := slices.Clone(filters)
	if next == nil {
		next = []Value{}
	}
	b.mu.Lock()
	b.filters = next
	b.mu.Unlock()

	if b.store != nil {
		b.store.Set(urlstate.State{b.param: Serialize(next)})
	}
	// The write may have been re-synced from the location; report what
	// the builder holds now.
	b.changed(b.Filters())
}

// AddFilter appends v.
func (b *Builder) AddFilter(v Value) {
	b.SetFilters(append(b.Filters(), v))
}

// RemoveFilter removes the filter at index i. Out-of-range indexes are
// ignored.
func (b *Builder) RemoveFilter(i int) {
	cur := b.Filters()
	if i < 0 || i >= len(cur) {
		return
	}
	b.SetFilters(slices.Delete(cur, i, i+1))
}

// UpdateFilter replaces the filter at index i. Out-of-range indexes are
// ignored.
func (b *Builder) UpdateFilter(i int, v Value) {
	cur := b.Filters()
	if i < 0 || i >= len(cur) {
		return
	}
	cur[i] = v
	b.SetFilters(cur)
}

// ClearFilters removes every filter.
func (b *Builder) ClearFilters() {
	b.SetFilters(nil)
}

// Close stops following the location.
func (b *Builder) Close() {
	b.mu.Lock()
	unsub := b.unsub
	b.unsub = nil
	b.mu.Unlock()
	if unsub != nil {
		unsub()
		b.store.Close()
	}
}

func (b *Builder) parse(raw string) []Value {
	if b.strict {
		return ParseStrict(raw, b.fields)
	}
	return Parse(raw, b.fields)
}

// locationChanged adopts the location's list when it differs from the
// in-memory one. Nothing is written back, so a write made by SetFilters
// reads back as equal and stops here.
func (b *Builder) locationChanged(st urlstate.State) {
	fromURL := b.parse(st.String(b.param))

	b.mu.Lock()
	if Serialize(fromURL) == Serialize(b.filters) {
		b.mu.Unlock()
		return
	}
	b.filters = fromURL
	b.mu.Unlock()

	b.changed(fromURL)
}

func (b *Builder) changed(filters []Value) {
	if b.onChange != nil {
		b.onChange(slices.Clone(filters))
	}
}
