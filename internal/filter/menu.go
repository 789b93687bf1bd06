package filter

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Menu defaults.
const (
	DefaultDebounce = 300 * time.Millisecond
	DefaultMinQuery = 2

	// searchThreshold is the static option count above which the value
	// step offers a search box.
	searchThreshold = 6
)

// Step is the menu's position in the field-then-value flow. It is either
// FieldsStep or ValuesStep.
type Step interface {
	step()
}

// FieldsStep lists the fields to filter on.
type FieldsStep struct{}

// ValuesStep lists the values of Field.
type ValuesStep struct {
	Field Field
}

func (FieldsStep) step() {}
func (ValuesStep) step() {}

// EmptyState explains why the value step shows no options.
type EmptyState int

const (
	EmptyNone EmptyState = iota
	EmptyLoading
	EmptyTypeToSearch
	EmptyNoResults
)

// String returns the message shown for the state.
func (e EmptyState) String() string {
	switch e {
	case EmptyLoading:
		return "Loading..."
	case EmptyTypeToSearch:
		return "Type to search..."
	case EmptyNoResults:
		return "No results"
	}
	return ""
}

// MenuOptions configures a Menu.
type MenuOptions struct {
	// OnCommit receives each value picked in the value step.
	OnCommit func(Value)

	// OnUpdate runs after asynchronously loaded options are applied.
	OnUpdate func()

	Debounce time.Duration
	MinQuery int
	Now      func() time.Time
	Logger   *slog.Logger
}

// MenuSnapshot is a consistent copy of the menu state for rendering.
type MenuSnapshot struct {
	Open            bool
	Step            Step
	FieldSearch     string
	ValueSearch     string
	Fields          []Field
	Options         []Option
	Loading         bool
	DatePicker      bool
	Empty           EmptyState
	ShowValueSearch bool
}

// Menu is the two-step picker that produces new filters: choose a field,
// then choose one of its values. Picking a value commits a filter with the
// field type's default operator and closes the menu.
//
// Async fields load options on a separate goroutine after a quiet period.
// A keystroke, step change, or close cancels the pending load, and a load
// that finishes after being superseded is discarded.
type Menu struct {
	fields Fields
	opts   MenuOptions
	logger *slog.Logger

	mu           sync.Mutex
	open         bool
	step         Step
	fieldSearch  string
	valueSearch  string
	datePicker   bool
	asyncOptions []Option
	loading      bool

	generation uint64
	timer      *time.Timer
	cancel     context.CancelFunc
	inflight   sync.WaitGroup
}

// NewMenu returns a closed menu over fields.
func NewMenu(fields Fields, opts MenuOptions) *Menu {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MinQuery <= 0 {
		opts.MinQuery = DefaultMinQuery
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Menu{
		fields: fields,
		opts:   opts,
		logger: logger,
		step:   FieldsStep{},
	}
}

// Open shows the menu.
func (m *Menu) Open() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = true
}

// Close hides the menu and resets it to the field step with empty
// searches. Pending loads are cancelled.
func (m *Menu) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

// IsOpen reports whether the menu is shown.
func (m *Menu) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Step returns the current step.
func (m *Menu) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// SetFieldSearch sets the field step's search text.
func (m *Menu) SetFieldSearch(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fieldSearch = s
}

// VisibleFields returns the fields whose label contains the search text,
// ignoring case.
func (m *Menu) VisibleFields() []Field {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visibleFieldsLocked()
}

// SelectField moves to the value step for f.
func (m *Menu) SelectField(f Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelPendingLocked()
	m.step = ValuesStep{Field: f}
	m.valueSearch = ""
	m.asyncOptions = nil
	m.datePicker = false
}

// Back returns to the field step.
func (m *Menu) Back() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelPendingLocked()
	m.step = FieldsStep{}
	m.valueSearch = ""
	m.asyncOptions = nil
	m.datePicker = false
}

// SelectValue commits value for the current field and closes the menu. It
// reports false, and does nothing, when the menu is closed, outside the
// value step, or for a value the filters parameter cannot carry.
func (m *Menu) SelectValue(value, label string) bool {
	m.mu.Lock()
	vs, ok := m.step.(ValuesStep)
	if !m.open || !ok || !Serializable(value) {
		m.mu.Unlock()
		return false
	}
	v := Value{
		Field:    vs.Field.ID,
		Operator: DefaultOperator(vs.Field.Type),
		Value:    value,
		Label:    label,
	}
	m.resetLocked()
	commit := m.opts.OnCommit
	m.mu.Unlock()

	if commit != nil {
		commit(v)
	}
	return true
}

// RelativeShortcuts returns the relative date choices offered for date
// fields.
func (m *Menu) RelativeShortcuts() []Option {
	return RelativeShortcuts()
}

// SelectRelative commits the relative date marker for token. It reports
// false for unknown tokens or when the current field is not a date.
func (m *Menu) SelectRelative(token string) bool {
	label, ok := relativeLabels[token]
	if !ok || !m.inDateStep() {
		return false
	}
	return m.SelectValue(RelativePrefix+token, label)
}

// ShowDatePicker switches the date step to absolute date entry.
func (m *Menu) ShowDatePicker() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if vs, ok := m.step.(ValuesStep); ok && vs.Field.Type == TypeDate {
		m.datePicker = true
	}
}

// DatePickerOpen reports whether absolute date entry is shown.
func (m *Menu) DatePickerOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.datePicker
}

// SelectDate commits day as a YYYY-MM-DD value.
func (m *Menu) SelectDate(day time.Time) bool {
	if !m.inDateStep() {
		return false
	}
	return m.SelectValue(day.Format(DateLayout), "")
}

// Today returns the current day according to the menu's clock.
func (m *Menu) Today() time.Time {
	return m.opts.Now()
}

func (m *Menu) inDateStep() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	vs, ok := m.step.(ValuesStep)
	return ok && vs.Field.Type == TypeDate
}

// SetValueSearch sets the value step's search text. For async fields this
// starts a debounced load once the text is long enough, superseding any
// load already pending.
func (m *Menu) SetValueSearch(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.valueSearch = s

	vs, ok := m.step.(ValuesStep)
	if !ok || vs.Field.Type != TypeAsyncSelect {
		return
	}
	m.cancelPendingLocked()
	if vs.Field.LoadOptions == nil || utf8.RuneCountInString(s) < m.opts.MinQuery {
		m.asyncOptions = nil
		return
	}

	gen := m.generation
	ctx, cancel := context.WithCancel(context.Background())
	load := vs.Field.LoadOptions
	m.cancel = cancel
	m.loading = true
	m.inflight.Add(1)
	m.timer = time.AfterFunc(m.opts.Debounce, func() {
		defer m.inflight.Done()
		m.runLoad(ctx, gen, load, s)
	})
}

// ValueSearch returns the value step's search text.
func (m *Menu) ValueSearch() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.valueSearch
}

// Loading reports whether an async load is pending.
func (m *Menu) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Options returns the options shown in the value step.
func (m *Menu) Options() []Option {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.optionsLocked()
}

// EmptyState explains an empty option list in the value step.
func (m *Menu) EmptyState() EmptyState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emptyStateLocked(m.optionsLocked())
}

// ShowValueSearch reports whether the value step offers a search box.
func (m *Menu) ShowValueSearch() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.showValueSearchLocked()
}

// Snapshot returns the whole menu state in one consistent read.
func (m *Menu) Snapshot() MenuSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	opts := m.optionsLocked()
	return MenuSnapshot{
		Open:            m.open,
		Step:            m.step,
		FieldSearch:     m.fieldSearch,
		ValueSearch:     m.valueSearch,
		Fields:          m.visibleFieldsLocked(),
		Options:         opts,
		Loading:         m.loading,
		DatePicker:      m.datePicker,
		Empty:           m.emptyStateLocked(opts),
		ShowValueSearch: m.showValueSearchLocked(),
	}
}

// Wait blocks until every scheduled load has finished or been cancelled.
func (m *Menu) Wait() {
	m.inflight.Wait()
}

func (m *Menu) runLoad(ctx context.Context, gen uint64, load LoaderFunc, query string) {
	opts, err := load(ctx, query)

	m.mu.Lock()
	if gen != m.generation || ctx.Err() != nil {
		m.mu.Unlock()
		return
	}
	if err != nil {
		m.logger.Debug("filter: option load failed", "query", query, "err", err)
		opts = nil
	}
	m.asyncOptions = slices.DeleteFunc(slices.Clone(opts), func(o Option) bool {
		return !Serializable(o.Value)
	})
	m.loading = false
	m.cancel()
	m.cancel = nil
	m.timer = nil
	update := m.opts.OnUpdate
	m.mu.Unlock()

	if update != nil {
		update()
	}
}

// cancelPendingLocked invalidates any scheduled or running load.
func (m *Menu) cancelPendingLocked() {
	m.generation++
	if m.timer != nil {
		if m.timer.Stop() {
			m.inflight.Done()
		}
		m.timer = nil
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.loading = false
}

func (m *Menu) resetLocked() {
	m.cancelPendingLocked()
	m.open = false
	m.step = FieldsStep{}
	m.fieldSearch = ""
	m.valueSearch = ""
	m.asyncOptions = nil
	m.datePicker = false
}

func (m *Menu) visibleFieldsLocked() []Field {
	if m.fieldSearch == "" {
		return slices.Clone(m.fields)
	}
	search := strings.ToLower(m.fieldSearch)
	var out []Field
	for _, f := range m.fields {
		if strings.Contains(strings.ToLower(f.Label), search) {
			out = append(out, f)
		}
	}
	return out
}

func (m *Menu) optionsLocked() []Option {
	vs, ok := m.step.(ValuesStep)
	if !ok {
		return nil
	}
	if vs.Field.Type == TypeAsyncSelect {
		return slices.Clone(m.asyncOptions)
	}
	if m.valueSearch == "" {
		return slices.Clone(vs.Field.Options)
	}
	search := strings.ToLower(m.valueSearch)
	var out []Option
	for _, o := range vs.Field.Options {
		if strings.Contains(strings.ToLower(o.Label), search) {
			out = append(out, o)
		}
	}
	return out
}

func (m *Menu) emptyStateLocked(opts []Option) EmptyState {
	vs, ok := m.step.(ValuesStep)
	if !ok || vs.Field.Type == TypeDate || len(opts) > 0 {
		return EmptyNone
	}
	if m.loading {
		return EmptyLoading
	}
	if vs.Field.Type == TypeAsyncSelect && utf8.RuneCountInString(m.valueSearch) < m.opts.MinQuery {
		return EmptyTypeToSearch
	}
	return EmptyNoResults
}

func (m *Menu) showValueSearchLocked() bool {
	vs, ok := m.step.(ValuesStep)
	if !ok {
		return false
	}
	return vs.Field.Type == TypeAsyncSelect || len(vs.Field.Options) > searchThreshold
}
