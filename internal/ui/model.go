package ui

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alfredjeanlab/facets/internal/filter"
)

// focusRegion selects which part of the builder receives keys.
type focusRegion int

const (
	focusChips focusRegion = iota
	focusMenu
)

// menuUpdatedMsg is delivered after the menu applies async options.
type menuUpdatedMsg struct{}

// ModelOptions configures the menu of a Model.
type ModelOptions struct {
	Debounce time.Duration
	MinQuery int
	Now      func() time.Time
	Logger   *slog.Logger
	Keys     *KeyMap
}

// Model is the interactive filter builder: a row of chips over a
// filter.Builder and a menu that adds new filters. It implements
// tea.Model. The builder is shared, so its final list is the result.
type Model struct {
	builder *filter.Builder
	menu    *filter.Menu
	keys    KeyMap
	input   textinput.Model
	updates chan struct{}

	focus      focusRegion
	chipCursor int
	cursor     int
	status     string

	applied   bool
	cancelled bool
}

// NewModel returns a builder model editing b. Fields with loaders in
// b.Fields() search their options as the user types.
func NewModel(b *filter.Builder, opts ModelOptions) Model {
	updates := make(chan struct{}, 1)
	menu := filter.NewMenu(b.Fields(), filter.MenuOptions{
		OnCommit: b.AddFilter,
		OnUpdate: func() {
			select {
			case updates <- struct{}{}:
			default:
			}
		},
		Debounce: opts.Debounce,
		MinQuery: opts.MinQuery,
		Now:      opts.Now,
		Logger:   opts.Logger,
	})

	keys := DefaultKeyMap
	if opts.Keys != nil {
		keys = *opts.Keys
	}

	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "Search..."

	return Model{
		builder: b,
		menu:    menu,
		keys:    keys,
		input:   input,
		updates: updates,
	}
}

// Applied reports whether the user confirmed the filters.
func (m Model) Applied() bool {
	return m.applied
}

// Cancelled reports whether the user quit without applying.
func (m Model) Cancelled() bool {
	return m.cancelled
}

// Menu returns the model's menu.
func (m Model) Menu() *filter.Menu {
	return m.menu
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return listenForMenuUpdate(m.updates)
}

// listenForMenuUpdate returns a tea.Cmd that blocks until the menu
// signals an async update.
func listenForMenuUpdate(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-updates; !ok {
			return nil
		}
		return menuUpdatedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case menuUpdatedMsg:
		m.clampCursor()
		return m, listenForMenuUpdate(m.updates)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		if m.focus == focusMenu {
			return m.handleMenuKeys(msg)
		}
		return m.handleChipKeys(msg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.menu.Close()
	m.cancelled = true
	return m, tea.Quit
}

func (m Model) handleChipKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	chips := filter.Chips(m.builder.Filters(), m.builder.Fields())
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Apply):
		m.applied = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.AddFilter):
		return m.openMenu()
	case key.Matches(msg, m.keys.PrevChip):
		if m.chipCursor > 0 {
			m.chipCursor--
		}
	case key.Matches(msg, m.keys.NextChip):
		if m.chipCursor < len(chips)-1 {
			m.chipCursor++
		}
	case key.Matches(msg, m.keys.ToggleOperator):
		if c, ok := chipAt(chips, m.chipCursor); ok {
			m.builder.UpdateFilter(c.Index, c.ToggleOperator())
		}
	case key.Matches(msg, m.keys.RemoveChip):
		if c, ok := chipAt(chips, m.chipCursor); ok {
			m.builder.RemoveFilter(c.Index)
			if m.chipCursor >= len(chips)-1 && m.chipCursor > 0 {
				m.chipCursor--
			}
		}
	case key.Matches(msg, m.keys.ClearAll):
		m.builder.ClearFilters()
		m.chipCursor = 0
	}
	return m, nil
}

func chipAt(chips []filter.Chip, i int) (filter.Chip, bool) {
	if i < 0 || i >= len(chips) {
		return filter.Chip{}, false
	}
	return chips[i], true
}

func (m Model) openMenu() (tea.Model, tea.Cmd) {
	m.menu.Open()
	m.focus = focusMenu
	m.cursor = 0
	m.input.Reset()
	return m, m.input.Focus()
}

func (m Model) closeMenu() Model {
	m.menu.Close()
	m.focus = focusChips
	m.cursor = 0
	m.input.Reset()
	m.input.Blur()
	return m
}

func (m Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.menu.Snapshot()
	switch {
	case key.Matches(msg, m.keys.Back):
		m.status = ""
		if _, ok := snap.Step.(filter.ValuesStep); ok {
			m.menu.Back()
			m.cursor = 0
			m.input.SetValue(snap.FieldSearch)
			return m, nil
		}
		return m.closeMenu(), nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(MenuItems(snap))-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Select):
		return m.selectItem(snap)
	}

	if !isFieldsStep(snap) && !snap.ShowValueSearch && !snap.DatePicker {
		return m, nil
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.status = ""
		m.cursor = 0
		switch {
		case snap.DatePicker:
		case isFieldsStep(snap):
			m.menu.SetFieldSearch(after)
		default:
			m.menu.SetValueSearch(after)
		}
	}
	return m, cmd
}

func isFieldsStep(snap filter.MenuSnapshot) bool {
	_, ok := snap.Step.(filter.FieldsStep)
	return ok
}

// selectItem acts on the highlighted row, or on the typed date when the
// date picker is open.
func (m Model) selectItem(snap filter.MenuSnapshot) (tea.Model, tea.Cmd) {
	if snap.DatePicker {
		day, err := time.Parse(filter.DateLayout, strings.TrimSpace(m.input.Value()))
		if err != nil {
			m.status = "invalid date, want " + filter.DateLayout
			return m, nil
		}
		m.menu.SelectDate(day)
		return m.afterCommit(), nil
	}

	items := MenuItems(snap)
	if m.cursor < 0 || m.cursor >= len(items) {
		return m, nil
	}
	it := items[m.cursor]

	switch step := snap.Step.(type) {
	case filter.FieldsStep:
		m.menu.SelectField(*it.Field)
		m.cursor = 0
		m.input.Reset()
		return m, nil
	case filter.ValuesStep:
		if step.Field.Type == filter.TypeDate {
			if it.Value == customDateValue {
				m.menu.ShowDatePicker()
				m.input.Reset()
				m.input.Placeholder = m.menu.Today().Format(filter.DateLayout)
				return m, nil
			}
			m.menu.SelectRelative(strings.TrimPrefix(it.Value, filter.RelativePrefix))
			return m.afterCommit(), nil
		}
		m.menu.SelectValue(it.Value, it.Label)
		return m.afterCommit(), nil
	}
	return m, nil
}

// afterCommit returns focus to the chip row on the new chip.
func (m Model) afterCommit() Model {
	m = m.closeMenu()
	m.input.Placeholder = "Search..."
	m.chipCursor = max(len(m.builder.Filters())-1, 0)
	return m
}

func (m *Model) clampCursor() {
	n := len(MenuItems(m.menu.Snapshot()))
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	chips := filter.Chips(m.builder.Filters(), m.builder.Fields())
	selected := -1
	if m.focus == focusChips {
		selected = m.chipCursor
	}

	sections := []string{RenderChips(chips, selected)}
	help := m.keys.chipHelp()
	if m.focus == focusMenu {
		snap := m.menu.Snapshot()
		input := ""
		if isFieldsStep(snap) || snap.ShowValueSearch || snap.DatePicker {
			input = m.input.View()
		}
		sections = append(sections, RenderMenu(snap, input, m.cursor))
		help = m.keys.menuHelp()
	}
	if m.status != "" {
		sections = append(sections, RenderAccent(m.status))
	}
	sections = append(sections, renderHelp(help))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, RenderCommand(h.Key)+" "+RenderMuted(h.Desc))
	}
	return strings.Join(parts, RenderMuted(" • "))
}
