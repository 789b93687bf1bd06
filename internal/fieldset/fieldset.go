// Package fieldset loads filter field definitions from TOML and maps each
// field onto the record attribute it filters.
package fieldset

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/alfredjeanlab/facets/internal/filter"
)

// Record columns a field may target directly. Any other column is read
// from the record's JSON attributes.
var builtinColumns = map[string]bool{
	"id":         true,
	"title":      true,
	"status":     true,
	"priority":   true,
	"assignee":   true,
	"created_at": true,
	"updated_at": true,
}

// IsBuiltinColumn reports whether column is a fixed records column.
func IsBuiltinColumn(column string) bool {
	return builtinColumns[column]
}

type file struct {
	Fields []definition `toml:"fields"`
}

type definition struct {
	ID      string          `toml:"id"`
	Label   string          `toml:"label"`
	Type    string          `toml:"type"`
	Icon    string          `toml:"icon"`
	Column  string          `toml:"column"`
	Options []filter.Option `toml:"options"`
}

// Set is a validated list of fields together with their target columns.
type Set struct {
	fields  filter.Fields
	columns map[string]string
}

// Load reads a field set from a TOML file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading field set: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a field set from TOML.
func Parse(data []byte) (*Set, error) {
	var f file
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("decoding field set: %w", err)
	}
	s := &Set{columns: make(map[string]string, len(f.Fields))}
	for _, d := range f.Fields {
		typ, ok := filter.ParseFieldType(d.Type)
		if !ok {
			return nil, fmt.Errorf("%w: field %q has unknown type %q", filter.ErrInvalidField, d.ID, d.Type)
		}
		column := d.Column
		if column == "" {
			column = d.ID
		}
		s.fields = append(s.fields, filter.Field{
			ID:      d.ID,
			Label:   d.Label,
			Type:    typ,
			Icon:    d.Icon,
			Options: d.Options,
		})
		s.columns[d.ID] = column
	}
	if err := s.fields.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Default returns the field set used when no file is configured.
func Default() *Set {
	s, err := Parse([]byte(defaultTOML))
	if err != nil {
		panic(fmt.Sprintf("fieldset: default definitions: %v", err))
	}
	return s
}

// Fields returns a copy of the field definitions without loaders.
func (s *Set) Fields() filter.Fields {
	out := make(filter.Fields, len(s.fields))
	copy(out, s.fields)
	return out
}

// Lookup returns the field with the given id.
func (s *Set) Lookup(id string) (filter.Field, bool) {
	return s.fields.Lookup(id)
}

// Column returns the record column field id filters on.
func (s *Set) Column(id string) (string, bool) {
	c, ok := s.columns[id]
	return c, ok
}

// WithLoaders returns the fields with a loader bound to every async field.
func (s *Set) WithLoaders(loader func(fieldID string) filter.LoaderFunc) filter.Fields {
	out := s.Fields()
	for i := range out {
		if out[i].Type == filter.TypeAsyncSelect {
			out[i].LoadOptions = loader(out[i].ID)
		}
	}
	return out
}

const defaultTOML = `
[[fields]]
id = "status"
label = "Status"
type = "select"
icon = "◉"

  [[fields.options]]
  value = "open"
  label = "Open"
  color = "#22c55e"

  [[fields.options]]
  value = "in_progress"
  label = "In progress"
  color = "#3b82f6"

  [[fields.options]]
  value = "blocked"
  label = "Blocked"
  color = "#ef4444"

  [[fields.options]]
  value = "closed"
  label = "Closed"
  color = "#64748b"

[[fields]]
id = "priority"
label = "Priority"
type = "select"
icon = "!"

  [[fields.options]]
  value = "0"
  label = "Critical"
  color = "#ef4444"

  [[fields.options]]
  value = "1"
  label = "High"
  color = "#f97316"

  [[fields.options]]
  value = "2"
  label = "Medium"
  color = "#eab308"

  [[fields.options]]
  value = "3"
  label = "Low"
  color = "#64748b"

[[fields]]
id = "assignee"
label = "Assignee"
type = "asyncSelect"
icon = "@"

[[fields]]
id = "created"
label = "Created"
type = "date"
column = "created_at"

[[fields]]
id = "updated"
label = "Updated"
type = "date"
column = "updated_at"
`
