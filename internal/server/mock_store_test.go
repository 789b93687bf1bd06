package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/alfredjeanlab/facets/internal/filter"
	"github.com/alfredjeanlab/facets/internal/model"
	"github.com/alfredjeanlab/facets/internal/store"
)

// mockStore is an in-memory store.Store. ListRecords mirrors the Postgres
// COUNT(*) OVER() behavior of reporting a zero total for an empty page.
type mockStore struct {
	mu      sync.Mutex
	records []*model.Record
	views   map[string]*model.View
	lists   []model.RecordFilter // every ListRecords call
}

func newMockStore() *mockStore {
	return &mockStore{views: make(map[string]*model.View)}
}

var _ store.Store = (*mockStore)(nil)

func (m *mockStore) CreateRecord(_ context.Context, r *model.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

func (m *mockStore) GetRecord(_ context.Context, id string) (*model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) ListRecords(_ context.Context, f model.RecordFilter) ([]*model.Record, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists = append(m.lists, f)

	var matched []*model.Record
	for _, r := range m.records {
		if matches(r, f) {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	if f.Offset >= len(matched) {
		return nil, 0, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

func matches(r *model.Record, f model.RecordFilter) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(r.Title), strings.ToLower(f.Search)) {
		return false
	}
	for _, c := range f.Conditions {
		got := columnValue(r, c)
		switch c.Operator {
		case filter.OpIs:
			if got != c.Value {
				return false
			}
		case filter.OpIsNot:
			if got == c.Value {
				return false
			}
		case filter.OpBefore:
			if got == "" || got >= c.Value {
				return false
			}
		case filter.OpAfter:
			if got == "" || got < c.Value {
				return false
			}
		}
	}
	return true
}

func columnValue(r *model.Record, c model.Condition) string {
	if c.Attribute {
		var attrs map[string]any
		_ = json.Unmarshal(r.Fields, &attrs)
		if v, ok := attrs[c.Column]; ok {
			return fmt.Sprint(v)
		}
		return ""
	}
	switch c.Column {
	case "id":
		return r.ID
	case "title":
		return r.Title
	case "status":
		return string(r.Status)
	case "priority":
		return strconv.Itoa(r.Priority)
	case "assignee":
		return r.Assignee
	case "created_at":
		return r.CreatedAt.Format(filter.DateLayout)
	case "updated_at":
		return r.UpdatedAt.Format(filter.DateLayout)
	}
	return ""
}

func (m *mockStore) DistinctValues(_ context.Context, column string, attribute bool, query string, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, r := range m.records {
		v := columnValue(r, model.Condition{Column: column, Attribute: attribute})
		if v == "" || seen[v] || !strings.Contains(strings.ToLower(v), strings.ToLower(query)) {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockStore) SaveView(_ context.Context, v *model.View) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.views[v.Name]; ok {
		v.ID = existing.ID
		v.CreatedAt = existing.CreatedAt
	}
	clone := *v
	m.views[v.Name] = &clone
	return nil
}

func (m *mockStore) GetView(_ context.Context, name string) (*model.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.views[name]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *v
	return &clone, nil
}

func (m *mockStore) ListViews(_ context.Context) ([]*model.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.View
	for _, v := range m.views {
		clone := *v
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockStore) DeleteView(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.views[name]; !ok {
		return sql.ErrNoRows
	}
	delete(m.views, name)
	return nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error {
	return nil
}

// recordingPublisher captures published topics.
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}
