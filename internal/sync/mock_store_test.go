package sync

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alfredjeanlab/facets/internal/model"
	"github.com/alfredjeanlab/facets/internal/store"
)

// mockStore is a minimal in-memory store for sync tests. Only views are
// exported, so record methods are stubs.
type mockStore struct {
	views   map[string]*model.View
	listErr error
}

func newMockStore() *mockStore {
	return &mockStore{views: make(map[string]*model.View)}
}

func (m *mockStore) CreateRecord(context.Context, *model.Record) error { return nil }

func (m *mockStore) GetRecord(context.Context, string) (*model.Record, error) {
	return nil, sql.ErrNoRows
}

func (m *mockStore) ListRecords(context.Context, model.RecordFilter) ([]*model.Record, int, error) {
	return nil, 0, nil
}

func (m *mockStore) DistinctValues(context.Context, string, bool, string, int) ([]string, error) {
	return nil, nil
}

func (m *mockStore) SaveView(_ context.Context, v *model.View) error {
	m.views[v.Name] = v
	return nil
}

func (m *mockStore) GetView(_ context.Context, name string) (*model.View, error) {
	v, ok := m.views[name]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return v, nil
}

// ListViews returns views in map order so ExportJSONL's sort is exercised.
func (m *mockStore) ListViews(context.Context) ([]*model.View, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*model.View, 0, len(m.views))
	for _, v := range m.views {
		out = append(out, v)
	}
	return out, nil
}

func (m *mockStore) DeleteView(_ context.Context, name string) error {
	if _, ok := m.views[name]; !ok {
		return sql.ErrNoRows
	}
	delete(m.views, name)
	return nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }

var errListFailed = errors.New("list failed")
