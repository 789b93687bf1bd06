package store

import (
	"context"

	"github.com/alfredjeanlab/facets/internal/model"
)

// Store defines the persistence interface for records and saved views.
// Lookups of missing rows return sql.ErrNoRows.
type Store interface {
	// Records
	CreateRecord(ctx context.Context, record *model.Record) error
	GetRecord(ctx context.Context, id string) (*model.Record, error)
	ListRecords(ctx context.Context, filter model.RecordFilter) ([]*model.Record, int, error) // returns records, total count, error

	// DistinctValues returns up to limit distinct non-empty values of a
	// column whose text contains query, ignoring case.
	DistinctValues(ctx context.Context, column string, attribute bool, query string, limit int) ([]string, error)

	// Views
	SaveView(ctx context.Context, view *model.View) error
	GetView(ctx context.Context, name string) (*model.View, error)
	ListViews(ctx context.Context) ([]*model.View, error)
	DeleteView(ctx context.Context, name string) error

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
