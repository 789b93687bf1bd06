// Package client provides a transport-agnostic interface for the facets
// service and an HTTP/JSON implementation that talks to the facets REST API.
package client

import (
	"context"
	"net/url"

	"github.com/alfredjeanlab/facets/internal/filter"
	"github.com/alfredjeanlab/facets/internal/model"
	"github.com/alfredjeanlab/facets/internal/pagination"
)

// FacetsClient is the interface that all facets CLI commands use to
// communicate with the server. It is implemented by HTTPClient.
type FacetsClient interface {
	// Records
	ListRecords(ctx context.Context, query url.Values) (*RecordsPage, error)
	GetRecord(ctx context.Context, id string) (*model.Record, error)
	CreateRecord(ctx context.Context, rec *model.Record) (*model.Record, error)

	// Fields
	Fields(ctx context.Context) (filter.Fields, error)
	SearchOptions(ctx context.Context, fieldID, query string) ([]filter.Option, error)

	// Views
	ListViews(ctx context.Context) ([]*model.View, error)
	GetView(ctx context.Context, name string) (*model.View, error)
	SaveView(ctx context.Context, name, query string) (*model.View, error)
	DeleteView(ctx context.Context, name string) error
	ViewRecords(ctx context.Context, name string, overrides url.Values) (*RecordsPage, error)

	// Health
	Health(ctx context.Context) (string, error)
}

// RecordsPage is one page of records as returned by the server.
type RecordsPage struct {
	Records []*model.Record `json:"records"`
	Filters []filter.Value  `json:"filters"`
	pagination.State

	// Query is the canonical query the server resolved the request to.
	Query string `json:"query"`
}

// Loader returns a LoaderFunc that searches the options of fieldID on
// the server. It is meant for async-select fields in interactive menus.
func Loader(c FacetsClient, fieldID string) filter.LoaderFunc {
	return func(ctx context.Context, query string) ([]filter.Option, error) {
		return c.SearchOptions(ctx, fieldID, query)
	}
}
