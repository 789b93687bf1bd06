package server

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/alfredjeanlab/facets/internal/events"
	"github.com/alfredjeanlab/facets/internal/filter"
	"github.com/alfredjeanlab/facets/internal/idgen"
	"github.com/alfredjeanlab/facets/internal/model"
	"github.com/alfredjeanlab/facets/internal/pagination"
	"github.com/alfredjeanlab/facets/internal/urlstate"
)

// canonicalViewQuery rewrites a query string into the form saved with a
// view: invalid filters dropped, a non-default limit kept, and the page
// removed. Other parameters pass through unchanged.
func (s *Server) canonicalViewQuery(raw string) (string, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return "", inputError("query is not a valid query string")
	}
	loc := urlstate.NewStaticLocation(values)

	b := filter.NewBuilder(filter.BuilderOptions{
		Fields:   s.fields.Fields(),
		Location: loc,
		Strict:   true,
	})
	b.SetFilters(b.Filters())
	b.Close()

	p := pagination.New(loc, pagination.Options{DefaultLimit: s.defaultLimit, Logger: s.logger})
	p.SetLimit(p.Limit())
	p.Close()

	return loc.Encode(), nil
}

// saveView creates the named view or replaces its query.
func (s *Server) saveView(ctx context.Context, name, rawQuery string) (*model.View, error) {
	query, err := s.canonicalViewQuery(rawQuery)
	if err != nil {
		return nil, err
	}
	id, err := idgen.ViewID()
	if err != nil {
		return nil, err
	}
	v := &model.View{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Query:     query,
		CreatedAt: s.now().UTC(),
	}
	if err := model.ValidateView(v); err != nil {
		return nil, inputError(err.Error())
	}
	if err := s.store.SaveView(ctx, v); err != nil {
		return nil, fmt.Errorf("save view: %w", err)
	}
	s.publish(ctx, events.TopicViewSaved, events.ViewSaved{View: v})
	return v, nil
}

// viewRecords lists records for a saved view. Page and limit given in
// overrides take precedence over the view's own.
func (s *Server) viewRecords(ctx context.Context, v *model.View, overrides url.Values) (*RecordsPage, error) {
	values, err := url.ParseQuery(v.Query)
	if err != nil {
		return nil, fmt.Errorf("view %s: %w", v.Name, err)
	}
	for _, key := range []string{pagination.DefaultPageParam, pagination.DefaultLimitParam} {
		if o := overrides.Get(key); o != "" {
			values.Set(key, o)
		}
	}
	return s.listRecords(ctx, values)
}
