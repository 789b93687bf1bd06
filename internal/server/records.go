package server

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/alfredjeanlab/facets/internal/events"
	"github.com/alfredjeanlab/facets/internal/fieldset"
	"github.com/alfredjeanlab/facets/internal/filter"
	"github.com/alfredjeanlab/facets/internal/idgen"
	"github.com/alfredjeanlab/facets/internal/model"
	"github.com/alfredjeanlab/facets/internal/pagination"
	"github.com/alfredjeanlab/facets/internal/urlstate"
)

// RecordsPage is one page of records for a URL query.
type RecordsPage struct {
	Records []*model.Record `json:"records"`
	Filters []filter.Value  `json:"filters"`
	pagination.State

	// Query is the canonical form of the request query: invalid filters
	// dropped, the page clamped, and defaults omitted.
	Query string `json:"query"`
}

// listRecords resolves the filters, page and limit in query and returns
// the matching page. A page past the end is clamped to the last page.
func (s *Server) listRecords(ctx context.Context, query url.Values) (*RecordsPage, error) {
	loc := urlstate.NewStaticLocation(query)
	p := pagination.New(loc, pagination.Options{
		DefaultLimit: s.defaultLimit,
		Logger:       s.logger,
	})
	defer p.Close()
	b := filter.NewBuilder(filter.BuilderOptions{
		Fields:   s.fields.Fields(),
		Location: loc,
		Strict:   true,
	})
	defer b.Close()

	filters := b.Filters()
	conds, err := s.conditions(filters)
	if err != nil {
		return nil, err
	}

	rf := model.RecordFilter{
		Conditions: conds,
		Search:     strings.TrimSpace(query.Get("search")),
		Sort:       query.Get("sort"),
		Limit:      p.Limit(),
		Offset:     (p.RequestedPage() - 1) * p.Limit(),
	}
	records, total, err := s.store.ListRecords(ctx, rf)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	// An empty page past the end carries no total; count from the start
	// and fetch the clamped page.
	if len(records) == 0 && rf.Offset > 0 {
		rf.Offset = 0
		if records, total, err = s.store.ListRecords(ctx, rf); err != nil {
			return nil, fmt.Errorf("list records: %w", err)
		}
		p.SetTotalCount(total)
		if off := p.Offset(); off > 0 {
			rf.Offset = off
			if records, total, err = s.store.ListRecords(ctx, rf); err != nil {
				return nil, fmt.Errorf("list records: %w", err)
			}
		}
	}
	p.SetTotalCount(total)

	// Write the canonical filters, limit and clamped page back through the
	// same location so the reported query matches what was served.
	st := p.State()
	b.SetFilters(filters)
	p.SetLimit(st.Limit)
	p.SetPage(st.Page)

	if records == nil {
		records = []*model.Record{}
	}
	return &RecordsPage{
		Records: records,
		Filters: filters,
		State:   st,
		Query:   loc.Encode(),
	}, nil
}

// conditions maps parsed filters onto storage columns. Date values are
// resolved to calendar days against the server clock.
func (s *Server) conditions(filters []filter.Value) ([]model.Condition, error) {
	now := s.now()
	conds := make([]model.Condition, 0, len(filters))
	for _, v := range filters {
		field, ok := s.fields.Lookup(v.Field)
		if !ok {
			continue
		}
		col, _ := s.fields.Column(v.Field)
		value := v.Value
		if field.Type == filter.TypeDate {
			day, ok := filter.ResolveDate(v.Value, now)
			if !ok {
				return nil, inputError(fmt.Sprintf("invalid date %q for %s", v.Value, v.Field))
			}
			value = day.Format(filter.DateLayout)
		}
		conds = append(conds, model.Condition{
			Column:    col,
			Attribute: !fieldset.IsBuiltinColumn(col),
			Operator:  v.Operator,
			Value:     value,
		})
	}
	return conds, nil
}

// createRecord validates and stores a new record.
func (s *Server) createRecord(ctx context.Context, r *model.Record) error {
	if r.Status == "" {
		r.Status = model.StatusOpen
	}
	if err := model.ValidateRecord(r); err != nil {
		return inputError(err.Error())
	}
	if r.ID == "" {
		id, err := idgen.RecordID()
		if err != nil {
			return err
		}
		r.ID = id
	}
	now := s.now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	if err := s.store.CreateRecord(ctx, r); err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	s.publish(ctx, events.TopicRecordCreated, events.RecordCreated{Record: r})
	return nil
}

func queriedEvent(page *RecordsPage) events.RecordsQueried {
	return events.RecordsQueried{
		Query:      page.Query,
		Conditions: len(page.Filters),
		Page:       page.Page,
		Limit:      page.Limit,
		TotalCount: page.TotalCount,
	}
}
