package server

import (
	"net/http"
	"strings"

	"github.com/alfredjeanlab/facets/internal/fieldset"
	"github.com/alfredjeanlab/facets/internal/filter"
)

// handleListFields handles GET /v1/fields.
func (s *Server) handleListFields(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"fields": s.fields.Fields()})
}

// handleFieldOptions handles GET /v1/fields/{id}/options?q=.
//
// Static fields filter their options by label or value. Async fields
// search the distinct values stored in their column. Date fields return
// the relative shortcuts.
func (s *Server) handleFieldOptions(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	field, ok := s.fields.Lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, "field not found")
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	var opts []filter.Option
	switch field.Type {
	case filter.TypeDate:
		opts = filter.RelativeShortcuts()
	case filter.TypeAsyncSelect:
		col, _ := s.fields.Column(id)
		values, err := s.store.DistinctValues(r.Context(), col, !fieldset.IsBuiltinColumn(col), q, maxOptionResults)
		if err != nil {
			s.writeErr(w, r, err)
			return
		}
		for _, v := range values {
			opts = append(opts, filter.Option{Value: v, Label: v})
		}
	default:
		needle := strings.ToLower(q)
		for _, o := range field.Options {
			if strings.Contains(strings.ToLower(o.Label), needle) || strings.Contains(strings.ToLower(o.Value), needle) {
				opts = append(opts, o)
			}
		}
	}

	if opts == nil {
		opts = []filter.Option{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"options": opts})
}
