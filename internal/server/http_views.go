package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alfredjeanlab/facets/internal/events"
	"github.com/alfredjeanlab/facets/internal/model"
)

// handleListViews handles GET /v1/views.
func (s *Server) handleListViews(w http.ResponseWriter, r *http.Request) {
	views, err := s.store.ListViews(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list views")
		return
	}
	if views == nil {
		views = []*model.View{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"views": views})
}

// handleGetView handles GET /v1/views/{name}.
func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	v, ok := s.lookupView(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleSaveView handles PUT /v1/views/{name} with body {"query": "..."}.
func (s *Server) handleSaveView(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	v, err := s.saveView(r.Context(), r.PathValue("name"), in.Query)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleDeleteView handles DELETE /v1/views/{name}.
func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	err := s.store.DeleteView(r.Context(), name)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "view not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete view")
		return
	}
	s.publish(r.Context(), events.TopicViewDeleted, events.ViewDeleted{Name: name})
	w.WriteHeader(http.StatusNoContent)
}

// handleViewRecords handles GET /v1/views/{name}/records?page=&limit=.
func (s *Server) handleViewRecords(w http.ResponseWriter, r *http.Request) {
	v, ok := s.lookupView(w, r)
	if !ok {
		return
	}
	page, err := s.viewRecords(r.Context(), v, r.URL.Query())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.publish(r.Context(), events.TopicRecordsQueried, queriedEvent(page))
	writeJSON(w, http.StatusOK, page)
}

// lookupView fetches the view named in the path, writing 404 or 500 on failure.
func (s *Server) lookupView(w http.ResponseWriter, r *http.Request) (*model.View, bool) {
	v, err := s.store.GetView(r.Context(), r.PathValue("name"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "view not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get view")
		return nil, false
	}
	return v, true
}
