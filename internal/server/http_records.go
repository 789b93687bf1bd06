package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alfredjeanlab/facets/internal/events"
	"github.com/alfredjeanlab/facets/internal/model"
)

// handleListRecords handles GET /v1/records?filters=&page=&limit=&search=&sort=.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	page, err := s.listRecords(r.Context(), r.URL.Query())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.publish(r.Context(), events.TopicRecordsQueried, queriedEvent(page))
	writeJSON(w, http.StatusOK, page)
}

// handleCreateRecord handles POST /v1/records.
func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var rec model.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.createRecord(r.Context(), &rec); err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, &rec)
}

// handleGetRecord handles GET /v1/records/{id}.
func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, err := s.store.GetRecord(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get record")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
