package server

import (
	"encoding/json"
	"errors"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *Server) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/records", s.handleListRecords)
	mux.HandleFunc("POST /v1/records", s.handleCreateRecord)
	mux.HandleFunc("GET /v1/records/{id}", s.handleGetRecord)
	mux.HandleFunc("GET /v1/fields", s.handleListFields)
	mux.HandleFunc("GET /v1/fields/{id}/options", s.handleFieldOptions)
	mux.HandleFunc("GET /v1/views", s.handleListViews)
	mux.HandleFunc("GET /v1/views/{name}", s.handleGetView)
	mux.HandleFunc("PUT /v1/views/{name}", s.handleSaveView)
	mux.HandleFunc("DELETE /v1/views/{name}", s.handleDeleteView)
	mux.HandleFunc("GET /v1/views/{name}/records", s.handleViewRecords)
	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return AuthMiddleware(authToken, mux)
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeErr maps input errors to 400 and everything else to 500.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var ie inputError
	if errors.As(err, &ie) {
		writeError(w, http.StatusBadRequest, ie.Error())
		return
	}
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}
