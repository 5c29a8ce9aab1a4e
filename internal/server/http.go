package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ANUPAM4545/taskboard-pro/internal/model"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *BoardServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	mux.HandleFunc("GET /v1/board", s.handleGetBoard)
	mux.HandleFunc("GET /v1/board/view", s.handleGetView)
	mux.HandleFunc("GET /v1/stats", s.handleGetStats)
	mux.HandleFunc("GET /v1/reminders", s.handleGetReminders)
	mux.HandleFunc("GET /v1/calendar", s.handleGetCalendar)
	mux.HandleFunc("POST /v1/tasks", s.handleAddTask)
	mux.HandleFunc("GET /v1/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PATCH /v1/tasks/{id}", s.handleEditTask)
	mux.HandleFunc("DELETE /v1/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("POST /v1/tasks/{id}/move", s.handleMoveTask)
	mux.HandleFunc("GET /v1/labels", s.handleListLabels)
	mux.HandleFunc("POST /v1/labels", s.handleAddLabel)
	mux.HandleFunc("PATCH /v1/labels/{id}", s.handleEditLabel)
	mux.HandleFunc("DELETE /v1/labels/{id}", s.handleDeleteLabel)
	mux.HandleFunc("GET /v1/filter", s.handleGetFilter)
	mux.HandleFunc("PUT /v1/filter", s.handleSetFilter)
	mux.HandleFunc("GET /v1/events", s.handleListEvents)
	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
	return AuthMiddleware(authToken, mux)
}

// handleHealth handles GET /v1/health.
func (s *BoardServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
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

// errorResponse is the body written for failed board operations.
type errorResponse struct {
	Error  string             `json:"error"`
	Fields []model.FieldError `json:"fields,omitempty"`
}

// statusFor maps an operation error to an HTTP status. Anything that is not
// a domain error, persistence failures included, is a 500.
func statusFor(err error) int {
	switch {
	case model.IsValidation(err):
		return http.StatusBadRequest
	case model.IsNotFound(err):
		return http.StatusNotFound
	case model.IsInvariant(err):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeOpError writes err with the status statusFor picks.
func writeOpError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		resp.Fields = ve.Errors
	}
	writeJSON(w, statusFor(err), resp)
}

// decodeBody decodes a JSON request body into v, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// decodeTaskBody is decodeBody for task payloads. An unparsable due date is
// reported as a validation failure on due_date, not as a malformed body.
func decodeTaskBody(r *http.Request, v any) error {
	err := decodeBody(r, v)
	var pe *time.ParseError
	if errors.As(err, &pe) {
		return &model.ValidationError{Errors: []model.FieldError{
			{Field: "due_date", Message: "must be a YYYY-MM-DD date"},
		}}
	}
	return err
}

// rejectBody writes the response for a body decodeTaskBody refused. Field
// errors go through reportFailure like any other validation failure.
func (s *BoardServer) rejectBody(w http.ResponseWriter, r *http.Request, op string, err error) {
	if model.IsValidation(err) {
		s.reportFailure(r.Context(), op, err)
		writeOpError(w, err)
		return
	}
	writeError(w, http.StatusBadRequest, "invalid JSON body")
}
