package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"fitpharm-api/internal/i18n"
	"fitpharm-api/internal/service"
)

// MessageResponse is the body of every error and of message-only successes.
type MessageResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR encoding response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, messageID string, data ...map[string]any) {
	writeJSON(w, status, MessageResponse{Message: i18n.T(r.Context(), messageID, data...)})
}

// writeError maps service errors to status codes. Anything else is logged
// and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		log.Printf("ERROR %s %s: %v", r.Method, r.URL.Path, err)
		writeMessage(w, r, http.StatusInternalServerError, "error.internal")
		return
	}

	status := http.StatusInternalServerError
	switch se.Kind {
	case service.KindValidation:
		status = http.StatusBadRequest
	case service.KindUnauthorized:
		status = http.StatusUnauthorized
	case service.KindForbidden:
		status = http.StatusForbidden
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindConflict:
		status = http.StatusConflict
	}
	writeJSON(w, status, MessageResponse{
		Message: i18n.T(r.Context(), se.MessageID, se.Data),
		Fields:  se.Fields,
	})
}

// failAuth adapts writeMessage to the auth middleware.
func failAuth(w http.ResponseWriter, r *http.Request, status int, messageID string) {
	writeMessage(w, r, status, messageID)
}

// decodeJSON reads the request body into v, answering 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "error.bad_json")
		return false
	}
	return true
}

// pathInt parses a numeric path value, answering 400 itself on failure.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, r, http.StatusBadRequest, "error.invalid_id", map[string]any{"ID": raw})
		return 0, false
	}
	return id, true
}
