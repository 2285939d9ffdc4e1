package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexanderramin/sprintboard/internal/auth"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/repository"
	"github.com/alexanderramin/sprintboard/internal/service"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondError writes {"message": ...}. An empty message leaves the body
// empty so clients fall back to their own wording for the status.
func respondError(w http.ResponseWriter, status int, message string) {
	body := map[string]string{}
	if message != "" {
		body["message"] = message
	}
	respondJSON(w, status, body)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}

// fail maps a service error to a status. Unexpected errors are logged and
// reported without detail.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrConflict):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, "")
	default:
		s.logger.Error().Err(err).
			Str("request_id", requestID(r.Context())).
			Str("path", r.URL.Path).
			Msg("handler_failed")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
