package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/oklog/ulid/v2"

	"github.com/alexanderramin/sprintboard/internal/auth"
	"github.com/alexanderramin/sprintboard/internal/domain"
)

// RequestIDHeader carries the per-request ULID back to the caller.
const RequestIDHeader = "X-Request-Id"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	userKey
)

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ulid.Make().String()
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		ev := s.logger.Debug()
		if m.Code >= http.StatusInternalServerError {
			ev = s.logger.Warn()
		}
		ev.Str("request_id", requestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", m.Code).
			Int64("duration_ms", m.Duration.Milliseconds()).
			Msg("http_request")
	})
}

func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			respondError(w, http.StatusUnauthorized, "")
			return
		}
		user, err := s.svc.Auth.Authenticate(r.Context(), strings.TrimSpace(token))
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidToken) {
				s.fail(w, r, err)
				return
			}
			respondError(w, http.StatusUnauthorized, "")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func currentUser(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userKey).(*domain.User)
	return u
}
