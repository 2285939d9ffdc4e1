package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrDuplicateID means an entity with the same id is already held.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrNotFound means no entity with the given id is held.
	ErrNotFound = errors.New("not found")
	// ErrNoParentSelected guards child creation without a selected parent.
	ErrNoParentSelected = errors.New("no project selected")
	// ErrSaveFailed wraps a RemoteFailure raised while submitting a form.
	ErrSaveFailed = errors.New("save failed")
	// ErrUnauthorized matches a RemoteFailure with status 401.
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnknownField = errors.New("unknown field")
	ErrFormClosed   = errors.New("form is closed")
)

// ValidationError lists fields that are missing or invalid. It is detected
// client-side and never reaches the remote API.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

// Names returns every field named by the error.
func (e *ValidationError) Names() []string {
	return append(append([]string{}, e.Missing...), e.Invalid...)
}

// FieldError is returned when a value cannot be assigned to a field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// RemoteFailure is any transport-level failure: network error, non-2xx
// status or authorization failure. Error() is safe to show to users; the
// underlying cause is only reachable through Unwrap.
type RemoteFailure struct {
	Op         string
	StatusCode int
	// Message is the server-provided message, if the server sent one.
	Message string
	Err     error
}

func (e *RemoteFailure) Error() string {
	var reason string
	switch {
	case e.StatusCode == 0:
		reason = "could not reach the server"
	case e.StatusCode == http.StatusUnauthorized && e.Message == "":
		reason = "not logged in or session expired (run: sprintboard login)"
	case e.Message != "":
		reason = e.Message
	case e.StatusCode == http.StatusNotFound:
		reason = "not found on server"
	default:
		reason = fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Op == "" {
		return reason
	}
	return e.Op + ": " + reason
}

func (e *RemoteFailure) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrUnauthorized) detect a 401 response.
func (e *RemoteFailure) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// IsRemoteFailure reports whether err carries a RemoteFailure.
func IsRemoteFailure(err error) bool {
	var rf *RemoteFailure
	return errors.As(err, &rf)
}
