package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Entity is anything the remote API identifies by an opaque id.
type Entity interface {
	EntityID() string
}

// Child is an entity scoped to a parent (backlog item and sprint to a project).
type Child interface {
	Entity
	ParentID() string
	// ParentField is the field name that carries the parent reference.
	ParentField() string
}

// Record is an entity whose fields can be read and written by name.
// WithField returns a modified copy; the receiver is never mutated.
type Record[T any] interface {
	Entity
	Field(name string) string
	WithField(name, value string) (T, error)
}

// HasStatus is implemented by entities with a lifecycle status.
type HasStatus interface {
	CurrentStatus() Status
}

// HasPriority is implemented by prioritised entities.
type HasPriority interface {
	PriorityLevel() Priority
}

// Required field lists used when no caller-specific list is given.
var (
	ProjectRequired = []string{"title", "description", "owner", "createdAt"}
	BacklogRequired = []string{"title", "description", "project", "createdAt"}
	SprintRequired  = []string{"name", "startDate", "endDate", "project"}
	TaskRequired    = []string{"title", "project"}
)

const DateLayout = "2006-01-02"

// ParseDate accepts a plain date or a full RFC 3339 timestamp.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if len(s) >= len(DateLayout) {
		if t, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate returns the date part of a stored timestamp, or the raw
// value if it cannot be parsed.
func FormatDate(s string) string {
	if t, ok := ParseDate(s); ok {
		return t.Format(DateLayout)
	}
	return s
}

// Validate checks the required fields of a record.
func Validate[T Record[T]](e T, required []string) error {
	var missing []string
	for _, name := range required {
		if strings.TrimSpace(e.Field(name)) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Missing: missing}
}

func unknownField(kind, name string) error {
	return &FieldError{Field: name, Err: fmt.Errorf("%s has no field %q: %w", kind, name, ErrUnknownField)}
}

func parseCount(name, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, &FieldError{Field: name, Value: value, Err: fmt.Errorf("must be a non-negative number")}
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
