package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// ErrConflict is returned when an insert collides with an existing key.
var ErrConflict = errors.New("already exists")

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func insertErr(kind string, err error) error {
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%s %w", kind, ErrConflict)
	}
	if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return fmt.Errorf("project %w", domain.ErrNotFound)
	}
	return fmt.Errorf("inserting %s: %w", kind, err)
}

func notFound(kind string) error {
	return fmt.Errorf("%s %w", kind, domain.ErrNotFound)
}

// expectOne turns a zero-row update or delete into a not-found error.
func expectOne(res sql.Result, kind string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(kind)
	}
	return nil
}

func priorityToValue(p domain.Priority) any {
	if !p.Valid() {
		return nil
	}
	return int(p)
}

func priorityFromNull(v sql.NullInt64) domain.Priority {
	if !v.Valid {
		return domain.PriorityUnset
	}
	return domain.Priority(v.Int64)
}

func encodeTeam(team []string) string {
	if len(team) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(team)
	return string(data)
}

func decodeTeam(s string) []string {
	var team []string
	_ = json.Unmarshal([]byte(s), &team)
	return team
}

type scanner interface {
	Scan(dest ...any) error
}
