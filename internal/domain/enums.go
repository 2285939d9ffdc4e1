package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Status is the lifecycle state shared by backlog items, sprints and tasks.
// Servers are inconsistent about spelling ("In Progress" vs "InProgress",
// "Done" vs "Completed"), so every comparison goes through Canonical.
type Status string

const (
	StatusUnknown    Status = ""
	StatusPending    Status = "Pending"
	StatusPlanned    Status = "Planned"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
)

var statusAliases = map[string]Status{
	"pending":     StatusPending,
	"to do":       StatusPending,
	"todo":        StatusPending,
	"planned":     StatusPlanned,
	"inprogress":  StatusInProgress,
	"in progress": StatusInProgress,
	"in_progress": StatusInProgress,
	"completed":   StatusCompleted,
	"done":        StatusCompleted,
}

// Canonical maps a raw status to one of the known values.
// Unrecognized values map to StatusUnknown.
func (s Status) Canonical() Status {
	return statusAliases[strings.ToLower(strings.TrimSpace(string(s)))]
}

// Known reports whether the status canonicalises to a recognized value.
func (s Status) Known() bool {
	return s.Canonical() != StatusUnknown
}

// ParseStatus validates user input and returns the canonical status.
func ParseStatus(s string) (Status, error) {
	c := Status(s).Canonical()
	if c == StatusUnknown {
		return "", fmt.Errorf("invalid status %q (want Pending, Planned, InProgress or Completed)", s)
	}
	return c, nil
}

// Priority is the backlog priority. The wire format is an integer 0-2.
type Priority int

const (
	PriorityUnset  Priority = -1
	PriorityLow    Priority = 0
	PriorityMedium Priority = 1
	PriorityHigh   Priority = 2
)

// PriorityPlaceholder stands in for a missing or out-of-range priority.
const PriorityPlaceholder = "--"

var priorityLabels = map[Priority]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
}

func (p Priority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

func (p Priority) String() string {
	if l, ok := priorityLabels[p]; ok {
		return l
	}
	return PriorityPlaceholder
}

// ParsePriority accepts either the numeric wire value or a label.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		p := Priority(n)
		if !p.Valid() {
			return PriorityUnset, fmt.Errorf("priority %d out of range (0-2)", n)
		}
		return p, nil
	}
	for p, label := range priorityLabels {
		if strings.EqualFold(label, s) {
			return p, nil
		}
	}
	return PriorityUnset, fmt.Errorf("invalid priority %q (want Low, Medium or High)", s)
}

func (p Priority) MarshalJSON() ([]byte, error) {
	if p == PriorityUnset {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(p))), nil
}

// UnmarshalJSON keeps out-of-range numbers as-is so they are reported as
// invalid rather than silently coerced.
func (p *Priority) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == "" {
		*p = PriorityUnset
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*p = Priority(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding priority: %w", err)
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		*p = PriorityUnset
		return nil
	}
	*p = parsed
	return nil
}
