package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sprint is a time-boxed iteration scoped to a project. The dashboard tracks
// milestone, capacity and story points; the sprint backlog screen uses name
// and dates. A server may populate either set.
type Sprint struct {
	ID                string `json:"_id,omitempty"`
	Name              string `json:"name"`
	StartDate         string `json:"startDate"`
	EndDate           string `json:"endDate"`
	Status            Status `json:"status,omitempty"`
	Project           string `json:"project,omitempty"`
	ProjectID         string `json:"projectId,omitempty"`
	Milestone         string `json:"milestone,omitempty"`
	DueDate           string `json:"dueDate,omitempty"`
	Capacity          int    `json:"capacity,omitempty"`
	StoryPoints       int    `json:"storyPoints,omitempty"`
	StoryPointsClosed int    `json:"storyPointsClosed,omitempty"`
}

// DefaultSprintCapacity and DefaultSprintLength seed quick-created sprints.
const (
	DefaultSprintCapacity = 20
	DefaultSprintLength   = 14 * 24 * time.Hour
)

// NewDefaultSprint builds the draft used by the dashboard's quick-create
// action: the n-th sprint of a project, starting now and due in two weeks.
func NewDefaultSprint(projectID string, n int, now time.Time) Sprint {
	label := fmt.Sprintf("Sprint #%d", n)
	due := now.Add(DefaultSprintLength).Format(DateLayout)
	return Sprint{
		Name:      label,
		Milestone: label,
		StartDate: now.Format(DateLayout),
		EndDate:   due,
		DueDate:   due,
		Status:    StatusPlanned,
		Project:   projectID,
		ProjectID: projectID,
		Capacity:  DefaultSprintCapacity,
	}
}

func (s Sprint) EntityID() string      { return s.ID }
func (s Sprint) ParentField() string   { return "project" }
func (s Sprint) CurrentStatus() Status { return s.Status.Canonical() }
func (s Sprint) Points() int           { return s.StoryPoints }
func (s Sprint) ClosedPoints() int     { return s.StoryPointsClosed }

func (s Sprint) ParentID() string {
	if s.Project != "" {
		return s.Project
	}
	return s.ProjectID
}

// Label is the name, falling back to the milestone.
func (s Sprint) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Milestone
}

// Due is the due date, falling back to the end date.
func (s Sprint) Due() string {
	if s.DueDate != "" {
		return s.DueDate
	}
	return s.EndDate
}

func (s Sprint) Field(name string) string {
	switch name {
	case "id", "_id":
		return s.ID
	case "name":
		return s.Name
	case "startDate":
		return s.StartDate
	case "endDate":
		return s.EndDate
	case "status":
		return string(s.Status)
	case "project", "projectId":
		return s.ParentID()
	case "milestone":
		return s.Milestone
	case "dueDate":
		return s.DueDate
	case "capacity":
		return countField(s.Capacity)
	case "storyPoints":
		return countField(s.StoryPoints)
	case "storyPointsClosed":
		return countField(s.StoryPointsClosed)
	}
	return ""
}

func (s Sprint) WithField(name, value string) (Sprint, error) {
	var err error
	switch name {
	case "id", "_id":
		s.ID = strings.TrimSpace(value)
	case "name":
		s.Name = value
	case "startDate":
		s.StartDate = value
	case "endDate":
		s.EndDate = value
	case "status":
		if strings.TrimSpace(value) == "" {
			s.Status = StatusUnknown
			return s, nil
		}
		st, perr := ParseStatus(value)
		if perr != nil {
			return s, &FieldError{Field: name, Value: value, Err: perr}
		}
		s.Status = st
	case "project", "projectId":
		s.Project = strings.TrimSpace(value)
		s.ProjectID = s.Project
	case "milestone":
		s.Milestone = value
	case "dueDate":
		s.DueDate = value
	case "capacity":
		s.Capacity, err = parseCount(name, value)
	case "storyPoints":
		s.StoryPoints, err = parseCount(name, value)
	case "storyPointsClosed":
		s.StoryPointsClosed, err = parseCount(name, value)
	default:
		return s, unknownField("sprint", name)
	}
	return s, err
}

func countField(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
