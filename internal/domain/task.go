package domain

import "strings"

// Task is a unit of work on the task board, scoped to a project and
// optionally to a sprint and an assignee.
type Task struct {
	ID          string `json:"_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status,omitempty"`
	Project     string `json:"project"`
	Sprint      string `json:"sprint,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
	StoryPoints int    `json:"storyPoints,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

func (t Task) EntityID() string      { return t.ID }
func (t Task) ParentID() string      { return t.Project }
func (t Task) ParentField() string   { return "project" }
func (t Task) CurrentStatus() Status { return t.Status.Canonical() }
func (t Task) Points() int           { return t.StoryPoints }

func (t Task) Field(name string) string {
	switch name {
	case "id", "_id":
		return t.ID
	case "title":
		return t.Title
	case "description":
		return t.Description
	case "status":
		return string(t.Status)
	case "project":
		return t.Project
	case "sprint":
		return t.Sprint
	case "assignee":
		return t.Assignee
	case "storyPoints":
		return countField(t.StoryPoints)
	case "createdAt":
		return t.CreatedAt
	}
	return ""
}

func (t Task) WithField(name, value string) (Task, error) {
	var err error
	switch name {
	case "id", "_id":
		t.ID = strings.TrimSpace(value)
	case "title":
		t.Title = value
	case "description":
		t.Description = value
	case "status":
		if strings.TrimSpace(value) == "" {
			t.Status = StatusUnknown
			return t, nil
		}
		st, perr := ParseStatus(value)
		if perr != nil {
			return t, &FieldError{Field: name, Value: value, Err: perr}
		}
		t.Status = st
	case "project":
		t.Project = strings.TrimSpace(value)
	case "sprint":
		t.Sprint = strings.TrimSpace(value)
	case "assignee":
		t.Assignee = strings.TrimSpace(value)
	case "storyPoints":
		t.StoryPoints, err = parseCount(name, value)
	case "createdAt":
		t.CreatedAt = value
	default:
		return t, unknownField("task", name)
	}
	return t, err
}
