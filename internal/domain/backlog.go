package domain

import (
	"encoding/json"
	"strings"
)

// BacklogItem is a product backlog entry scoped to a project. Unlike other
// entities its id may be supplied by the user when the item is first added.
type BacklogItem struct {
	ID          string   `json:"_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status,omitempty"`
	Project     string   `json:"project"`
	StoryPoints int      `json:"storyPoints,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
}

// NewBacklogItem returns an item with priority unset, so that a missing
// priority is not mistaken for Low.
func NewBacklogItem() BacklogItem {
	return BacklogItem{Priority: PriorityUnset}
}

func (b *BacklogItem) UnmarshalJSON(data []byte) error {
	type alias BacklogItem
	a := alias(NewBacklogItem())
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*b = BacklogItem(a)
	return nil
}

func (b BacklogItem) EntityID() string        { return b.ID }
func (b BacklogItem) ParentID() string        { return b.Project }
func (b BacklogItem) ParentField() string     { return "project" }
func (b BacklogItem) CurrentStatus() Status   { return b.Status.Canonical() }
func (b BacklogItem) PriorityLevel() Priority { return b.Priority }
func (b BacklogItem) Points() int             { return b.StoryPoints }

func (b BacklogItem) Field(name string) string {
	switch name {
	case "id", "_id":
		return b.ID
	case "title":
		return b.Title
	case "description":
		return b.Description
	case "priority":
		if !b.Priority.Valid() {
			return ""
		}
		return b.Priority.String()
	case "status":
		return string(b.Status)
	case "project":
		return b.Project
	case "storyPoints":
		return countField(b.StoryPoints)
	case "createdAt":
		return b.CreatedAt
	}
	return ""
}

func (b BacklogItem) WithField(name, value string) (BacklogItem, error) {
	switch name {
	case "id", "_id":
		b.ID = strings.TrimSpace(value)
	case "title":
		b.Title = value
	case "description":
		b.Description = value
	case "priority":
		if strings.TrimSpace(value) == "" {
			b.Priority = PriorityUnset
			return b, nil
		}
		p, err := ParsePriority(value)
		if err != nil {
			return b, &FieldError{Field: name, Value: value, Err: err}
		}
		b.Priority = p
	case "status":
		if strings.TrimSpace(value) == "" {
			b.Status = StatusUnknown
			return b, nil
		}
		s, err := ParseStatus(value)
		if err != nil {
			return b, &FieldError{Field: name, Value: value, Err: err}
		}
		b.Status = s
	case "project":
		b.Project = strings.TrimSpace(value)
	case "storyPoints":
		n, err := parseCount(name, value)
		if err != nil {
			return b, err
		}
		b.StoryPoints = n
	case "createdAt":
		b.CreatedAt = value
	default:
		return b, unknownField("backlog item", name)
	}
	return b, nil
}
