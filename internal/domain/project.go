package domain

import "strings"

// Project is the root entity; backlog items, sprints and tasks belong to one.
type Project struct {
	ID          string   `json:"_id,omitempty"`
	Title       string   `json:"title"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description"`
	Owner       string   `json:"owner"`
	Team        []string `json:"team,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
}

func (p Project) EntityID() string { return p.ID }

// DisplayName prefers the title; some servers only send a name.
func (p Project) DisplayName() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

func (p Project) Field(name string) string {
	switch name {
	case "id", "_id":
		return p.ID
	case "title":
		return p.Title
	case "name":
		return p.Name
	case "description":
		return p.Description
	case "owner":
		return p.Owner
	case "team":
		return strings.Join(p.Team, ", ")
	case "createdAt":
		return p.CreatedAt
	}
	return ""
}

func (p Project) WithField(name, value string) (Project, error) {
	switch name {
	case "id", "_id":
		p.ID = strings.TrimSpace(value)
	case "title":
		p.Title = value
	case "name":
		p.Name = value
	case "description":
		p.Description = value
	case "owner":
		p.Owner = value
	case "team":
		p.Team = splitList(value)
	case "createdAt":
		p.CreatedAt = value
	default:
		return p, unknownField("project", name)
	}
	return p, nil
}
