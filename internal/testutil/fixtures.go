package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/google/uuid"
)

var testBacklogCounter atomic.Int64

func stamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Project options
type ProjectOption func(*domain.Project)

func WithOwner(owner string) ProjectOption {
	return func(p *domain.Project) {
		p.Owner = owner
	}
}

func WithTeam(members ...string) ProjectOption {
	return func(p *domain.Project) {
		p.Team = members
	}
}

func NewTestProject(title string, opts ...ProjectOption) *domain.Project {
	p := &domain.Project{
		ID:          uuid.New().String(),
		Title:       title,
		Description: "test project",
		Owner:       "owner",
		CreatedAt:   stamp(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BacklogItem options
type BacklogOption func(*domain.BacklogItem)

func WithPriority(p domain.Priority) BacklogOption {
	return func(b *domain.BacklogItem) {
		b.Priority = p
	}
}

func WithBacklogID(id string) BacklogOption {
	return func(b *domain.BacklogItem) {
		b.ID = id
	}
}

// NewTestBacklogItem builds an item with a readable PB-n id.
func NewTestBacklogItem(projectID, title string, opts ...BacklogOption) *domain.BacklogItem {
	b := domain.NewBacklogItem()
	b.ID = fmt.Sprintf("PB-%d", testBacklogCounter.Add(1))
	b.Project = projectID
	b.Title = title
	b.Status = domain.StatusPending
	b.CreatedAt = stamp()
	for _, opt := range opts {
		opt(&b)
	}
	return &b
}

// Sprint options
type SprintOption func(*domain.Sprint)

func WithSprintStatus(s domain.Status) SprintOption {
	return func(sp *domain.Sprint) {
		sp.Status = s
	}
}

func WithSprintPoints(total, closed int) SprintOption {
	return func(sp *domain.Sprint) {
		sp.StoryPoints = total
		sp.StoryPointsClosed = closed
	}
}

func NewTestSprint(projectID, name string, opts ...SprintOption) *domain.Sprint {
	now := time.Now().UTC()
	s := domain.NewDefaultSprint(projectID, 1, now)
	s.ID = uuid.New().String()
	s.Name = name
	for _, opt := range opts {
		opt(&s)
	}
	return &s
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskStatus(s domain.Status) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithAssignee(userID string) TaskOption {
	return func(t *domain.Task) {
		t.Assignee = userID
	}
}

func WithSprint(sprintID string) TaskOption {
	return func(t *domain.Task) {
		t.Sprint = sprintID
	}
}

func NewTestTask(projectID, title string, opts ...TaskOption) *domain.Task {
	t := &domain.Task{
		ID:        uuid.New().String(),
		Project:   projectID,
		Title:     title,
		Status:    domain.StatusPending,
		CreatedAt: stamp(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
