package repository

import (
	"context"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// Account is a user plus its login secret.
type Account struct {
	domain.User
	PasswordHash string
	CreatedAt    string
}

type UserRepo interface {
	Create(ctx context.Context, a *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type BacklogRepo interface {
	Create(ctx context.Context, b *domain.BacklogItem) error
	GetByID(ctx context.Context, projectID, id string) (*domain.BacklogItem, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.BacklogItem, error)
	Update(ctx context.Context, b *domain.BacklogItem) error
	Delete(ctx context.Context, projectID, id string) error
}

type SprintRepo interface {
	Create(ctx context.Context, s *domain.Sprint) error
	GetByID(ctx context.Context, projectID, id string) (*domain.Sprint, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Sprint, error)
	Update(ctx context.Context, s *domain.Sprint) error
	Delete(ctx context.Context, projectID, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	ListByAssignee(ctx context.Context, assignee string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	Delete(ctx context.Context, id string) error
}
