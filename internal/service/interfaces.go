package service

import (
	"context"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

type AuthService interface {
	Register(ctx context.Context, cred domain.Credentials) (*domain.AuthResult, error)
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	// Authenticate resolves a bearer token to its user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, id string, p *domain.Project) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

type BacklogService interface {
	Create(ctx context.Context, projectID string, b *domain.BacklogItem) error
	GetByID(ctx context.Context, projectID, id string) (*domain.BacklogItem, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.BacklogItem, error)
	Update(ctx context.Context, projectID, id string, b *domain.BacklogItem) (*domain.BacklogItem, error)
	Delete(ctx context.Context, projectID, id string) error
}

type SprintService interface {
	Create(ctx context.Context, projectID string, s *domain.Sprint) error
	GetByID(ctx context.Context, projectID, id string) (*domain.Sprint, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Sprint, error)
	Update(ctx context.Context, projectID, id string, s *domain.Sprint) (*domain.Sprint, error)
	Delete(ctx context.Context, projectID, id string) error
}

type TaskService interface {
	Create(ctx context.Context, projectID string, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	ListByAssignee(ctx context.Context, userID string) ([]*domain.Task, error)
	Update(ctx context.Context, id string, t *domain.Task) (*domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}
