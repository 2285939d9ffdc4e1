package service

import (
	"context"

	"github.com/alexanderramin/sprintboard/internal/db"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ProjectService {
	return &projectService{projects: projects, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "create-project", map[string]any{"title": p.Title}, &err)()

	if err = validate(p, projectCreateRequired); err != nil {
		return err
	}
	p.ID = newID()
	if p.CreatedAt == "" {
		p.CreatedAt = nowStamp()
	}
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

// Update replaces the editable fields of project id. The id and creation
// time are kept from the stored row.
func (s *projectService) Update(ctx context.Context, id string, p *domain.Project) (updated *domain.Project, err error) {
	defer observe(ctx, s.observer, "update-project", map[string]any{"project": id}, &err)()

	if err = validate(p, projectCreateRequired); err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		cur, err := txProjects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next := *p
		next.ID = cur.ID
		next.CreatedAt = cur.CreatedAt
		if err := txProjects.Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	return updated, err
}

func (s *projectService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-project", map[string]any{"project": id}, &err)()
	return s.projects.Delete(ctx, id)
}
