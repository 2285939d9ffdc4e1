package service

import (
	"context"

	"github.com/alexanderramin/sprintboard/internal/db"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/repository"
)

type sprintService struct {
	projects repository.ProjectRepo
	sprints  repository.SprintRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewSprintService(projects repository.ProjectRepo, sprints repository.SprintRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SprintService {
	return &sprintService{projects: projects, sprints: sprints, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *sprintService) Create(ctx context.Context, projectID string, sp *domain.Sprint) (err error) {
	defer observe(ctx, s.observer, "create-sprint", map[string]any{"project": projectID, "name": sp.Label()}, &err)()

	sp.Project = projectID
	sp.ProjectID = projectID
	if sp.Name == "" {
		sp.Name = sp.Milestone
	}
	if err = validate(sp, sprintCreateRequired); err != nil {
		return err
	}
	if sp.Status == domain.StatusUnknown {
		sp.Status = domain.StatusPlanned
	}
	sp.ID = newID()
	return s.sprints.Create(ctx, sp)
}

func (s *sprintService) GetByID(ctx context.Context, projectID, id string) (*domain.Sprint, error) {
	return s.sprints.GetByID(ctx, projectID, id)
}

func (s *sprintService) ListByProject(ctx context.Context, projectID string) ([]*domain.Sprint, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.sprints.ListByProject(ctx, projectID)
}

func (s *sprintService) Update(ctx context.Context, projectID, id string, sp *domain.Sprint) (updated *domain.Sprint, err error) {
	defer observe(ctx, s.observer, "update-sprint", map[string]any{"project": projectID, "sprint": id}, &err)()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSprints := repository.NewSQLiteSprintRepo(tx)
		cur, err := txSprints.GetByID(ctx, projectID, id)
		if err != nil {
			return err
		}
		next := *sp
		next.ID = cur.ID
		next.Project = cur.Project
		next.ProjectID = cur.Project
		if err := validate(&next, sprintCreateRequired); err != nil {
			return err
		}
		if err := txSprints.Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	return updated, err
}

func (s *sprintService) Delete(ctx context.Context, projectID, id string) (err error) {
	defer observe(ctx, s.observer, "delete-sprint", map[string]any{"project": projectID, "sprint": id}, &err)()
	return s.sprints.Delete(ctx, projectID, id)
}
