package service

import (
	"context"

	"github.com/alexanderramin/sprintboard/internal/db"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/repository"
)

type backlogService struct {
	projects repository.ProjectRepo
	items    repository.BacklogRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewBacklogService(projects repository.ProjectRepo, items repository.BacklogRepo, uow db.UnitOfWork, observers ...UseCaseObserver) BacklogService {
	return &backlogService{projects: projects, items: items, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Create stores a backlog item under projectID. Backlog ids come from the
// user, so a reused id is a conflict rather than a fresh id.
func (s *backlogService) Create(ctx context.Context, projectID string, b *domain.BacklogItem) (err error) {
	defer observe(ctx, s.observer, "create-backlog-item", map[string]any{"project": projectID, "item": b.ID}, &err)()

	b.Project = projectID
	if err = validate(b, backlogCreateRequired); err != nil {
		return err
	}
	if b.Status == domain.StatusUnknown {
		b.Status = domain.StatusPending
	}
	if b.CreatedAt == "" {
		b.CreatedAt = nowStamp()
	}
	return s.items.Create(ctx, b)
}

func (s *backlogService) GetByID(ctx context.Context, projectID, id string) (*domain.BacklogItem, error) {
	return s.items.GetByID(ctx, projectID, id)
}

func (s *backlogService) ListByProject(ctx context.Context, projectID string) ([]*domain.BacklogItem, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.items.ListByProject(ctx, projectID)
}

func (s *backlogService) Update(ctx context.Context, projectID, id string, b *domain.BacklogItem) (updated *domain.BacklogItem, err error) {
	defer observe(ctx, s.observer, "update-backlog-item", map[string]any{"project": projectID, "item": id}, &err)()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txItems := repository.NewSQLiteBacklogRepo(tx)
		cur, err := txItems.GetByID(ctx, projectID, id)
		if err != nil {
			return err
		}
		next := *b
		next.ID = cur.ID
		next.Project = cur.Project
		next.CreatedAt = cur.CreatedAt
		if err := validate(&next, backlogCreateRequired); err != nil {
			return err
		}
		if err := txItems.Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	return updated, err
}

func (s *backlogService) Delete(ctx context.Context, projectID, id string) (err error) {
	defer observe(ctx, s.observer, "delete-backlog-item", map[string]any{"project": projectID, "item": id}, &err)()
	return s.items.Delete(ctx, projectID, id)
}
