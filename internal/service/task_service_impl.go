package service

import (
	"context"

	"github.com/alexanderramin/sprintboard/internal/db"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/repository"
)

type taskService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTaskService(projects repository.ProjectRepo, tasks repository.TaskRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TaskService {
	return &taskService{projects: projects, tasks: tasks, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *taskService) Create(ctx context.Context, projectID string, t *domain.Task) (err error) {
	defer observe(ctx, s.observer, "create-task", map[string]any{"project": projectID}, &err)()

	t.Project = projectID
	if err = validate(t, taskCreateRequired); err != nil {
		return err
	}
	if t.Status == domain.StatusUnknown {
		t.Status = domain.StatusPending
	}
	t.ID = newID()
	if t.CreatedAt == "" {
		t.CreatedAt = nowStamp()
	}
	return s.tasks.Create(ctx, t)
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) ListByAssignee(ctx context.Context, userID string) ([]*domain.Task, error) {
	return s.tasks.ListByAssignee(ctx, userID)
}

// Update replaces a task's editable fields. A task never moves between
// projects.
func (s *taskService) Update(ctx context.Context, id string, t *domain.Task) (updated *domain.Task, err error) {
	defer observe(ctx, s.observer, "update-task", map[string]any{"task": id}, &err)()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		cur, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next := *t
		next.ID = cur.ID
		next.Project = cur.Project
		next.CreatedAt = cur.CreatedAt
		if err := validate(&next, taskCreateRequired); err != nil {
			return err
		}
		if err := txTasks.Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	return updated, err
}

func (s *taskService) UpdateStatus(ctx context.Context, id string, status domain.Status) (updated *domain.Task, err error) {
	defer observe(ctx, s.observer, "update-task-status", map[string]any{"task": id, "status": string(status)}, &err)()

	if status, err = domain.ParseStatus(string(status)); err != nil {
		return nil, &domain.ValidationError{Invalid: []string{"status"}}
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		if err := txTasks.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		t, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		updated = t
		return nil
	})
	return updated, err
}

func (s *taskService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-task", map[string]any{"task": id}, &err)()
	return s.tasks.Delete(ctx, id)
}
