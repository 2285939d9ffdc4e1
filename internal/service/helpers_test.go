package service

import (
	"context"
	"sync"
	"testing"

	"github.com/alexanderramin/sprintboard/internal/db"
	"github.com/alexanderramin/sprintboard/internal/repository"
	"github.com/alexanderramin/sprintboard/internal/testutil"
)

type repos struct {
	users    repository.UserRepo
	projects repository.ProjectRepo
	backlog  repository.BacklogRepo
	sprints  repository.SprintRepo
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
}

func setupRepos(t *testing.T) repos {
	database := testutil.NewTestDB(t)
	return repos{
		users:    repository.NewSQLiteUserRepo(database),
		projects: repository.NewSQLiteProjectRepo(database),
		backlog:  repository.NewSQLiteBacklogRepo(database),
		sprints:  repository.NewSQLiteSprintRepo(database),
		tasks:    repository.NewSQLiteTaskRepo(database),
		uow:      testutil.NewTestUoW(database),
	}
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, ev UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, ev)
}
