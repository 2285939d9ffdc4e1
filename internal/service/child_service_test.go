package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/repository"
	"github.com/alexanderramin/sprintboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createProject(t *testing.T, r repos) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject("P")
	require.NoError(t, r.projects.Create(context.Background(), p))
	return p
}

func TestBacklogService_UserSuppliedID(t *testing.T) {
	r := setupRepos(t)
	svc := NewBacklogService(r.projects, r.backlog, r.uow)
	ctx := context.Background()
	p := createProject(t, r)

	item := domain.NewBacklogItem()
	item.Title = "login page"
	err := svc.Create(ctx, p.ID, &item)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"_id"}, verr.Missing)

	item.ID = "PB-1"
	require.NoError(t, svc.Create(ctx, p.ID, &item))
	assert.Equal(t, p.ID, item.Project)
	assert.Equal(t, domain.StatusPending, item.Status)

	dup := item
	assert.ErrorIs(t, svc.Create(ctx, p.ID, &dup), repository.ErrConflict)
}

func TestBacklogService_UpdateStaysInProject(t *testing.T) {
	r := setupRepos(t)
	svc := NewBacklogService(r.projects, r.backlog, r.uow)
	ctx := context.Background()
	p := createProject(t, r)

	item := testutil.NewTestBacklogItem(p.ID, "a")
	require.NoError(t, svc.Create(ctx, p.ID, item))

	edit := *item
	edit.Project = "elsewhere"
	edit.Title = "b"
	edit.Priority = domain.PriorityMedium
	updated, err := svc.Update(ctx, p.ID, item.ID, &edit)
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.Project)
	assert.Equal(t, domain.PriorityMedium, updated.Priority)

	_, err = svc.Update(ctx, "other-project", item.ID, &edit)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChildListsRequireExistingProject(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	_, err := NewBacklogService(r.projects, r.backlog, r.uow).ListByProject(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = NewSprintService(r.projects, r.sprints, r.uow).ListByProject(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = NewTaskService(r.projects, r.tasks, r.uow).ListByProject(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSprintService_CreateDefaults(t *testing.T) {
	r := setupRepos(t)
	svc := NewSprintService(r.projects, r.sprints, r.uow)
	ctx := context.Background()
	p := createProject(t, r)

	sp := &domain.Sprint{Milestone: "Sprint #1", Capacity: 20}
	require.NoError(t, svc.Create(ctx, p.ID, sp))
	assert.NotEmpty(t, sp.ID)
	assert.Equal(t, "Sprint #1", sp.Name)
	assert.Equal(t, domain.StatusPlanned, sp.Status)

	list, err := svc.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 20, list[0].Capacity)

	assert.ErrorIs(t, svc.Create(ctx, "ghost", &domain.Sprint{Name: "x"}), domain.ErrNotFound)
}

func TestTaskService_StatusAndAssignee(t *testing.T) {
	r := setupRepos(t)
	svc := NewTaskService(r.projects, r.tasks, r.uow)
	ctx := context.Background()
	p := createProject(t, r)

	task := &domain.Task{Title: "write docs", Assignee: "u1"}
	require.NoError(t, svc.Create(ctx, p.ID, task))
	assert.Equal(t, domain.StatusPending, task.Status)

	updated, err := svc.UpdateStatus(ctx, task.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)

	_, err = svc.UpdateStatus(ctx, task.ID, "Sideways")
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	mine, err := svc.ListByAssignee(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "write docs", mine[0].Title)
}

func TestTaskService_UpdateRollsBackOnWriteFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("P")
	require.NoError(t, projects.Create(ctx, p))
	task := testutil.NewTestTask(p.ID, "before")
	require.NoError(t, tasks.Create(ctx, task))

	boom := errors.New("disk full")
	uow := &testutil.BrokenWriteUoW{DB: database, Prefix: "UPDATE tasks", Err: boom}
	svc := NewTaskService(projects, tasks, uow)

	edit := *task
	edit.Title = "after"
	_, err := svc.Update(ctx, task.ID, &edit)
	assert.ErrorIs(t, err, boom)

	got, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "before", got.Title)
}
