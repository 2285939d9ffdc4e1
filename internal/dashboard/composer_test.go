package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/metrics"
	"github.com/alexanderramin/sprintboard/internal/selection"
	"github.com/alexanderramin/sprintboard/internal/store"
	"github.com/alexanderramin/sprintboard/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	c        *Composer
	projects *testutil.FakeCollection[domain.Project]
	sprints  *testutil.FakeCollection[domain.Sprint]
	tasks    *testutil.FakeCollection[domain.Task]
}

func setup(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		projects: testutil.NewFakeCollection[domain.Project]("p"),
		sprints:  testutil.NewFakeCollection[domain.Sprint]("s"),
		tasks:    testutil.NewFakeCollection[domain.Task]("t"),
	}
	f.projects.Seed("", domain.Project{ID: "P1", Title: "One"}, domain.Project{ID: "P2", Title: "Two"})
	f.sprints.Seed("P1",
		domain.Sprint{ID: "s1", Name: "S1", Project: "P1", Status: "InProgress", StoryPoints: 20, StoryPointsClosed: 10},
		domain.Sprint{ID: "s2", Name: "S2", Project: "P1", Status: "Completed"},
	)
	f.sprints.Seed("P2", domain.Sprint{ID: "s3", Name: "S3", Project: "P2", Status: "Planned"})
	f.tasks.Seed("P1",
		domain.Task{ID: "t1", Title: "a", Project: "P1", Sprint: "s1", Status: "Pending"},
		domain.Task{ID: "t2", Title: "b", Project: "P1", Sprint: "s2", Status: "Done"},
	)
	f.c = New(f.projects, f.sprints, f.tasks, store.Guard{Logger: zerolog.Nop()})
	return f
}

func count(calls []string, want string) int {
	n := 0
	for _, c := range calls {
		if c == want {
			n++
		}
	}
	return n
}

func TestLoad_AutoSelectsFirstProject(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.c.Load(context.Background()))

	assert.Equal(t, "P1", f.c.Project())
	assert.Equal(t, selection.Ready, f.c.State())
	assert.Equal(t, 2, f.c.Projects.Len())
	assert.Equal(t, 2, f.c.Sprints.Len())
	assert.Equal(t, 2, f.c.Tasks.Len())
}

func TestApplyProjects_KeepsExistingSelection(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.c.Load(ctx))
	f.c.Complete(f.c.SelectProject("P2").Run(ctx))

	req, err := f.c.ApplyProjects(f.c.FetchProjects(ctx))
	require.NoError(t, err)
	assert.Nil(t, req)
	assert.Equal(t, "P2", f.c.Project())
}

func TestApplyProjects_EmptyListClearsSelection(t *testing.T) {
	f := setup(t)
	req, err := f.c.ApplyProjects(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, req)
	assert.Equal(t, selection.NoSelection, f.c.State())
}

func TestViewStateNeverRefetches(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.c.Load(context.Background()))
	before := len(f.sprints.Calls()) + len(f.tasks.Calls())

	f.c.SetTab(f.c.Tab().Next())
	f.c.CyclePeriod()
	f.c.SetSprintFilter("s1")
	assert.Nil(t, f.c.SelectProject("P1"), "same project is a no-op")

	assert.Equal(t, TabTasks, f.c.Tab())
	assert.Equal(t, metrics.Last30Days, f.c.Period())
	assert.Equal(t, before, len(f.sprints.Calls())+len(f.tasks.Calls()))
}

func TestApply_AlwaysRefetches(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.c.Load(ctx))

	req := f.c.Apply()
	require.NotNil(t, req)
	f.c.Complete(req.Run(ctx))
	assert.Equal(t, 2, count(f.sprints.Calls(), "list:P1"))
	assert.Equal(t, 2, count(f.tasks.Calls(), "list:P1"))
}

func TestSelectProject_ResetsSprintFilter(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.c.Load(ctx))
	f.c.SetSprintFilter("s1")

	f.c.Complete(f.c.SelectProject("P2").Run(ctx))
	assert.Empty(t, f.c.SprintFilter())
	assert.Equal(t, 1, f.c.Sprints.Len())
	assert.Zero(t, f.c.Tasks.Len())
}

func TestNewSprint_NoProjectSelected(t *testing.T) {
	f := setup(t)

	_, err := f.c.NewSprint(time.Now())
	assert.ErrorIs(t, err, domain.ErrNoParentSelected)
	assert.Empty(t, f.sprints.Calls())
	assert.False(t, f.c.SprintForm.IsOpen())
}

func TestNewSprint_AppendsDefaultDraft(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.c.Load(ctx))
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	save, err := f.c.NewSprint(now)
	require.NoError(t, err)
	e, runErr := save.Run(ctx)
	saved, err := f.c.SprintSaved(save, e, runErr)
	require.NoError(t, err)

	assert.Equal(t, "Sprint #3", saved.Milestone)
	assert.Equal(t, "2024-03-15", saved.DueDate)
	assert.Equal(t, domain.DefaultSprintCapacity, saved.Capacity)
	assert.Zero(t, saved.StoryPoints)
	assert.Equal(t, domain.StatusPlanned, saved.Status)
	assert.Equal(t, 3, f.c.Sprints.Len())
	assert.False(t, f.c.SprintForm.IsOpen())
}

func TestNewSprint_RemoteFailureLeavesSprints(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.c.Load(ctx))
	f.sprints.CreateErr = &domain.RemoteFailure{Op: "create sprint", StatusCode: 500}

	save, err := f.c.NewSprint(time.Now())
	require.NoError(t, err)
	e, runErr := save.Run(ctx)
	_, err = f.c.SprintSaved(save, e, runErr)

	assert.ErrorIs(t, err, domain.ErrSaveFailed)
	assert.Equal(t, 2, f.c.Sprints.Len())
	assert.False(t, f.c.SprintForm.IsOpen())
}

func TestSummaryAndBoard(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.c.Load(context.Background()))

	sum := f.c.Summary(time.Now())
	assert.Equal(t, 1, sum.OpenSprints)
	assert.Equal(t, 20, sum.StoryPoints)
	require.NotNil(t, sum.Current)
	assert.Equal(t, "s1", sum.Current.Sprint.ID)

	assert.Len(t, f.c.OpenSprints(), 1)

	cols := f.c.Board()
	assert.Len(t, cols[0].Tasks, 1)
	assert.Len(t, cols[2].Tasks, 1)

	f.c.SetSprintFilter("s1")
	cols = f.c.Board()
	assert.Len(t, cols[0].Tasks, 1)
	assert.Empty(t, cols[2].Tasks)
}

func TestFailedFetchKeepsPreviousData(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.c.Load(ctx))
	f.tasks.ListErr = &domain.RemoteFailure{Op: "list tasks", StatusCode: 502}

	f.c.Complete(f.c.Apply().Run(ctx))
	assert.Equal(t, selection.Failed, f.c.State())
	assert.True(t, domain.IsRemoteFailure(f.c.Err()))
	assert.Equal(t, 2, f.c.Sprints.Len(), "all-or-nothing: sprints untouched too")
	assert.Equal(t, 2, f.c.Tasks.Len())
}
