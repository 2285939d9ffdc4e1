package screen

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/form"
	"github.com/alexanderramin/sprintboard/internal/remote"
	"github.com/alexanderramin/sprintboard/internal/selection"
	"github.com/alexanderramin/sprintboard/internal/store"
	"github.com/alexanderramin/sprintboard/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = store.Guard{Logger: zerolog.Nop()}

func projectScreen() (*Screen[domain.Project], *testutil.FakeCollection[domain.Project]) {
	fake := testutil.NewFakeCollection[domain.Project]("p")
	return New[domain.Project]("projects", fake, domain.ProjectRequired, quiet), fake
}

func sprintScreen() (*Screen[domain.Sprint], *testutil.FakeCollection[domain.Sprint]) {
	fake := testutil.NewFakeCollection[domain.Sprint]("s")
	return NewScoped[domain.Sprint]("sprints", fake, domain.SprintRequired, quiet), fake
}

func sprint(id, project string) domain.Sprint {
	return domain.Sprint{ID: id, Name: id, StartDate: "2024-01-01", EndDate: "2024-01-14", Project: project}
}

func TestRootScreen_LoadAndAdd(t *testing.T) {
	s, fake := projectScreen()
	fake.Seed("", domain.Project{ID: "p-0", Title: "Existing"})
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, 1, s.Items.Len())
	assert.False(t, s.Scoped())
	assert.Nil(t, s.Selection())

	require.NoError(t, s.OpenForAdd(domain.Project{Owner: "ana"}))
	require.NoError(t, s.Form.SetField("title", "Apollo"))
	require.NoError(t, s.Form.SetField("description", "moon"))
	require.NoError(t, s.Form.SetField("createdAt", "2024-01-01"))

	saved, err := s.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Items.Len())
	got, ok := s.Items.Get(saved.ID)
	require.True(t, ok)
	assert.Equal(t, "Apollo", got.Title)
}

func TestRootScreen_LoadFailureKeepsItems(t *testing.T) {
	s, fake := projectScreen()
	fake.Seed("", domain.Project{ID: "p-0"})
	require.NoError(t, s.Load(context.Background()))

	fake.ListErr = &domain.RemoteFailure{Op: "list projects", StatusCode: 500}
	err := s.Load(context.Background())
	assert.True(t, domain.IsRemoteFailure(err))
	assert.Equal(t, 1, s.Items.Len())
}

func TestEdit_ReplacesInPlace(t *testing.T) {
	s, fake := projectScreen()
	fake.Seed("",
		domain.Project{ID: "a", Title: "A", Description: "d", Owner: "o", CreatedAt: "2024-01-01"},
		domain.Project{ID: "b", Title: "B", Description: "d", Owner: "o", CreatedAt: "2024-01-01"},
	)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	require.NoError(t, s.OpenForEdit("a"))
	require.NoError(t, s.Form.SetField("title", "A2"))
	_, err := s.Submit(ctx)
	require.NoError(t, err)

	snap := s.Items.Snapshot()
	assert.Equal(t, "a", snap[0].ID)
	assert.Equal(t, "A2", snap[0].Title)
	assert.Equal(t, "b", snap[1].ID)

	assert.ErrorIs(t, s.OpenForEdit("zzz"), domain.ErrNotFound)
}

func TestSubmitFailure_StoreUntouched(t *testing.T) {
	s, fake := projectScreen()
	fake.CreateErr = &domain.RemoteFailure{Op: "create project", StatusCode: 503}

	require.NoError(t, s.OpenForAdd(domain.Project{}))
	_ = s.Form.SetField("title", "t")
	_ = s.Form.SetField("description", "d")
	_ = s.Form.SetField("owner", "o")
	_ = s.Form.SetField("createdAt", "2024-01-01")

	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrSaveFailed)
	assert.Zero(t, s.Items.Len())
	assert.True(t, s.Form.IsOpen())
}

func TestDelete(t *testing.T) {
	s, fake := projectScreen()
	fake.Seed("", domain.Project{ID: "a"}, domain.Project{ID: "b"})
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	require.NoError(t, s.Delete(ctx, "a"))
	assert.Equal(t, 1, s.Items.Len())
	assert.Contains(t, fake.Calls(), "delete:/a")

	assert.ErrorIs(t, s.Delete(ctx, "a"), domain.ErrNotFound)
}

func TestDelete_RemoteFailureKeepsItem(t *testing.T) {
	s, fake := projectScreen()
	fake.Seed("", domain.Project{ID: "a"})
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))
	fake.DeleteErr = &domain.RemoteFailure{Op: "delete project", StatusCode: 500}

	err := s.Delete(ctx, "a")
	assert.True(t, domain.IsRemoteFailure(err))
	assert.True(t, s.Items.Contains("a"))
}

func TestScoped_OpenForAddNeedsParent(t *testing.T) {
	s, fake := sprintScreen()

	err := s.OpenForAdd(domain.Sprint{Name: "S"})
	assert.ErrorIs(t, err, domain.ErrNoParentSelected)
	assert.False(t, s.Form.IsOpen())

	_, err = s.BeginDelete("x")
	assert.ErrorIs(t, err, domain.ErrNoParentSelected)
	assert.Empty(t, fake.Calls())
}

func TestScoped_AddFillsSelectedParent(t *testing.T) {
	s, fake := sprintScreen()
	fake.Seed("P1", sprint("s-old", "P1"))
	ctx := context.Background()
	require.NoError(t, s.Selection().SelectAndWait(ctx, "P1"))
	assert.Equal(t, "P1", s.Parent())

	require.NoError(t, s.OpenForAdd(domain.Sprint{Name: "S", StartDate: "2024-02-01", EndDate: "2024-02-14"}))
	saved, err := s.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "P1", saved.Project)
	assert.Equal(t, 2, s.Items.Len())
	assert.Equal(t, []string{"list:P1", "create:P1"}, fake.Calls())
}

func TestScoped_SaveForDeselectedParentIsNotListed(t *testing.T) {
	s, fake := sprintScreen()
	fake.Seed("P2", sprint("s-p2", "P2"))
	ctx := context.Background()
	require.NoError(t, s.Selection().SelectAndWait(ctx, "P1"))
	require.NoError(t, s.OpenForAdd(domain.Sprint{Name: "S", StartDate: "2024-02-01", EndDate: "2024-02-14"}))

	save, err := s.Form.Begin()
	require.NoError(t, err)
	e, runErr := save.Run(ctx)
	require.NoError(t, s.Selection().SelectAndWait(ctx, "P2"))

	saved, err := s.Saved(save, e, runErr)
	require.NoError(t, err)
	assert.Equal(t, "P1", saved.Project)
	assert.False(t, s.Items.Contains(saved.ID))
	assert.Equal(t, 1, s.Items.Len())
	assert.Equal(t, selection.Ready, s.Selection().State())
}

func TestSaved_StaleSaveIsDropped(t *testing.T) {
	s, _ := projectScreen()
	require.NoError(t, s.OpenForAdd(domain.Project{Title: "t", Description: "d", Owner: "o", CreatedAt: "2024-01-01"}))
	save, err := s.Form.Begin()
	require.NoError(t, err)
	e, runErr := save.Run(context.Background())
	s.Form.Cancel()

	_, err = s.Saved(save, e, runErr)
	assert.True(t, errors.Is(err, form.ErrStale))
	assert.Zero(t, s.Items.Len())
}

func TestSaved_DesyncIsReconciled(t *testing.T) {
	s, fake := projectScreen()
	fake.Seed("", domain.Project{ID: "a", Title: "t", Description: "d", Owner: "o", CreatedAt: "2024-01-01"})
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.OpenForEdit("a"))
	save, err := s.Form.Begin()
	require.NoError(t, err)
	e, runErr := save.Run(ctx)

	// the local copy vanished while the update was in flight
	require.NoError(t, s.Items.Remove("a"))
	_, err = s.Saved(save, e, runErr)
	assert.NoError(t, err, "lenient guard logs and carries on")

	strict := New[domain.Project]("projects", fake, domain.ProjectRequired, store.Guard{Strict: true, Logger: zerolog.Nop()})
	require.NoError(t, strict.Load(ctx))
	require.NoError(t, strict.OpenForEdit("a"))
	save, err = strict.Form.Begin()
	require.NoError(t, err)
	e, runErr = save.Run(ctx)
	require.NoError(t, strict.Items.Remove("a"))
	assert.Panics(t, func() { _, _ = strict.Saved(save, e, runErr) })
}

func TestRootScreen_CreateWithoutServerEntityKeepsDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)
	s := New[domain.Project]("projects", remote.New(srv.URL, "tok").Projects(), domain.ProjectRequired, quiet)
	ctx := context.Background()

	for range 2 {
		require.NoError(t, s.OpenForAdd(domain.Project{Title: "Apollo", Description: "moon", Owner: "ana", CreatedAt: "2024-01-01"}))
		_, err := s.Submit(ctx)
		assert.ErrorIs(t, err, domain.ErrSaveFailed)
		assert.True(t, domain.IsRemoteFailure(err))
		assert.Zero(t, s.Items.Len())
	}
}
