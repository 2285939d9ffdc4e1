package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Apollo", testutil.WithTeam("ana", "bo"))
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apollo", fetched.Title)
	assert.Equal(t, []string{"ana", "bo"}, fetched.Team)
	assert.Equal(t, proj.CreatedAt, fetched.CreatedAt)
}

func TestProjectRepo_ListKeepsInsertionOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, title := range []string{"Zeta", "Alpha", "Mid"} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestProject(title)))
	}
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Zeta", list[0].Title)
	assert.Equal(t, "Alpha", list[1].Title)
	assert.Equal(t, "Mid", list[2].Title)
}

func TestProjectRepo_UpdateAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Old")
	require.NoError(t, repo.Create(ctx, proj))

	proj.Title = "New"
	proj.Team = nil
	require.NoError(t, repo.Update(ctx, proj))
	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", fetched.Title)
	assert.Empty(t, fetched.Team)

	require.NoError(t, repo.Delete(ctx, proj.ID))
	_, err = repo.GetByID(ctx, proj.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectRepo_MissingRowsAreNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Update(ctx, testutil.NewTestProject("ghost")), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "nope"), domain.ErrNotFound)
	_, err := repo.GetByID(ctx, "nope")
	assert.EqualError(t, err, "project not found")
}

func TestProjectRepo_DuplicateIDConflicts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Once")
	require.NoError(t, repo.Create(ctx, proj))
	assert.ErrorIs(t, repo.Create(ctx, proj), ErrConflict)
}
