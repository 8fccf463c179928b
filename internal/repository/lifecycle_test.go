package repository

import (
	"context"
	"testing"
	"time"

	"dancestudio/internal/domain"
	"dancestudio/internal/pkg/apperr"
	"dancestudio/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_CreateStampsIdentity(t *testing.T) {
	clock := testutil.NewClock()
	repos := NewRepositories(testutil.NewDB(t), clock.Now)
	ctx := context.Background()

	room := &domain.Room{StudioID: "s1", Name: "Main", Capacity: 20}
	require.NoError(t, repos.Rooms.Create(ctx, room))

	assert.NotEmpty(t, room.ID)
	assert.True(t, room.CreatedAt.Equal(clock.T))
	assert.Nil(t, room.UpdatedAt)
	assert.Nil(t, room.DeletedAt)
}

func TestLifecycle_UpdateStampsUpdatedAt(t *testing.T) {
	clock := testutil.NewClock()
	repos := NewRepositories(testutil.NewDB(t), clock.Now)
	ctx := context.Background()

	room := &domain.Room{StudioID: "s1", Name: "Main", Capacity: 20}
	require.NoError(t, repos.Rooms.Create(ctx, room))

	clock.Advance(time.Hour)
	got, err := repos.Rooms.Update(ctx, room.ID, map[string]any{"capacity": 30})
	require.NoError(t, err)

	assert.Equal(t, 30, got.Capacity)
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, got.UpdatedAt.Equal(clock.T))
	assert.True(t, got.CreatedAt.Before(*got.UpdatedAt))
}

func TestLifecycle_SoftDeleteHidesRow(t *testing.T) {
	clock := testutil.NewClock()
	repos := NewRepositories(testutil.NewDB(t), clock.Now)
	ctx := context.Background()

	room := &domain.Room{StudioID: "s1", Name: "Main", Capacity: 20}
	require.NoError(t, repos.Rooms.Create(ctx, room))

	clock.Advance(time.Minute)
	require.NoError(t, repos.Rooms.SoftDelete(ctx, room.ID))

	_, err := repos.Rooms.FindActive(ctx, room.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	items, total, err := repos.Rooms.List(ctx, "s1", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)

	// second delete of the same row
	assert.ErrorIs(t, repos.Rooms.SoftDelete(ctx, room.ID), apperr.ErrNotFound)

	_, err = repos.Rooms.Update(ctx, room.ID, map[string]any{"name": "Other"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	row, err := repos.Rooms.FindAny(ctx, room.ID)
	require.NoError(t, err)
	require.NotNil(t, row.DeletedAt)
	assert.True(t, row.DeletedAt.Equal(clock.T))
	require.NotNil(t, row.UpdatedAt)
	assert.True(t, row.UpdatedAt.Equal(*row.DeletedAt))
}

func TestLifecycle_SoftDeleteWritesTerminalStatus(t *testing.T) {
	repos := NewRepositories(testutil.NewDB(t), nil)
	ctx := context.Background()

	u := &domain.User{Email: "a@example.com", Status: domain.UserActive}
	require.NoError(t, repos.Users.Create(ctx, u))
	require.NoError(t, repos.Users.SoftDelete(ctx, u.ID))

	got, err := repos.Users.FindAny(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserDeleted, got.Status)
}

func TestLifecycle_ScopedUniqueness(t *testing.T) {
	repos := NewRepositories(testutil.NewDB(t), nil)
	ctx := context.Background()

	first := &domain.User{Email: "a@example.com", Status: domain.UserActive}
	require.NoError(t, repos.Users.Create(ctx, first))

	err := repos.Users.Create(ctx, &domain.User{Email: "a@example.com", Status: domain.UserActive})
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "Email already in use", apperr.Message(err))

	require.NoError(t, repos.Users.SoftDelete(ctx, first.ID))
	assert.NoError(t, repos.Users.Create(ctx, &domain.User{Email: "a@example.com", Status: domain.UserActive}))
}

func TestLifecycle_UpdateRevalidatesUniqueColumns(t *testing.T) {
	repos := NewRepositories(testutil.NewDB(t), nil)
	ctx := context.Background()

	a := &domain.User{Email: "a@example.com", Status: domain.UserActive}
	b := &domain.User{Email: "b@example.com", Status: domain.UserActive}
	require.NoError(t, repos.Users.Create(ctx, a))
	require.NoError(t, repos.Users.Create(ctx, b))

	_, err := repos.Users.Update(ctx, b.ID, map[string]any{"email": "a@example.com"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// unchanged value on the same row is not a conflict
	_, err = repos.Users.Update(ctx, a.ID, map[string]any{"email": "a@example.com", "name": "A"})
	assert.NoError(t, err)
}

func TestLifecycle_ListOrderAndPagination(t *testing.T) {
	repos := NewRepositories(testutil.NewDB(t), nil)
	ctx := context.Background()

	for _, name := range []string{"Cedar", "Aspen", "Birch", "Aspen"} {
		require.NoError(t, repos.Rooms.Create(ctx, &domain.Room{StudioID: "s1", Name: name, Capacity: 10}))
	}

	all, total, err := repos.Rooms.List(ctx, "s1", 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, all, 4)
	assert.Equal(t, "Aspen", all[0].Name)
	assert.Equal(t, "Aspen", all[1].Name)
	assert.Less(t, all[0].ID, all[1].ID)
	assert.Equal(t, "Cedar", all[3].Name)

	page, total, err := repos.Rooms.List(ctx, "s1", 2, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, page, 1)
	assert.Equal(t, all[3].ID, page[0].ID)
}
