package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/mika/watchlog/internal/repository/postgres"
	"github.com/mika/watchlog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchEntryRepository_ListByUserID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewWatchEntryRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	movie := testutil.NewMovieBuilder().WithTitle("Heat").Build(t, testDB.DB)

	now := time.Now().UTC()
	testutil.NewEntryBuilder(user, movie).WithWatchedAt(now.AddDate(0, 0, -2)).Build(t, testDB.DB)
	newest := testutil.NewEntryBuilder(user, movie).WithWatchedAt(now).Build(t, testDB.DB)
	testutil.NewEntryBuilder(user, movie).WithWatchedAt(now.AddDate(0, 0, -5)).Build(t, testDB.DB)
	testutil.NewEntryBuilder(other, movie).WithWatchedAt(now).Build(t, testDB.DB)

	entries, err := repo.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first, movie joined in for display
	assert.Equal(t, newest.ID, entries[0].ID)
	require.NotNil(t, entries[0].Movie)
	assert.Equal(t, "Heat", entries[0].Movie.Title)
	assert.True(t, entries[0].WatchedAt.After(entries[1].WatchedAt))
	assert.True(t, entries[1].WatchedAt.After(entries[2].WatchedAt))
}

func TestWatchEntryRepository_CountSince(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewWatchEntryRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	movie := testutil.NewMovieBuilder().Build(t, testDB.DB)

	now := time.Now().UTC().Truncate(time.Second)
	boundary := now.AddDate(0, 0, -30)

	testutil.NewEntryBuilder(user, movie).WithWatchedAt(now).Build(t, testDB.DB)
	testutil.NewEntryBuilder(user, movie).WithWatchedAt(boundary).Build(t, testDB.DB)                  // exactly on the boundary
	testutil.NewEntryBuilder(user, movie).WithWatchedAt(boundary.Add(-time.Second)).Build(t, testDB.DB) // just outside

	count, err := repo.CountSince(ctx, user.ID, boundary)
	require.NoError(t, err)

	// Boundary is inclusive
	assert.Equal(t, int64(2), count)
}

func TestWatchEntryRepository_AverageRating(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewWatchEntryRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	movie := testutil.NewMovieBuilder().Build(t, testDB.DB)

	// No entries at all: average is 0 by policy
	avg, err := repo.AverageRating(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)

	testutil.NewEntryBuilder(user, movie).WithRating(8).Build(t, testDB.DB)
	testutil.NewEntryBuilder(user, movie).Build(t, testDB.DB) // unrated, excluded entirely
	testutil.NewEntryBuilder(user, movie).WithRating(6).Build(t, testDB.DB)

	avg, err = repo.AverageRating(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 7.0, avg)
}

func TestWatchEntryRepository_TotalRuntimeMinutes(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewWatchEntryRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	long := testutil.NewMovieBuilder().WithCatalogID(1).WithRuntime(120).Build(t, testDB.DB)
	unknown := testutil.NewMovieBuilder().WithCatalogID(2).Build(t, testDB.DB) // runtime not supplied by catalog
	short := testutil.NewMovieBuilder().WithCatalogID(3).WithRuntime(90).Build(t, testDB.DB)

	testutil.NewEntryBuilder(user, long).Build(t, testDB.DB)
	testutil.NewEntryBuilder(user, unknown).Build(t, testDB.DB)
	testutil.NewEntryBuilder(user, short).Build(t, testDB.DB)

	total, err := repo.TotalRuntimeMinutes(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(210), total)
}

func TestWatchEntryRepository_Create_NoDedup(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewWatchEntryRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	movie := testutil.NewMovieBuilder().Build(t, testDB.DB)

	// Same user, same movie, different dates: two distinct facts
	testutil.NewEntryBuilder(user, movie).WithWatchedAt(time.Now().UTC().AddDate(0, 0, -1)).Build(t, testDB.DB)
	testutil.NewEntryBuilder(user, movie).WithWatchedAt(time.Now().UTC()).Build(t, testDB.DB)

	count, err := repo.CountByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
