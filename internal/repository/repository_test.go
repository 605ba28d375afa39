// Package repository provides data access layer implementations.
// Tests use testcontainers-go to spin up a PostgreSQL container.
package repository

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"uno-game-bot/internal/model"
	"uno-game-bot/internal/pkg/db"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

// setupTestDB creates a PostgreSQL container and returns a connection pool
// Skips the test if Docker is not available
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, db.Migrate(ctx, pool))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func TestStatsRepository_SetOptIn(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewStatsRepository(pool)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "42")
	assert.ErrorIs(t, err, ErrStatsNotFound)

	s, err := repo.SetOptIn(ctx, "42", "alice", true)
	require.NoError(t, err)
	assert.Equal(t, "42", s.UserID)
	assert.Equal(t, "alice", s.DisplayName)
	assert.True(t, s.OptIn)
	assert.Zero(t, s.GamesPlayed)
	assert.False(t, s.CreatedAt.IsZero())

	s, err = repo.SetOptIn(ctx, "42", "alice2", false)
	require.NoError(t, err)
	assert.False(t, s.OptIn)
	assert.Equal(t, "alice2", s.DisplayName)
}

func TestStatsRepository_RecordOnlyOptedIn(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewStatsRepository(pool)
	ctx := context.Background()

	_, err := repo.SetOptIn(ctx, "1", "alice", true)
	require.NoError(t, err)
	_, err = repo.SetOptIn(ctx, "2", "bob", false)
	require.NoError(t, err)

	n, err := repo.Record(ctx, []model.GameRecord{
		{UserID: "1", DisplayName: "alice", FirstPlace: true, CardsPlayed: 12},
		{UserID: "2", DisplayName: "bob", CardsPlayed: 9},
		{UserID: "3", DisplayName: "carol", CardsPlayed: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	alice, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), alice.GamesPlayed)
	assert.Equal(t, int64(1), alice.FirstPlaces)
	assert.Equal(t, int64(12), alice.CardsPlayed)

	bob, err := repo.GetByID(ctx, "2")
	require.NoError(t, err)
	assert.Zero(t, bob.GamesPlayed)

	_, err = repo.GetByID(ctx, "3")
	assert.ErrorIs(t, err, ErrStatsNotFound)
}

func TestStatsRepository_Top(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewStatsRepository(pool)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		_, err := repo.SetOptIn(ctx, id, "player"+id, true)
		require.NoError(t, err)
	}
	_, err := repo.SetOptIn(ctx, "4", "hidden", false)
	require.NoError(t, err)

	_, err = repo.Record(ctx, []model.GameRecord{
		{UserID: "2", FirstPlace: true},
		{UserID: "1"},
		{UserID: "3"},
	})
	require.NoError(t, err)
	_, err = repo.Record(ctx, []model.GameRecord{
		{UserID: "2", FirstPlace: true},
		{UserID: "3"},
	})
	require.NoError(t, err)

	top, err := repo.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "2", top[0].UserID)
	assert.Equal(t, "1", top[1].UserID)
	assert.Equal(t, "3", top[2].UserID)
	assert.Equal(t, "player2", top[0].DisplayName)

	top, err = repo.Top(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}
