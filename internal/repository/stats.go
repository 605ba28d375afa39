// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"uno-game-bot/internal/model"
)

// Common errors for repository operations.
var (
	ErrStatsNotFound = errors.New("no statistics for user")
)

const statsColumns = `user_id, display_name, games_played, first_places, cards_played, opt_in, created_at, updated_at`

// StatsRepository handles player statistics persistence.
type StatsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new StatsRepository instance.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

func scanStats(row pgx.Row) (*model.UserStats, error) {
	var s model.UserStats
	err := row.Scan(
		&s.UserID,
		&s.DisplayName,
		&s.GamesPlayed,
		&s.FirstPlaces,
		&s.CardsPlayed,
		&s.OptIn,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID retrieves the statistics of a user.
// Returns ErrStatsNotFound if the user has none.
func (r *StatsRepository) GetByID(ctx context.Context, userID string) (*model.UserStats, error) {
	query := `SELECT ` + statsColumns + ` FROM user_stats WHERE user_id = $1`

	s, err := scanStats(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStatsNotFound
		}
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return s, nil
}

// SetOptIn creates the row if needed and switches statistics on or off.
func (r *StatsRepository) SetOptIn(ctx context.Context, userID, displayName string, optIn bool) (*model.UserStats, error) {
	query := `
		INSERT INTO user_stats (user_id, display_name, opt_in, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET display_name = EXCLUDED.display_name, opt_in = EXCLUDED.opt_in, updated_at = NOW()
		RETURNING ` + statsColumns

	s, err := scanStats(r.pool.QueryRow(ctx, query, userID, displayName, optIn))
	if err != nil {
		return nil, fmt.Errorf("failed to set opt-in: %w", err)
	}
	return s, nil
}

// Record adds the outcome of one game. Only opted-in users are updated.
// Returns the number of rows changed.
func (r *StatsRepository) Record(ctx context.Context, records []model.GameRecord) (int, error) {
	const query = `
		UPDATE user_stats
		SET games_played = games_played + 1,
			first_places = first_places + $2,
			cards_played = cards_played + $3,
			display_name = CASE WHEN $4 = '' THEN display_name ELSE $4 END,
			updated_at = NOW()
		WHERE user_id = $1 AND opt_in
	`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, rec := range records {
		first := 0
		if rec.FirstPlace {
			first = 1
		}
		batch.Queue(query, rec.UserID, first, rec.CardsPlayed, rec.DisplayName)
	}

	results := tx.SendBatch(ctx, batch)
	updated := 0
	for range records {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return 0, fmt.Errorf("failed to record game: %w", err)
		}
		updated += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to record game: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit game record: %w", err)
	}
	return updated, nil
}

// Top retrieves the best opted-in players by first places.
func (r *StatsRepository) Top(ctx context.Context, limit int) ([]*model.UserStats, error) {
	query := `SELECT ` + statsColumns + `
		FROM user_stats
		WHERE opt_in
		ORDER BY first_places DESC, games_played ASC, user_id ASC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top players: %w", err)
	}
	defer rows.Close()

	var out []*model.UserStats
	for rows.Next() {
		s, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats: %w", err)
	}
	return out, nil
}
