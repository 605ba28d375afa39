package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var migrations = []struct {
	name string
	sql  string
}{
	{
		name: "user_stats table",
		sql: `
		CREATE TABLE IF NOT EXISTS user_stats (
			user_id TEXT PRIMARY KEY,
			display_name VARCHAR(255) NOT NULL DEFAULT '',
			games_played BIGINT NOT NULL DEFAULT 0,
			first_places BIGINT NOT NULL DEFAULT 0,
			cards_played BIGINT NOT NULL DEFAULT 0,
			opt_in BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	},
	{
		name: "user_stats ranking index",
		sql: `
		CREATE INDEX IF NOT EXISTS idx_user_stats_rank
			ON user_stats(first_places DESC, games_played ASC) WHERE opt_in;`,
	},
}

// Migrate applies the schema. Every migration is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	log.Info().Msg("Running database migrations...")

	for i, m := range migrations {
		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("migration %d (%s): %w", i+1, m.name, err)
		}
		log.Info().Int("step", i+1).Str("name", m.name).Msg("Migration applied")
	}

	log.Info().Msg("All migrations completed successfully")
	return nil
}
