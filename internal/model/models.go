// Package model defines the data models for the Uno game bot.
package model

import "time"

// UserStats is the persisted statistics row of one player.
// Counters only move while OptIn is set.
type UserStats struct {
	UserID      string    `db:"user_id"`
	DisplayName string    `db:"display_name"`
	GamesPlayed int64     `db:"games_played"`
	FirstPlaces int64     `db:"first_places"`
	CardsPlayed int64     `db:"cards_played"`
	OptIn       bool      `db:"opt_in"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// GameRecord is the outcome of one finished game for one player.
type GameRecord struct {
	UserID      string
	DisplayName string
	FirstPlace  bool
	CardsPlayed int
}
