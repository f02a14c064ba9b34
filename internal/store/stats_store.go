package store

import (
	"context"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type StatsStore struct {
	db *sqlx.DB
}

const upsertStatsQuery = `
	INSERT INTO team_stats (
		team_id, played, wins, draws, losses,
		goals_scored, goals_conceded, goal_difference, win_rate, updated_at
	) VALUES (
		:team_id, :played, :wins, :draws, :losses,
		:goals_scored, :goals_conceded, :goal_difference, :win_rate, :updated_at
	)
	ON CONFLICT (team_id) DO UPDATE SET
		played = excluded.played,
		wins = excluded.wins,
		draws = excluded.draws,
		losses = excluded.losses,
		goals_scored = excluded.goals_scored,
		goals_conceded = excluded.goals_conceded,
		goal_difference = excluded.goal_difference,
		win_rate = excluded.win_rate,
		updated_at = excluded.updated_at`

func NewStatsStore(db *sqlx.DB) *StatsStore {
	return &StatsStore{db: db}
}

// Save overwrites the team's stats row, creating it on first use.
func (s *StatsStore) Save(ctx context.Context, tx *sqlx.Tx, stats *booking.TeamStats) error {
	_, err := tx.NamedExecContext(ctx, upsertStatsQuery, stats)
	return err
}

func (s *StatsStore) Get(ctx context.Context, teamID uuid.UUID) (*booking.TeamStats, error) {
	var stats booking.TeamStats
	if err := s.db.GetContext(ctx, &stats, "SELECT * FROM team_stats WHERE team_id = ?", teamID); err != nil {
		return nil, err
	}
	return &stats, nil
}
