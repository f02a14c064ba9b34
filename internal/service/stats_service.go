package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/AdamBeresnev/pitchbook/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type StatsService struct {
	db      *sqlx.DB
	stores  *store.Stores
	retries int
	Now     func() time.Time
}

func NewStatsService(db *sqlx.DB, stores *store.Stores, retries int) *StatsService {
	if retries < 1 {
		retries = 1
	}
	return &StatsService{db: db, stores: stores, retries: retries, Now: time.Now}
}

// Recompute rebuilds the team's stats from all of its completed matches and
// overwrites the stored row.
func (s *StatsService) Recompute(ctx context.Context, teamID uuid.UUID) (*booking.TeamStats, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := s.stores.Teams.GetTeamTx(ctx, tx, teamID); err != nil {
		return nil, notFoundf(err, "team %s not found", teamID)
	}

	completed, err := s.stores.Reservations.ListCompletedByTeamTx(ctx, tx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed matches: %w", err)
	}

	stats := booking.ComputeStats(teamID, completed, s.Now())
	if err := s.stores.Stats.Save(ctx, tx, &stats); err != nil {
		return nil, fmt.Errorf("failed to save stats: %w", err)
	}

	return &stats, tx.Commit()
}

// Get returns zeroed stats for a team that has not completed a match yet.
func (s *StatsService) Get(ctx context.Context, teamID uuid.UUID) (*booking.TeamStats, error) {
	team, err := s.stores.Teams.GetTeam(ctx, teamID)
	if err != nil {
		return nil, notFoundf(err, "team %s not found", teamID)
	}

	stats, err := s.stores.Stats.Get(ctx, team.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return &booking.TeamStats{TeamID: team.ID}, nil
	}
	return stats, err
}

// refresh recomputes each team after a match completes. The match result is
// already committed, so failures are retried a few times and then logged.
func (s *StatsService) refresh(ctx context.Context, teamIDs ...uuid.UUID) {
	for _, teamID := range teamIDs {
		var err error
		for attempt := 1; attempt <= s.retries; attempt++ {
			if _, err = s.Recompute(ctx, teamID); err == nil {
				break
			}
			slog.Warn("stats recompute failed", "team", teamID, "attempt", attempt, "error", err)
			if attempt == s.retries {
				break
			}
			select {
			case <-ctx.Done():
				slog.Error("stats recompute abandoned", "team", teamID, "error", ctx.Err())
				return
			case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
			}
		}
		if err != nil {
			slog.Error("giving up on stats recompute", "team", teamID, "error", err)
		}
	}
}
