package booking

import (
	"time"

	"github.com/google/uuid"
)

type TeamStats struct {
	TeamID         uuid.UUID `db:"team_id" json:"teamId"`
	Played         int       `db:"played" json:"played"`
	Wins           int       `db:"wins" json:"wins"`
	Draws          int       `db:"draws" json:"draws"`
	Losses         int       `db:"losses" json:"losses"`
	GoalsScored    int       `db:"goals_scored" json:"goalsScored"`
	GoalsConceded  int       `db:"goals_conceded" json:"goalsConceded"`
	GoalDifference int       `db:"goal_difference" json:"goalDifference"`
	WinRate        float64   `db:"win_rate" json:"winRate"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// ComputeStats folds the team's completed reservations into a fresh TeamStats.
// Reservations that are not COMPLETED, carry no score, or do not involve the
// team are skipped.
func ComputeStats(teamID uuid.UUID, reservations []Reservation, now time.Time) TeamStats {
	stats := TeamStats{TeamID: teamID, UpdatedAt: now}

	for _, r := range reservations {
		if r.Status != ReservationCompleted {
			continue
		}
		score, ok := r.Score()
		if !ok {
			continue
		}

		var own, their int
		switch teamID {
		case r.SenderTeamID:
			own, their = score.Home, score.Away
		case r.AdverseTeamID:
			own, their = score.Away, score.Home
		default:
			continue
		}

		stats.Played++
		stats.GoalsScored += own
		stats.GoalsConceded += their
		switch {
		case own > their:
			stats.Wins++
		case own == their:
			stats.Draws++
		default:
			stats.Losses++
		}
	}

	stats.GoalDifference = stats.GoalsScored - stats.GoalsConceded
	if stats.Played > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.Played) * 100
	}
	return stats
}
