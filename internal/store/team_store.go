package store

import (
	"context"
	"time"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TeamStore struct {
	db *sqlx.DB
}

const (
	getTeamQuery       = "SELECT * FROM teams WHERE id = ?"
	getTeamByCodeQuery = "SELECT * FROM teams WHERE team_code = ?"
	teamMembersQuery   = `
		SELECT tm.user_id, u.first_name, u.last_name, tm.role, tm.joined_at
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = ?
		ORDER BY tm.joined_at ASC, tm.rowid ASC`
	createTeamQuery = `
		INSERT INTO teams (id, name, city, logo_url, owner_id, team_code, created_at)
		VALUES (:id, :name, :city, :logo_url, :owner_id, :team_code, :created_at)`
	addMemberQuery = `
		INSERT INTO team_members (team_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (team_id, user_id) DO NOTHING`
)

func NewTeamStore(db *sqlx.DB) *TeamStore {
	return &TeamStore{db: db}
}

// CreateTeam inserts the team and enrolls its owner as the first member.
func (s *TeamStore) CreateTeam(ctx context.Context, tx *sqlx.Tx, team *booking.Team) error {
	if _, err := tx.NamedExecContext(ctx, createTeamQuery, team); err != nil {
		return mapWriteErr(err)
	}
	_, err := s.AddMember(ctx, tx, team.ID, team.OwnerID, booking.RoleOwner, team.CreatedAt)
	return err
}

func (s *TeamStore) GetTeam(ctx context.Context, id uuid.UUID) (*booking.Team, error) {
	return getTeam(ctx, s.db, getTeamQuery, id)
}

func (s *TeamStore) GetTeamTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*booking.Team, error) {
	return getTeam(ctx, tx, getTeamQuery, id)
}

func (s *TeamStore) GetTeamByCodeTx(ctx context.Context, tx *sqlx.Tx, code string) (*booking.Team, error) {
	return getTeam(ctx, tx, getTeamByCodeQuery, code)
}

func getTeam(ctx context.Context, q sqlx.QueryerContext, query string, arg any) (*booking.Team, error) {
	var team booking.Team
	if err := sqlx.GetContext(ctx, q, &team, query, arg); err != nil {
		return nil, err
	}
	if err := sqlx.SelectContext(ctx, q, &team.Members, teamMembersQuery, team.ID); err != nil {
		return nil, err
	}
	return &team, nil
}

// AddMember reports whether a new membership row was written.
func (s *TeamStore) AddMember(ctx context.Context, tx *sqlx.Tx, teamID, userID uuid.UUID, role booking.MemberRole, joinedAt time.Time) (bool, error) {
	res, err := tx.ExecContext(ctx, addMemberQuery, teamID, userID, role, joinedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
