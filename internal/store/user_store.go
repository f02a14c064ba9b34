package store

import (
	"context"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type UserStore struct {
	db *sqlx.DB
}

const (
	getUserQuery             = "SELECT * FROM users WHERE id = ?"
	getUserByPlayerCodeQuery = "SELECT * FROM users WHERE player_code = ?"
	userTeamIDsQuery         = `
		SELECT team_id FROM team_members
		WHERE user_id = ?
		ORDER BY joined_at ASC, rowid ASC`
	createUserQuery = `
		INSERT INTO users (id, first_name, last_name, email, player_code, active_team_id, created_at) VALUES
		(:id, :first_name, :last_name, :email, :player_code, :active_team_id, :created_at)
	`
)

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetUser(ctx context.Context, id uuid.UUID) (*booking.User, error) {
	return getUser(ctx, s.db, getUserQuery, id)
}

func (s *UserStore) GetUserTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*booking.User, error) {
	return getUser(ctx, tx, getUserQuery, id)
}

func (s *UserStore) GetUserByPlayerCodeTx(ctx context.Context, tx *sqlx.Tx, code string) (*booking.User, error) {
	return getUser(ctx, tx, getUserByPlayerCodeQuery, code)
}

func getUser(ctx context.Context, q sqlx.QueryerContext, query string, arg any) (*booking.User, error) {
	var user booking.User
	if err := sqlx.GetContext(ctx, q, &user, query, arg); err != nil {
		return nil, err
	}
	if err := sqlx.SelectContext(ctx, q, &user.TeamIDs, userTeamIDsQuery, user.ID); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) CreateUser(ctx context.Context, user *booking.User) error {
	_, err := s.db.NamedExecContext(ctx, createUserQuery, user)
	return mapWriteErr(err)
}
