package store

import (
	"context"
	"time"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/AdamBeresnev/pitchbook/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type InvitationStore struct {
	db *sqlx.DB
}

// invitationRow is the flat table layout of the booking.Invitation sum type.
type invitationRow struct {
	ID         uuid.UUID                `db:"id"`
	Type       booking.InvitationType   `db:"type"`
	SenderID   uuid.UUID                `db:"sender_id"`
	SenderName string                   `db:"sender_name"`
	ReceiverID uuid.UUID                `db:"receiver_id"`
	Status     booking.InvitationStatus `db:"status"`

	TeamID      *uuid.UUID `db:"team_id"`
	TeamName    *string    `db:"team_name"`
	TeamLogoURL *string    `db:"team_logo_url"`

	SenderTeamID        *uuid.UUID `db:"sender_team_id"`
	SenderTeamName      *string    `db:"sender_team_name"`
	SenderTeamLogoURL   *string    `db:"sender_team_logo_url"`
	ReceiverTeamID      *uuid.UUID `db:"receiver_team_id"`
	ReceiverTeamName    *string    `db:"receiver_team_name"`
	ReceiverTeamLogoURL *string    `db:"receiver_team_logo_url"`

	Version   int       `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func toInvitationRow(inv *booking.Invitation) invitationRow {
	row := invitationRow{
		ID:         inv.ID,
		Type:       inv.Type(),
		SenderID:   inv.SenderID,
		SenderName: inv.SenderName,
		ReceiverID: inv.ReceiverID,
		Status:     inv.Status,
		Version:    inv.Version,
		CreatedAt:  inv.CreatedAt,
		UpdatedAt:  inv.UpdatedAt,
	}
	if p := inv.Player; p != nil {
		row.TeamID = &p.TeamID
		row.TeamName = &p.TeamName
		row.TeamLogoURL = p.TeamLogoURL
	}
	if m := inv.Match; m != nil {
		row.SenderTeamID = &m.SenderTeamID
		row.SenderTeamName = &m.SenderTeamName
		row.SenderTeamLogoURL = m.SenderTeamLogoURL
		row.ReceiverTeamID = &m.ReceiverTeamID
		row.ReceiverTeamName = &m.ReceiverTeamName
		row.ReceiverTeamLogoURL = m.ReceiverTeamLogoURL
	}
	return row
}

func (r invitationRow) invitation() booking.Invitation {
	inv := booking.Invitation{
		ID:         r.ID,
		SenderID:   r.SenderID,
		SenderName: r.SenderName,
		ReceiverID: r.ReceiverID,
		Status:     r.Status,
		Version:    r.Version,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	switch r.Type {
	case booking.PlayerInvitation:
		inv.Player = &booking.PlayerInvite{
			TeamID:      utils.OrZero(r.TeamID),
			TeamName:    utils.OrZero(r.TeamName),
			TeamLogoURL: r.TeamLogoURL,
		}
	case booking.TeamMatchInvitation:
		inv.Match = &booking.MatchInvite{
			SenderTeamID:        utils.OrZero(r.SenderTeamID),
			SenderTeamName:      utils.OrZero(r.SenderTeamName),
			SenderTeamLogoURL:   r.SenderTeamLogoURL,
			ReceiverTeamID:      utils.OrZero(r.ReceiverTeamID),
			ReceiverTeamName:    utils.OrZero(r.ReceiverTeamName),
			ReceiverTeamLogoURL: r.ReceiverTeamLogoURL,
		}
	}
	return inv
}

func toInvitations(rows []invitationRow) []booking.Invitation {
	invitations := make([]booking.Invitation, 0, len(rows))
	for _, r := range rows {
		invitations = append(invitations, r.invitation())
	}
	return invitations
}

const (
	createInvitationQuery = `
		INSERT INTO invitations (
			id, type, sender_id, sender_name, receiver_id, status,
			team_id, team_name, team_logo_url,
			sender_team_id, sender_team_name, sender_team_logo_url,
			receiver_team_id, receiver_team_name, receiver_team_logo_url,
			version, created_at, updated_at
		) VALUES (
			:id, :type, :sender_id, :sender_name, :receiver_id, :status,
			:team_id, :team_name, :team_logo_url,
			:sender_team_id, :sender_team_name, :sender_team_logo_url,
			:receiver_team_id, :receiver_team_name, :receiver_team_logo_url,
			:version, :created_at, :updated_at
		)`
	updateInvitationStatusQuery = `
		UPDATE invitations SET status = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?`
	getInvitationQuery      = "SELECT * FROM invitations WHERE id = ?"
	pendingPlayerExistsQuery = `
		SELECT EXISTS (
			SELECT 1 FROM invitations
			WHERE type = 'PLAYER_INVITATION' AND status = 'PENDING' AND team_id = ? AND receiver_id = ?
		)`
	pendingMatchExistsQuery = `
		SELECT EXISTS (
			SELECT 1 FROM invitations
			WHERE type = 'TEAM_MATCH_INVITATION' AND status = 'PENDING' AND sender_team_id = ? AND receiver_team_id = ?
		)`
	pendingForUserQuery = `
		SELECT * FROM invitations
		WHERE status = 'PENDING' AND (
			(type = 'PLAYER_INVITATION' AND receiver_id = ?)
			OR (type = 'TEAM_MATCH_INVITATION' AND receiver_team_id IN (SELECT id FROM teams WHERE owner_id = ?))
		)
		ORDER BY created_at DESC`
	matchInvitationsForUserQuery = `
		SELECT * FROM invitations
		WHERE type = 'TEAM_MATCH_INVITATION' AND (
			sender_id = ? OR receiver_id = ?
			OR receiver_team_id IN (SELECT id FROM teams WHERE owner_id = ?)
		)
		ORDER BY created_at DESC`
)

func NewInvitationStore(db *sqlx.DB) *InvitationStore {
	return &InvitationStore{db: db}
}

func (s *InvitationStore) Create(ctx context.Context, tx *sqlx.Tx, inv *booking.Invitation) error {
	if inv.Version == 0 {
		inv.Version = 1
	}
	_, err := tx.NamedExecContext(ctx, createInvitationQuery, toInvitationRow(inv))
	return mapWriteErr(err)
}

func (s *InvitationStore) UpdateStatus(ctx context.Context, tx *sqlx.Tx, inv *booking.Invitation) error {
	res, err := tx.ExecContext(ctx, updateInvitationStatusQuery, inv.Status, inv.UpdatedAt, inv.ID, inv.Version)
	if err := checkVersioned(res, err); err != nil {
		return err
	}
	inv.Version++
	return nil
}

func (s *InvitationStore) Get(ctx context.Context, id uuid.UUID) (*booking.Invitation, error) {
	return getInvitation(ctx, s.db, id)
}

func (s *InvitationStore) GetTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*booking.Invitation, error) {
	return getInvitation(ctx, tx, id)
}

func getInvitation(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*booking.Invitation, error) {
	var row invitationRow
	if err := sqlx.GetContext(ctx, q, &row, getInvitationQuery, id); err != nil {
		return nil, err
	}
	inv := row.invitation()
	return &inv, nil
}

func (s *InvitationStore) HasPendingPlayerTx(ctx context.Context, tx *sqlx.Tx, teamID, receiverID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists, pendingPlayerExistsQuery, teamID, receiverID)
	return exists, err
}

func (s *InvitationStore) HasPendingMatchTx(ctx context.Context, tx *sqlx.Tx, senderTeamID, receiverTeamID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists, pendingMatchExistsQuery, senderTeamID, receiverTeamID)
	return exists, err
}

// ListPendingForUser returns player invitations addressed to the user and
// match invitations addressed to any team the user owns.
func (s *InvitationStore) ListPendingForUser(ctx context.Context, userID uuid.UUID) ([]booking.Invitation, error) {
	var rows []invitationRow
	if err := s.db.SelectContext(ctx, &rows, pendingForUserQuery, userID, userID); err != nil {
		return nil, err
	}
	return toInvitations(rows), nil
}

func (s *InvitationStore) ListMatchForUser(ctx context.Context, userID uuid.UUID) ([]booking.Invitation, error) {
	var rows []invitationRow
	if err := s.db.SelectContext(ctx, &rows, matchInvitationsForUserQuery, userID, userID, userID); err != nil {
		return nil, err
	}
	return toInvitations(rows), nil
}
