package store

import (
	"context"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ReservationStore struct {
	db *sqlx.DB
}

const (
	createReservationQuery = `
		INSERT INTO reservations (
			id, pitch_id, pitch_name, pitch_address, pitch_price,
			day, hour, duration_minutes,
			sender_team_id, sender_team_name, sender_team_logo_url,
			adverse_team_id, adverse_team_name, adverse_team_logo_url,
			sender_id, receiver_id, status, cancelled_by_sender, cancelled_by_receiver,
			home_score, away_score, version, created_at, updated_at
		) VALUES (
			:id, :pitch_id, :pitch_name, :pitch_address, :pitch_price,
			:day, :hour, :duration_minutes,
			:sender_team_id, :sender_team_name, :sender_team_logo_url,
			:adverse_team_id, :adverse_team_name, :adverse_team_logo_url,
			:sender_id, :receiver_id, :status, :cancelled_by_sender, :cancelled_by_receiver,
			:home_score, :away_score, :version, :created_at, :updated_at
		)`
	updateReservationQuery = `
		UPDATE reservations SET
			status = ?,
			cancelled_by_sender = ?,
			cancelled_by_receiver = ?,
			home_score = ?,
			away_score = ?,
			updated_at = ?,
			version = version + 1
		WHERE id = ? AND version = ?`
	getReservationQuery = "SELECT * FROM reservations WHERE id = ?"
	confirmedAtSlotQuery = `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE pitch_id = ? AND day = ? AND hour = ? AND status = 'CONFIRMED' AND id <> ?
		)`
	reservationsByPitchDayQuery = `
		SELECT * FROM reservations
		WHERE pitch_id = ? AND day = ? AND status = ?
		ORDER BY hour ASC`
	pendingByPitchQuery = `
		SELECT * FROM reservations
		WHERE pitch_id = ? AND status = 'PENDING'
		ORDER BY day ASC, hour ASC`
	confirmedByPitchBetweenQuery = `
		SELECT * FROM reservations
		WHERE pitch_id = ? AND status = 'CONFIRMED' AND day >= ? AND day <= ?
		ORDER BY day ASC, hour ASC`
	completedByTeamQuery = `
		SELECT * FROM reservations
		WHERE status = 'COMPLETED' AND (sender_team_id = ? OR adverse_team_id = ?)
		ORDER BY day ASC, hour ASC`
	reservationsByTeamQuery = `
		SELECT * FROM reservations
		WHERE (sender_team_id = ? AND cancelled_by_sender = 0) OR adverse_team_id = ?
		ORDER BY day ASC, hour ASC`
	reservationsByStatusForUserQuery = `
		SELECT * FROM reservations
		WHERE status = ? AND (
			sender_id = ? OR receiver_id = ?
			OR sender_team_id IN (SELECT id FROM teams WHERE owner_id = ?)
		)
		ORDER BY day ASC, hour ASC`
)

func NewReservationStore(db *sqlx.DB) *ReservationStore {
	return &ReservationStore{db: db}
}

func (s *ReservationStore) Create(ctx context.Context, tx *sqlx.Tx, r *booking.Reservation) error {
	if r.Version == 0 {
		r.Version = 1
	}
	_, err := tx.NamedExecContext(ctx, createReservationQuery, r)
	return mapWriteErr(err)
}

// Update persists status, cancellation flags and score if r is still at the version it was read at.
func (s *ReservationStore) Update(ctx context.Context, tx *sqlx.Tx, r *booking.Reservation) error {
	res, err := tx.ExecContext(ctx, updateReservationQuery,
		r.Status, r.CancelledBySender, r.CancelledByReceiver,
		r.HomeScore, r.AwayScore, r.UpdatedAt,
		r.ID, r.Version,
	)
	if err := checkVersioned(res, err); err != nil {
		return err
	}
	r.Version++
	return nil
}

func (s *ReservationStore) Get(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
	return getReservation(ctx, s.db, id)
}

func (s *ReservationStore) GetTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*booking.Reservation, error) {
	return getReservation(ctx, tx, id)
}

func getReservation(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*booking.Reservation, error) {
	var r booking.Reservation
	if err := sqlx.GetContext(ctx, q, &r, getReservationQuery, id); err != nil {
		return nil, err
	}
	return &r, nil
}

// HasConfirmedAtSlotTx reports whether another reservation already holds the slot.
func (s *ReservationStore) HasConfirmedAtSlotTx(ctx context.Context, tx *sqlx.Tx, pitchID uuid.UUID, day, hour string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists, confirmedAtSlotQuery, pitchID, day, hour, excludeID)
	return exists, err
}

func (s *ReservationStore) ListByPitchDay(ctx context.Context, pitchID uuid.UUID, day string, status booking.ReservationStatus) ([]booking.Reservation, error) {
	var reservations []booking.Reservation
	err := s.db.SelectContext(ctx, &reservations, reservationsByPitchDayQuery, pitchID, day, status)
	return reservations, err
}

func (s *ReservationStore) ListPendingByPitch(ctx context.Context, pitchID uuid.UUID) ([]booking.Reservation, error) {
	var reservations []booking.Reservation
	err := s.db.SelectContext(ctx, &reservations, pendingByPitchQuery, pitchID)
	return reservations, err
}

// ListConfirmedByPitchBetween returns confirmed bookings with from <= day <= to.
func (s *ReservationStore) ListConfirmedByPitchBetween(ctx context.Context, pitchID uuid.UUID, from, to string) ([]booking.Reservation, error) {
	var reservations []booking.Reservation
	err := s.db.SelectContext(ctx, &reservations, confirmedByPitchBetweenQuery, pitchID, from, to)
	return reservations, err
}

func (s *ReservationStore) ListCompletedByTeamTx(ctx context.Context, tx *sqlx.Tx, teamID uuid.UUID) ([]booking.Reservation, error) {
	var reservations []booking.Reservation
	err := tx.SelectContext(ctx, &reservations, completedByTeamQuery, teamID, teamID)
	return reservations, err
}

// ListByTeam returns the team's bookings, leaving out the ones it withdrew itself.
func (s *ReservationStore) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]booking.Reservation, error) {
	var reservations []booking.Reservation
	err := s.db.SelectContext(ctx, &reservations, reservationsByTeamQuery, teamID, teamID)
	return reservations, err
}

func (s *ReservationStore) ListByStatusForUser(ctx context.Context, status booking.ReservationStatus, userID uuid.UUID) ([]booking.Reservation, error) {
	var reservations []booking.Reservation
	err := s.db.SelectContext(ctx, &reservations, reservationsByStatusForUserQuery, status, userID, userID, userID)
	return reservations, err
}
