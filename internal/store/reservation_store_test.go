package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r := f.newReservation("2025-06-01", "10:00", booking.ReservationPending)
	f.inTx(t, func(tx *sqlx.Tx) error {
		return f.stores.Reservations.Create(ctx, tx, r)
	})
	assert.Equal(t, 1, r.Version)

	fetched, err := f.stores.Reservations.Get(ctx, r.ID)
	require.NoError(t, err)

	assert.Equal(t, r.ID, fetched.ID)
	assert.Equal(t, r.PitchID, fetched.PitchID)
	assert.Equal(t, "Central Park 5v5", fetched.PitchName)
	assert.Equal(t, "2025-06-01", fetched.Day)
	assert.Equal(t, "10:00", fetched.Hour)
	assert.Equal(t, booking.ReservationPending, fetched.Status)
	assert.Equal(t, r.SenderTeamLogoURL, fetched.SenderTeamLogoURL)
	assert.Nil(t, fetched.AdverseTeamLogoURL)
	assert.Nil(t, fetched.HomeScore)
	assert.WithinDuration(t, r.CreatedAt, fetched.CreatedAt, time.Second)

	_, err = f.stores.Reservations.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUpdateReservationVersionCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r := f.newReservation("2025-06-01", "10:00", booking.ReservationPending)
	f.inTx(t, func(tx *sqlx.Tx) error {
		return f.stores.Reservations.Create(ctx, tx, r)
	})

	stale := *r

	r.Status = booking.ReservationConfirmed
	f.inTx(t, func(tx *sqlx.Tx) error {
		return f.stores.Reservations.Update(ctx, tx, r)
	})
	assert.Equal(t, 2, r.Version)

	stale.Status = booking.ReservationRejected
	tx, err := f.db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()
	err = f.stores.Reservations.Update(ctx, tx, &stale)
	assert.ErrorIs(t, err, ErrStaleVersion)
	require.NoError(t, tx.Rollback())

	fetched, err := f.stores.Reservations.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ReservationConfirmed, fetched.Status)
}

func TestConfirmedSlotIsUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.newReservation("2025-06-01", "10:00", booking.ReservationConfirmed)
	f.inTx(t, func(tx *sqlx.Tx) error {
		return f.stores.Reservations.Create(ctx, tx, first)
	})

	// Pending requests for a held slot are allowed.
	pending := f.newReservation("2025-06-01", "10:00", booking.ReservationPending)
	f.inTx(t, func(tx *sqlx.Tx) error {
		return f.stores.Reservations.Create(ctx, tx, pending)
	})

	pending.Status = booking.ReservationConfirmed
	tx, err := f.db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	taken, err := f.stores.Reservations.HasConfirmedAtSlotTx(ctx, tx, f.pitch.ID, "2025-06-01", "10:00", pending.ID)
	require.NoError(t, err)
	assert.True(t, taken)

	self, err := f.stores.Reservations.HasConfirmedAtSlotTx(ctx, tx, f.pitch.ID, "2025-06-01", "10:00", first.ID)
	require.NoError(t, err)
	assert.False(t, self)

	err = f.stores.Reservations.Update(ctx, tx, pending)
	assert.ErrorIs(t, err, ErrConflict)
	require.NoError(t, tx.Rollback())

	assert.Equal(t, 1, countConfirmedAt(t, f.db, f.pitch.ID, "2025-06-01", "10:00"))
}

func TestReservationQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	late := f.newReservation("2025-06-02", "18:00", booking.ReservationPending)
	early := f.newReservation("2025-06-01", "09:00", booking.ReservationPending)
	confirmed := f.newReservation("2025-06-01", "12:00", booking.ReservationConfirmed)
	withdrawn := f.newReservation("2025-06-03", "12:00", booking.ReservationCancelled)
	withdrawn.CancelledBySender = true
	completed := f.newReservation("2025-05-01", "12:00", booking.ReservationCompleted)
	home, away := 2, 1
	completed.HomeScore, completed.AwayScore = &home, &away

	f.inTx(t, func(tx *sqlx.Tx) error {
		for _, r := range []*booking.Reservation{late, early, confirmed, withdrawn, completed} {
			if err := f.stores.Reservations.Create(ctx, tx, r); err != nil {
				return err
			}
		}
		return nil
	})

	pending, err := f.stores.Reservations.ListPendingByPitch(ctx, f.pitch.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, early.ID, pending[0].ID)
	assert.Equal(t, late.ID, pending[1].ID)

	byDay, err := f.stores.Reservations.ListByPitchDay(ctx, f.pitch.ID, "2025-06-01", booking.ReservationConfirmed)
	require.NoError(t, err)
	require.Len(t, byDay, 1)
	assert.Equal(t, confirmed.ID, byDay[0].ID)

	// Withdrawn by the sender: hidden from the sender team, visible to the adverse team.
	senderView, err := f.stores.Reservations.ListByTeam(ctx, f.home.ID)
	require.NoError(t, err)
	assert.Len(t, senderView, 4)
	adverseView, err := f.stores.Reservations.ListByTeam(ctx, f.away.ID)
	require.NoError(t, err)
	assert.Len(t, adverseView, 5)
	assert.Equal(t, completed.ID, adverseView[0].ID)

	f.inTx(t, func(tx *sqlx.Tx) error {
		done, err := f.stores.Reservations.ListCompletedByTeamTx(ctx, tx, f.away.ID)
		require.Len(t, done, 1)
		return err
	})

	mine, err := f.stores.Reservations.ListByStatusForUser(ctx, booking.ReservationPending, f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	week, err := f.stores.Reservations.ListConfirmedByPitchBetween(ctx, f.pitch.ID, "2025-05-26", "2025-06-01")
	require.NoError(t, err)
	assert.Len(t, week, 1)
}
