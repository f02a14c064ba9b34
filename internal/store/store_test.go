package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/AdamBeresnev/pitchbook/internal/db"
	"github.com/AdamBeresnev/pitchbook/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a file-backed SQLite database in a temp dir and applies migrations.
// A file is used instead of :memory: so every pooled connection sees the same data.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to open test DB")
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database.DB), "Failed to apply migrations")
	return database
}

func countConfirmedAt(t *testing.T, database *sqlx.DB, pitchID uuid.UUID, day, hour string) int {
	t.Helper()
	var n int
	require.NoError(t, database.Get(&n,
		"SELECT COUNT(*) FROM reservations WHERE pitch_id = ? AND day = ? AND hour = ? AND status = 'CONFIRMED'",
		pitchID, day, hour))
	return n
}

type fixture struct {
	db      *sqlx.DB
	stores  *Stores
	owner   *booking.User
	manager *booking.User
	pitch   *booking.Pitch
	home    *booking.Team
	away    *booking.Team
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := setupTestDB(t)
	f := &fixture{db: database, stores: New(database)}

	f.owner = f.createUser(t, "Home", "PLY-0001")
	f.manager = f.createUser(t, "Pitch", "PLY-0002")
	awayOwner := f.createUser(t, "Away", "PLY-0003")

	f.pitch = &booking.Pitch{
		ID:        uuid.New(),
		OwnerID:   f.manager.ID,
		Name:      "Central Park 5v5",
		Address:   "1 Park Lane",
		City:      "Paris",
		Price:     60,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.stores.Pitches.CreatePitch(context.Background(), f.pitch))

	f.home = f.createTeam(t, "Home FC", "SPT-0001", f.owner.ID)
	f.away = f.createTeam(t, "Away FC", "SPT-0002", awayOwner.ID)
	return f
}

func (f *fixture) createUser(t *testing.T, name, code string) *booking.User {
	t.Helper()
	u := &booking.User{
		ID:         uuid.New(),
		FirstName:  name,
		LastName:   "Player",
		Email:      code + "@example.com",
		PlayerCode: code,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, f.stores.Users.CreateUser(context.Background(), u))
	return u
}

func (f *fixture) createTeam(t *testing.T, name, code string, ownerID uuid.UUID) *booking.Team {
	t.Helper()
	team := &booking.Team{
		ID:        uuid.New(),
		Name:      name,
		City:      "Paris",
		LogoURL:   utils.Ptr("https://cdn.example.com/" + code + ".png"),
		OwnerID:   ownerID,
		TeamCode:  code,
		CreatedAt: time.Now().UTC(),
	}
	f.inTx(t, func(tx *sqlx.Tx) error {
		return f.stores.Teams.CreateTeam(context.Background(), tx, team)
	})
	return team
}

func (f *fixture) inTx(t *testing.T, fn func(tx *sqlx.Tx) error) {
	t.Helper()
	tx, err := f.db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()
	require.NoError(t, fn(tx))
	require.NoError(t, tx.Commit())
}

func (f *fixture) newReservation(day, hour string, status booking.ReservationStatus) *booking.Reservation {
	now := time.Now().UTC()
	return &booking.Reservation{
		ID:                uuid.New(),
		PitchID:           f.pitch.ID,
		PitchName:         f.pitch.Name,
		PitchAddress:      f.pitch.Address,
		PitchPrice:        f.pitch.Price,
		Day:               day,
		Hour:              hour,
		DurationMinutes:   90,
		SenderTeamID:      f.home.ID,
		SenderTeamName:    f.home.Name,
		SenderTeamLogoURL: f.home.LogoURL,
		AdverseTeamID:     f.away.ID,
		AdverseTeamName:   f.away.Name,
		SenderID:          f.owner.ID,
		ReceiverID:        f.manager.ID,
		Status:            status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
