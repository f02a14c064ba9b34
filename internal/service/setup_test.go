package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/AdamBeresnev/pitchbook/internal/db"
	"github.com/AdamBeresnev/pitchbook/internal/lock"
	"github.com/AdamBeresnev/pitchbook/internal/notify"
	"github.com/AdamBeresnev/pitchbook/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a file-backed SQLite database in a temp dir and applies migrations.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to open test DB")
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database.DB), "Failed to apply migrations")
	return database
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordingDispatcher struct {
	mu      sync.Mutex
	intents []notify.Intent
}

func (d *recordingDispatcher) Dispatch(_ context.Context, in notify.Intent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.intents = append(d.intents, in)
	return nil
}

func (d *recordingDispatcher) ofType(kind booking.NotificationType) []notify.Intent {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []notify.Intent
	for _, in := range d.intents {
		if in.Type == kind {
			out = append(out, in)
		}
	}
	return out
}

func recipients(intents []notify.Intent) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(intents))
	for _, in := range intents {
		ids = append(ids, in.RecipientID)
	}
	return ids
}

// testEnv wires every service against one database with a controllable clock.
// Team A is owned by u1 and has player as a member, team B is owned by u2,
// and the pitch belongs to manager.
type testEnv struct {
	db     *sqlx.DB
	stores *store.Stores
	clock  *testClock
	notes  *recordingDispatcher

	reservations  *ReservationService
	invitations   *InvitationService
	stats         *StatsService
	availability  *AvailabilityService
	notifications *NotificationService

	u1, u2, manager, player, outsider *booking.User
	teamA, teamB                      *booking.Team
	pitch                             *booking.Pitch
}

var testStart = time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database := setupTestDB(t)
	stores := store.New(database)
	clock := &testClock{now: testStart}
	notes := &recordingDispatcher{}

	e := &testEnv{db: database, stores: stores, clock: clock, notes: notes}

	e.stats = NewStatsService(database, stores, 2)
	e.stats.Now = clock.Now
	e.reservations = NewReservationService(database, stores, e.stats, notes, lock.Nop{}, booking.DefaultSlotWindow())
	e.reservations.Now = clock.Now
	e.invitations = NewInvitationService(database, stores, notes)
	e.invitations.Now = clock.Now
	e.availability = NewAvailabilityService(stores, booking.DefaultSlotWindow())
	e.availability.Now = clock.Now
	e.notifications = NewNotificationService(stores.Notifications)

	e.u1 = e.createUser(t, "Una", "PLY-1001")
	e.u2 = e.createUser(t, "Uli", "PLY-1002")
	e.manager = e.createUser(t, "Mia", "PLY-1003")
	e.player = e.createUser(t, "Pat", "PLY-1004")
	e.outsider = e.createUser(t, "Oz", "PLY-1005")

	e.teamA = e.createTeam(t, "Team A", "SPT-0001", e.u1.ID)
	e.teamB = e.createTeam(t, "Team B", "SPT-1234", e.u2.ID)
	e.addMember(t, e.teamA.ID, e.player.ID)

	e.pitch = e.createPitch(t, "Pitch X", e.manager.ID, true)
	return e
}

func (e *testEnv) createUser(t *testing.T, name, code string) *booking.User {
	t.Helper()
	u := &booking.User{
		ID:         uuid.New(),
		FirstName:  name,
		LastName:   "Tester",
		Email:      code + "@example.com",
		PlayerCode: code,
		CreatedAt:  testStart,
	}
	require.NoError(t, e.stores.Users.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) createTeam(t *testing.T, name, code string, ownerID uuid.UUID) *booking.Team {
	t.Helper()
	team := &booking.Team{
		ID:        uuid.New(),
		Name:      name,
		City:      "Lyon",
		OwnerID:   ownerID,
		TeamCode:  code,
		CreatedAt: testStart,
	}
	e.inTx(t, func(tx *sqlx.Tx) error {
		return e.stores.Teams.CreateTeam(context.Background(), tx, team)
	})
	return team
}

func (e *testEnv) addMember(t *testing.T, teamID, userID uuid.UUID) {
	t.Helper()
	e.inTx(t, func(tx *sqlx.Tx) error {
		_, err := e.stores.Teams.AddMember(context.Background(), tx, teamID, userID, booking.RoleMember, testStart.Add(time.Minute))
		return err
	})
}

func (e *testEnv) createPitch(t *testing.T, name string, ownerID uuid.UUID, active bool) *booking.Pitch {
	t.Helper()
	p := &booking.Pitch{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Address:   "12 Rue du Stade",
		City:      "Lyon",
		Price:     80,
		IsActive:  active,
		CreatedAt: testStart,
	}
	require.NoError(t, e.stores.Pitches.CreatePitch(context.Background(), p))
	return p
}

func (e *testEnv) inTx(t *testing.T, fn func(tx *sqlx.Tx) error) {
	t.Helper()
	tx, err := e.db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()
	require.NoError(t, fn(tx))
	require.NoError(t, tx.Commit())
}

func (e *testEnv) request(day, hour string) CreateReservationInput {
	return CreateReservationInput{
		SenderTeamID:    e.teamA.ID,
		AdverseTeamID:   e.teamB.ID,
		PitchID:         e.pitch.ID,
		Day:             day,
		Hour:            hour,
		DurationMinutes: 90,
		RequesterID:     e.u1.ID,
	}
}

// book creates and confirms a reservation.
func (e *testEnv) book(t *testing.T, day, hour string) *booking.Reservation {
	t.Helper()
	ctx := context.Background()
	r, err := e.reservations.Create(ctx, e.request(day, hour))
	require.NoError(t, err)
	r, err = e.reservations.Confirm(ctx, r.ID, e.manager.ID)
	require.NoError(t, err)
	return r
}

func (e *testEnv) countReservations(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.Get(&n, "SELECT COUNT(*) FROM reservations"))
	return n
}
