package store

import (
	"context"
	"testing"
	"time"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvitationRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	player := &booking.Invitation{
		ID:         uuid.New(),
		SenderID:   f.owner.ID,
		SenderName: f.owner.FullName(),
		ReceiverID: f.manager.ID,
		Status:     booking.InvitationPending,
		Player:     &booking.PlayerInvite{TeamID: f.home.ID, TeamName: f.home.Name, TeamLogoURL: f.home.LogoURL},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	match := &booking.Invitation{
		ID:         uuid.New(),
		SenderID:   f.owner.ID,
		SenderName: f.owner.FullName(),
		ReceiverID: f.away.OwnerID,
		Status:     booking.InvitationPending,
		Match: &booking.MatchInvite{
			SenderTeamID:     f.home.ID,
			SenderTeamName:   f.home.Name,
			ReceiverTeamID:   f.away.ID,
			ReceiverTeamName: f.away.Name,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	f.inTx(t, func(tx *sqlx.Tx) error {
		if err := f.stores.Invitations.Create(ctx, tx, player); err != nil {
			return err
		}
		return f.stores.Invitations.Create(ctx, tx, match)
	})

	gotPlayer, err := f.stores.Invitations.Get(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.PlayerInvitation, gotPlayer.Type())
	assert.Nil(t, gotPlayer.Match)
	require.NotNil(t, gotPlayer.Player)
	assert.Equal(t, f.home.ID, gotPlayer.Player.TeamID)
	assert.Equal(t, "Home FC", gotPlayer.Player.TeamName)
	assert.Equal(t, f.home.LogoURL, gotPlayer.Player.TeamLogoURL)
	assert.Equal(t, "Home Player", gotPlayer.SenderName)

	gotMatch, err := f.stores.Invitations.Get(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.TeamMatchInvitation, gotMatch.Type())
	assert.Nil(t, gotMatch.Player)
	require.NotNil(t, gotMatch.Match)
	assert.Equal(t, f.away.ID, gotMatch.Match.ReceiverTeamID)
	assert.Nil(t, gotMatch.Match.SenderTeamLogoURL)
}

func TestPendingInvitationIsUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	newInvite := func() *booking.Invitation {
		return &booking.Invitation{
			ID:         uuid.New(),
			SenderID:   f.owner.ID,
			SenderName: f.owner.FullName(),
			ReceiverID: f.manager.ID,
			Status:     booking.InvitationPending,
			Player:     &booking.PlayerInvite{TeamID: f.home.ID, TeamName: f.home.Name},
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	first := newInvite()
	f.inTx(t, func(tx *sqlx.Tx) error {
		return f.stores.Invitations.Create(ctx, tx, first)
	})

	tx, err := f.db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	exists, err := f.stores.Invitations.HasPendingPlayerTx(ctx, tx, f.home.ID, f.manager.ID)
	require.NoError(t, err)
	assert.True(t, exists)
	err = f.stores.Invitations.Create(ctx, tx, newInvite())
	assert.ErrorIs(t, err, ErrConflict)
	require.NoError(t, tx.Rollback())

	// Once the first one is settled a new invitation may be sent.
	require.NoError(t, first.Refuse(now))
	f.inTx(t, func(tx *sqlx.Tx) error {
		if err := f.stores.Invitations.UpdateStatus(ctx, tx, first); err != nil {
			return err
		}
		return f.stores.Invitations.Create(ctx, tx, newInvite())
	})
	assert.Equal(t, 2, first.Version)
}

func TestListInvitationsForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Match invitation from the pitch manager's team to the home team owned by f.owner.
	managerTeam := f.createTeam(t, "Manager FC", "SPT-0003", f.manager.ID)
	incoming := &booking.Invitation{
		ID:         uuid.New(),
		SenderID:   f.manager.ID,
		SenderName: f.manager.FullName(),
		ReceiverID: f.owner.ID,
		Status:     booking.InvitationPending,
		Match: &booking.MatchInvite{
			SenderTeamID: managerTeam.ID, SenderTeamName: managerTeam.Name,
			ReceiverTeamID: f.home.ID, ReceiverTeamName: f.home.Name,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	outgoing := &booking.Invitation{
		ID:         uuid.New(),
		SenderID:   f.owner.ID,
		SenderName: f.owner.FullName(),
		ReceiverID: f.away.OwnerID,
		Status:     booking.InvitationPending,
		Match: &booking.MatchInvite{
			SenderTeamID: f.home.ID, SenderTeamName: f.home.Name,
			ReceiverTeamID: f.away.ID, ReceiverTeamName: f.away.Name,
		},
		CreatedAt: now.Add(time.Second),
		UpdatedAt: now.Add(time.Second),
	}
	playerInvite := &booking.Invitation{
		ID:         uuid.New(),
		SenderID:   f.manager.ID,
		SenderName: f.manager.FullName(),
		ReceiverID: f.owner.ID,
		Status:     booking.InvitationPending,
		Player:     &booking.PlayerInvite{TeamID: managerTeam.ID, TeamName: managerTeam.Name},
		CreatedAt:  now.Add(2 * time.Second),
		UpdatedAt:  now.Add(2 * time.Second),
	}

	f.inTx(t, func(tx *sqlx.Tx) error {
		for _, inv := range []*booking.Invitation{incoming, outgoing, playerInvite} {
			if err := f.stores.Invitations.Create(ctx, tx, inv); err != nil {
				return err
			}
		}
		return nil
	})

	pending, err := f.stores.Invitations.ListPendingForUser(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, playerInvite.ID, pending[0].ID)
	assert.Equal(t, incoming.ID, pending[1].ID)

	matches, err := f.stores.Invitations.ListMatchForUser(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, outgoing.ID, matches[0].ID)
	assert.Equal(t, incoming.ID, matches[1].ID)
}
