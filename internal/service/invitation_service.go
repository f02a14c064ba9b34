package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/AdamBeresnev/pitchbook/internal/notify"
	"github.com/AdamBeresnev/pitchbook/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type InvitationService struct {
	db       *sqlx.DB
	stores   *store.Stores
	notifier notify.Dispatcher
	Now      func() time.Time
}

func NewInvitationService(db *sqlx.DB, stores *store.Stores, notifier notify.Dispatcher) *InvitationService {
	return &InvitationService{db: db, stores: stores, notifier: notifier, Now: time.Now}
}

// InvitePlayer asks the user holding playerCode to join the team.
func (s *InvitationService) InvitePlayer(ctx context.Context, teamID, senderID uuid.UUID, playerCode string) (*booking.Invitation, error) {
	playerCode = strings.TrimSpace(playerCode)
	if playerCode == "" {
		return nil, booking.Errorf(booking.KindInvalidArgument, "player code is required")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	team, err := s.stores.Teams.GetTeamTx(ctx, tx, teamID)
	if err != nil {
		return nil, notFoundf(err, "team %s not found", teamID)
	}
	if !team.IsOwner(senderID) {
		return nil, booking.Errorf(booking.KindNotAuthorized, "only the owner of %s can invite players", team.Name)
	}

	sender, err := s.stores.Users.GetUserTx(ctx, tx, senderID)
	if err != nil {
		return nil, notFoundf(err, "user %s not found", senderID)
	}
	receiver, err := s.stores.Users.GetUserByPlayerCodeTx(ctx, tx, playerCode)
	if err != nil {
		return nil, notFoundf(err, "no player with code %s", playerCode)
	}
	if team.HasMember(receiver.ID) || team.OwnerID == receiver.ID {
		return nil, booking.Errorf(booking.KindInvalidState, "%s is already a member of %s", receiver.FullName(), team.Name)
	}

	pending, err := s.stores.Invitations.HasPendingPlayerTx(ctx, tx, team.ID, receiver.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending invitations: %w", err)
	}
	if pending {
		return nil, booking.Errorf(booking.KindDuplicatePending, "%s already has a pending invitation to %s", receiver.FullName(), team.Name)
	}

	now := s.Now()
	inv := &booking.Invitation{
		ID:         uuid.New(),
		SenderID:   sender.ID,
		SenderName: sender.FullName(),
		ReceiverID: receiver.ID,
		Status:     booking.InvitationPending,
		Player: &booking.PlayerInvite{
			TeamID:      team.ID,
			TeamName:    team.Name,
			TeamLogoURL: team.LogoURL,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.stores.Invitations.Create(ctx, tx, inv); err != nil {
		return nil, writeErr(err, booking.KindDuplicatePending,
			fmt.Sprintf("%s already has a pending invitation to %s", receiver.FullName(), team.Name))
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	notify.Send(ctx, s.notifier, []notify.Intent{
		invitationIntent(inv, inv.ReceiverID, inv.SenderID, booking.NotifyInvitationReceived,
			"Team invitation",
			fmt.Sprintf("%s invited you to join %s", inv.SenderName, team.Name)),
	})
	return inv, nil
}

// InviteTeam asks the team holding receiverTeamCode to play a match. The
// invitation is addressed to that team's owner.
func (s *InvitationService) InviteTeam(ctx context.Context, senderTeamID uuid.UUID, receiverTeamCode string, senderID uuid.UUID) (*booking.Invitation, error) {
	receiverTeamCode = strings.TrimSpace(receiverTeamCode)
	if receiverTeamCode == "" {
		return nil, booking.Errorf(booking.KindInvalidArgument, "team code is required")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	senderTeam, err := s.stores.Teams.GetTeamTx(ctx, tx, senderTeamID)
	if err != nil {
		return nil, notFoundf(err, "team %s not found", senderTeamID)
	}
	if !senderTeam.IsOwner(senderID) {
		return nil, booking.Errorf(booking.KindNotAuthorized, "only the owner of %s can invite teams", senderTeam.Name)
	}

	receiverTeam, err := s.stores.Teams.GetTeamByCodeTx(ctx, tx, receiverTeamCode)
	if err != nil {
		return nil, notFoundf(err, "no team with code %s", receiverTeamCode)
	}
	if receiverTeam.ID == senderTeam.ID {
		return nil, booking.Errorf(booking.KindInvalidArgument, "a team cannot invite itself to a match")
	}

	sender, err := s.stores.Users.GetUserTx(ctx, tx, senderID)
	if err != nil {
		return nil, notFoundf(err, "user %s not found", senderID)
	}

	pending, err := s.stores.Invitations.HasPendingMatchTx(ctx, tx, senderTeam.ID, receiverTeam.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending invitations: %w", err)
	}
	if pending {
		return nil, booking.Errorf(booking.KindDuplicatePending, "%s already has a pending match invitation from %s", receiverTeam.Name, senderTeam.Name)
	}

	now := s.Now()
	inv := &booking.Invitation{
		ID:         uuid.New(),
		SenderID:   sender.ID,
		SenderName: sender.FullName(),
		ReceiverID: receiverTeam.OwnerID,
		Status:     booking.InvitationPending,
		Match: &booking.MatchInvite{
			SenderTeamID:        senderTeam.ID,
			SenderTeamName:      senderTeam.Name,
			SenderTeamLogoURL:   senderTeam.LogoURL,
			ReceiverTeamID:      receiverTeam.ID,
			ReceiverTeamName:    receiverTeam.Name,
			ReceiverTeamLogoURL: receiverTeam.LogoURL,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.stores.Invitations.Create(ctx, tx, inv); err != nil {
		return nil, writeErr(err, booking.KindDuplicatePending,
			fmt.Sprintf("%s already has a pending match invitation from %s", receiverTeam.Name, senderTeam.Name))
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	notify.Send(ctx, s.notifier, []notify.Intent{
		invitationIntent(inv, inv.ReceiverID, inv.SenderID, booking.NotifyMatchInvitation,
			"Match invitation",
			fmt.Sprintf("%s invited %s to a match", senderTeam.Name, receiverTeam.Name)),
	})
	return inv, nil
}

// authorizeReply checks that userID may accept or refuse inv: the invited
// player, or the current owner of the invited team.
func (s *InvitationService) authorizeReply(ctx context.Context, tx *sqlx.Tx, inv *booking.Invitation, userID uuid.UUID) error {
	if inv.Player != nil {
		if inv.ReceiverID != userID {
			return booking.Errorf(booking.KindNotAuthorized, "this invitation is addressed to someone else")
		}
		return nil
	}

	team, err := s.stores.Teams.GetTeamTx(ctx, tx, inv.Match.ReceiverTeamID)
	if err != nil {
		return notFoundf(err, "team %s not found", inv.Match.ReceiverTeamID)
	}
	if !team.IsOwner(userID) {
		return booking.Errorf(booking.KindNotAuthorized, "only the owner of %s can answer this invitation", team.Name)
	}
	return nil
}

// Accept settles the invitation. A player invitation also adds the player to the team
// in the same transaction. Booking a match stays with the caller.
func (s *InvitationService) Accept(ctx context.Context, id, userID uuid.UUID) (*booking.Invitation, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	inv, err := s.stores.Invitations.GetTx(ctx, tx, id)
	if err != nil {
		return nil, notFoundf(err, "invitation %s not found", id)
	}
	if err := s.authorizeReply(ctx, tx, inv, userID); err != nil {
		return nil, err
	}

	now := s.Now()
	if err := inv.Accept(now); err != nil {
		return nil, err
	}
	if err := s.stores.Invitations.UpdateStatus(ctx, tx, inv); err != nil {
		return nil, writeErr(err, booking.KindInvalidState, "invitation could not be accepted")
	}

	if inv.Player != nil {
		if _, err := s.stores.Teams.AddMember(ctx, tx, inv.Player.TeamID, userID, booking.RoleMember, now); err != nil {
			return nil, fmt.Errorf("failed to add team member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	notify.Send(ctx, s.notifier, []notify.Intent{
		invitationIntent(inv, inv.SenderID, userID, booking.NotifyInvitationAccepted,
			"Invitation accepted",
			fmt.Sprintf("Your invitation %s was accepted", invitationSubject(inv))),
	})
	return inv, nil
}

func (s *InvitationService) Refuse(ctx context.Context, id, userID uuid.UUID) (*booking.Invitation, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	inv, err := s.stores.Invitations.GetTx(ctx, tx, id)
	if err != nil {
		return nil, notFoundf(err, "invitation %s not found", id)
	}
	if err := s.authorizeReply(ctx, tx, inv, userID); err != nil {
		return nil, err
	}
	if err := inv.Refuse(s.Now()); err != nil {
		return nil, err
	}
	if err := s.stores.Invitations.UpdateStatus(ctx, tx, inv); err != nil {
		return nil, writeErr(err, booking.KindInvalidState, "invitation could not be refused")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	notify.Send(ctx, s.notifier, []notify.Intent{
		invitationIntent(inv, inv.SenderID, userID, booking.NotifyInvitationRejected,
			"Invitation declined",
			fmt.Sprintf("Your invitation %s was declined", invitationSubject(inv))),
	})
	return inv, nil
}

// Cancel withdraws a pending invitation. Only its sender may do so.
func (s *InvitationService) Cancel(ctx context.Context, id, userID uuid.UUID) (*booking.Invitation, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	inv, err := s.stores.Invitations.GetTx(ctx, tx, id)
	if err != nil {
		return nil, notFoundf(err, "invitation %s not found", id)
	}
	if inv.SenderID != userID {
		return nil, booking.Errorf(booking.KindNotAuthorized, "only the sender can cancel an invitation")
	}
	if err := inv.Cancel(s.Now()); err != nil {
		return nil, err
	}
	if err := s.stores.Invitations.UpdateStatus(ctx, tx, inv); err != nil {
		return nil, writeErr(err, booking.KindInvalidState, "invitation could not be cancelled")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	notify.Send(ctx, s.notifier, []notify.Intent{
		invitationIntent(inv, inv.ReceiverID, userID, booking.NotifyInvitationCancelled,
			"Invitation withdrawn",
			fmt.Sprintf("The invitation %s was withdrawn", invitationSubject(inv))),
	})
	return inv, nil
}

// ListPending returns invitations waiting on the user, directly or through a team they own.
func (s *InvitationService) ListPending(ctx context.Context, userID uuid.UUID) ([]booking.Invitation, error) {
	return s.stores.Invitations.ListPendingForUser(ctx, userID)
}

// ListMatchInvitations returns match invitations the user sent, received, or
// that target a team they own. Each invitation appears once.
func (s *InvitationService) ListMatchInvitations(ctx context.Context, userID uuid.UUID) ([]booking.Invitation, error) {
	return s.stores.Invitations.ListMatchForUser(ctx, userID)
}

func invitationSubject(inv *booking.Invitation) string {
	if inv.Match != nil {
		return fmt.Sprintf("for %s to play %s", inv.Match.ReceiverTeamName, inv.Match.SenderTeamName)
	}
	return "to join " + inv.Player.TeamName
}

func invitationIntent(inv *booking.Invitation, recipient, sender uuid.UUID, kind booking.NotificationType, title, message string) notify.Intent {
	payload := booking.Payload{
		"invitationId": inv.ID.String(),
		"type":         string(inv.Type()),
		"status":       string(inv.Status),
		"senderName":   inv.SenderName,
	}
	if p := inv.Player; p != nil {
		payload["teamId"] = p.TeamID.String()
		payload["teamName"] = p.TeamName
	}
	if m := inv.Match; m != nil {
		payload["senderTeamId"] = m.SenderTeamID.String()
		payload["senderTeamName"] = m.SenderTeamName
		payload["receiverTeamId"] = m.ReceiverTeamID.String()
		payload["receiverTeamName"] = m.ReceiverTeamName
	}
	return notify.Intent{
		RecipientID: recipient,
		SenderID:    sender,
		Title:       title,
		Message:     message,
		Type:        kind,
		ReferenceID: inv.ID,
		Payload:     payload,
	}
}
