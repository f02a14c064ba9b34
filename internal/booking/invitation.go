package booking

import (
	"time"

	"github.com/google/uuid"
)

type InvitationType string

const (
	PlayerInvitation    InvitationType = "PLAYER_INVITATION"
	TeamMatchInvitation InvitationType = "TEAM_MATCH_INVITATION"
)

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "PENDING"
	InvitationAccepted  InvitationStatus = "ACCEPTED"
	InvitationRejected  InvitationStatus = "REJECTED"
	InvitationCancelled InvitationStatus = "CANCELLED"
)

func (s InvitationStatus) Terminal() bool {
	return s != InvitationPending
}

// PlayerInvite asks a user to join a team.
type PlayerInvite struct {
	TeamID      uuid.UUID `json:"teamId"`
	TeamName    string    `json:"teamName"`
	TeamLogoURL *string   `json:"teamLogoUrl,omitempty"`
}

// MatchInvite asks another team to play a match.
type MatchInvite struct {
	SenderTeamID        uuid.UUID `json:"senderTeamId"`
	SenderTeamName      string    `json:"senderTeamName"`
	SenderTeamLogoURL   *string   `json:"senderTeamLogoUrl,omitempty"`
	ReceiverTeamID      uuid.UUID `json:"receiverTeamId"`
	ReceiverTeamName    string    `json:"receiverTeamName"`
	ReceiverTeamLogoURL *string   `json:"receiverTeamLogoUrl,omitempty"`
}

// Invitation carries exactly one of Player or Match.
type Invitation struct {
	ID         uuid.UUID        `json:"id"`
	SenderID   uuid.UUID        `json:"senderId"`
	SenderName string           `json:"senderName"`
	ReceiverID uuid.UUID        `json:"receiverId"`
	Status     InvitationStatus `json:"status"`

	Player *PlayerInvite `json:"player,omitempty"`
	Match  *MatchInvite  `json:"match,omitempty"`

	Version   int       `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *Invitation) Type() InvitationType {
	if i.Match != nil {
		return TeamMatchInvitation
	}
	return PlayerInvitation
}

func (i *Invitation) transition(next InvitationStatus, now time.Time) error {
	if i.Status.Terminal() {
		return Errorf(KindInvalidState, "invitation is already %s", i.Status)
	}
	i.Status = next
	i.UpdatedAt = now
	return nil
}

func (i *Invitation) Accept(now time.Time) error {
	return i.transition(InvitationAccepted, now)
}

func (i *Invitation) Refuse(now time.Time) error {
	return i.transition(InvitationRejected, now)
}

func (i *Invitation) Cancel(now time.Time) error {
	return i.transition(InvitationCancelled, now)
}
