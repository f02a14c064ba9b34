package booking

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotifyReservationRequest   NotificationType = "RESERVATION_REQUEST"
	NotifyReservationConfirmed NotificationType = "RESERVATION_CONFIRMED"
	NotifyReservationRejected  NotificationType = "RESERVATION_REJECTED"
	NotifyReservationCancelled NotificationType = "RESERVATION_CANCELLED"
	NotifyMatchCompleted       NotificationType = "MATCH_COMPLETED"
	NotifyInvitationReceived   NotificationType = "INVITATION_RECEIVED"
	NotifyMatchInvitation      NotificationType = "MATCH_INVITATION"
	NotifyInvitationAccepted   NotificationType = "INVITATION_ACCEPTED"
	NotifyInvitationRejected   NotificationType = "INVITATION_REJECTED"
	NotifyInvitationCancelled  NotificationType = "INVITATION_CANCELLED"
)

// Payload is free-form structured data attached to a notification, stored as JSON.
type Payload map[string]any

func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Payload) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into Payload", src)
	}
	return json.Unmarshal(raw, p)
}

// Notification is an entry in a user's in-app inbox.
type Notification struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	UserID      uuid.UUID        `db:"user_id" json:"userId"`
	SenderID    *uuid.UUID       `db:"sender_id" json:"senderId,omitempty"`
	Title       string           `db:"title" json:"title"`
	Message     string           `db:"message" json:"message"`
	Type        NotificationType `db:"type" json:"type"`
	ReferenceID *uuid.UUID       `db:"reference_id" json:"referenceId,omitempty"`
	Payload     Payload          `db:"payload" json:"payload"`
	IsRead      bool             `db:"is_read" json:"isRead"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
}
