package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/AdamBeresnev/pitchbook/internal/store"
	"github.com/google/uuid"
)

// Inbox stores intents as rows in the recipient's in-app notification list.
type Inbox struct {
	store *store.NotificationStore
	Now   func() time.Time
}

func NewInbox(s *store.NotificationStore) *Inbox {
	return &Inbox{store: s, Now: time.Now}
}

func (i *Inbox) Dispatch(ctx context.Context, intent Intent) error {
	n := &booking.Notification{
		ID:        uuid.New(),
		UserID:    intent.RecipientID,
		Title:     intent.Title,
		Message:   intent.Message,
		Type:      intent.Type,
		Payload:   intent.Payload,
		CreatedAt: i.Now(),
	}
	if intent.SenderID != uuid.Nil {
		sender := intent.SenderID
		n.SenderID = &sender
	}
	if intent.ReferenceID != uuid.Nil {
		ref := intent.ReferenceID
		n.ReferenceID = &ref
	}

	if err := i.store.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification for %s: %w", intent.RecipientID, err)
	}
	return nil
}
