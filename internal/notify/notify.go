// Package notify delivers notification intents produced by booking operations.
// Delivery is best effort: a failed intent is logged and dropped.
package notify

import (
	"context"
	"log/slog"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/google/uuid"
)

type Intent struct {
	RecipientID uuid.UUID                `json:"recipientId"`
	SenderID    uuid.UUID                `json:"senderId"`
	Title       string                   `json:"title"`
	Message     string                   `json:"message"`
	Type        booking.NotificationType `json:"type"`
	ReferenceID uuid.UUID                `json:"referenceId"`
	Payload     booking.Payload          `json:"payload,omitempty"`
}

type Dispatcher interface {
	Dispatch(ctx context.Context, intent Intent) error
}

// Send hands every intent to d. Failures are logged, never returned.
func Send(ctx context.Context, d Dispatcher, intents []Intent) {
	if d == nil {
		return
	}
	for _, in := range intents {
		if err := d.Dispatch(ctx, in); err != nil {
			slog.Warn("notification dispatch failed",
				"type", in.Type,
				"recipient", in.RecipientID,
				"reference", in.ReferenceID,
				"error", err,
			)
		}
	}
}
