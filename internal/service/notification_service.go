package service

import (
	"context"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/AdamBeresnev/pitchbook/internal/store"
	"github.com/google/uuid"
)

type NotificationService struct {
	store *store.NotificationStore
}

func NewNotificationService(store *store.NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]booking.Notification, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.store.MarkRead(ctx, id, userID); err != nil {
		return notFoundf(err, "notification %s not found", id)
	}
	return nil
}
