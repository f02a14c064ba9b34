package store

import (
	"context"
	"database/sql"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type NotificationStore struct {
	db *sqlx.DB
}

const (
	createNotificationQuery = `
		INSERT INTO notifications (id, user_id, sender_id, title, message, type, reference_id, payload, is_read, created_at)
		VALUES (:id, :user_id, :sender_id, :title, :message, :type, :reference_id, :payload, :is_read, :created_at)`
	listNotificationsQuery = `
		SELECT * FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC`
	markNotificationReadQuery = "UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?"
)

func NewNotificationStore(db *sqlx.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) Create(ctx context.Context, n *booking.Notification) error {
	_, err := s.db.NamedExecContext(ctx, createNotificationQuery, n)
	return mapWriteErr(err)
}

func (s *NotificationStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]booking.Notification, error) {
	var notifications []booking.Notification
	err := s.db.SelectContext(ctx, &notifications, listNotificationsQuery, userID)
	return notifications, err
}

// MarkRead returns sql.ErrNoRows when the notification does not belong to the user.
func (s *NotificationStore) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, markNotificationReadQuery, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
