package store

import (
	"context"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PitchStore struct {
	db *sqlx.DB
}

func NewPitchStore(db *sqlx.DB) *PitchStore {
	return &PitchStore{db: db}
}

func (s *PitchStore) CreatePitch(ctx context.Context, pitch *booking.Pitch) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO pitches (id, owner_id, name, address, city, price, image_url, is_active, created_at)
		VALUES (:id, :owner_id, :name, :address, :city, :price, :image_url, :is_active, :created_at)`, pitch)
	return err
}

func (s *PitchStore) GetPitch(ctx context.Context, id uuid.UUID) (*booking.Pitch, error) {
	var pitch booking.Pitch
	err := s.db.GetContext(ctx, &pitch, "SELECT * FROM pitches WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &pitch, nil
}

func (s *PitchStore) GetPitchTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*booking.Pitch, error) {
	var pitch booking.Pitch
	err := tx.GetContext(ctx, &pitch, "SELECT * FROM pitches WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &pitch, nil
}
