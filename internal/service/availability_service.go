package service

import (
	"context"
	"time"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/AdamBeresnev/pitchbook/internal/store"
	"github.com/google/uuid"
)

type AvailabilityService struct {
	stores *store.Stores
	window booking.SlotWindow
	Now    func() time.Time
}

func NewAvailabilityService(stores *store.Stores, window booking.SlotWindow) *AvailabilityService {
	return &AvailabilityService{stores: stores, window: window, Now: time.Now}
}

// AvailableSlots is recomputed on every call.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, pitchID uuid.UUID, day string) ([]booking.Slot, error) {
	d, err := time.Parse(booking.DayLayout, day)
	if err != nil {
		return nil, booking.Wrap(booking.KindInvalidArgument, "day must be formatted as YYYY-MM-DD", err)
	}

	pitch, err := s.stores.Pitches.GetPitch(ctx, pitchID)
	if err != nil {
		return nil, notFoundf(err, "pitch %s not found", pitchID)
	}

	confirmed, err := s.stores.Reservations.ListByPitchDay(ctx, pitch.ID, d.Format(booking.DayLayout), booking.ReservationConfirmed)
	if err != nil {
		return nil, err
	}
	return s.window.Availability(confirmed), nil
}

type DayCount struct {
	Weekday string `json:"weekday"`
	Day     string `json:"day"`
	Count   int    `json:"count"`
}

func (s *AvailabilityService) ownedPitch(ctx context.Context, pitchID, actorID uuid.UUID) (*booking.Pitch, error) {
	pitch, err := s.stores.Pitches.GetPitch(ctx, pitchID)
	if err != nil {
		return nil, notFoundf(err, "pitch %s not found", pitchID)
	}
	if pitch.OwnerID != actorID {
		return nil, booking.Errorf(booking.KindNotAuthorized, "only the pitch owner can see its dashboard")
	}
	return pitch, nil
}

// TodayMatchCount counts confirmed bookings on the pitch for the current day.
func (s *AvailabilityService) TodayMatchCount(ctx context.Context, pitchID, actorID uuid.UUID) (int, error) {
	pitch, err := s.ownedPitch(ctx, pitchID, actorID)
	if err != nil {
		return 0, err
	}
	today := s.Now().Format(booking.DayLayout)
	confirmed, err := s.stores.Reservations.ListByPitchDay(ctx, pitch.ID, today, booking.ReservationConfirmed)
	return len(confirmed), err
}

// WeeklyStats counts confirmed bookings per day of the current week, Monday first.
func (s *AvailabilityService) WeeklyStats(ctx context.Context, pitchID, actorID uuid.UUID) ([]DayCount, error) {
	pitch, err := s.ownedPitch(ctx, pitchID, actorID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	offset := (int(now.Weekday()) + 6) % 7
	monday := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, now.Location())
	sunday := monday.AddDate(0, 0, 6)

	confirmed, err := s.stores.Reservations.ListConfirmedByPitchBetween(ctx, pitch.ID,
		monday.Format(booking.DayLayout), sunday.Format(booking.DayLayout))
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(confirmed))
	for _, r := range confirmed {
		counts[r.Day]++
	}

	week := make([]DayCount, 0, 7)
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		key := d.Format(booking.DayLayout)
		week = append(week, DayCount{Weekday: d.Weekday().String(), Day: key, Count: counts[key]})
	}
	return week, nil
}
