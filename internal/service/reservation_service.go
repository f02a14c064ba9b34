package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/AdamBeresnev/pitchbook/internal/lock"
	"github.com/AdamBeresnev/pitchbook/internal/notify"
	"github.com/AdamBeresnev/pitchbook/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ReservationService struct {
	db       *sqlx.DB
	stores   *store.Stores
	stats    *StatsService
	notifier notify.Dispatcher
	locker   lock.Locker
	window   booking.SlotWindow
	Now      func() time.Time
}

func NewReservationService(db *sqlx.DB, stores *store.Stores, stats *StatsService, notifier notify.Dispatcher, locker lock.Locker, window booking.SlotWindow) *ReservationService {
	if locker == nil {
		locker = lock.Nop{}
	}
	return &ReservationService{
		db:       db,
		stores:   stores,
		stats:    stats,
		notifier: notifier,
		locker:   locker,
		window:   window,
		Now:      time.Now,
	}
}

type CreateReservationInput struct {
	SenderTeamID    uuid.UUID `json:"senderTeamId"`
	AdverseTeamID   uuid.UUID `json:"adverseTeamId"`
	PitchID         uuid.UUID `json:"pitchId"`
	Day             string    `json:"day"`
	Hour            string    `json:"hour"`
	DurationMinutes int       `json:"durationMinutes"`
	RequesterID     uuid.UUID `json:"-"`
}

func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*booking.Reservation, error) {
	if in.SenderTeamID == in.AdverseTeamID {
		return nil, booking.Errorf(booking.KindInvalidArgument, "a team cannot book a match against itself")
	}
	if in.DurationMinutes <= 0 {
		return nil, booking.Errorf(booking.KindInvalidArgument, "duration must be a positive number of minutes")
	}

	now := s.Now()
	start, err := booking.ParseSlotStart(in.Day, in.Hour, now.Location())
	if err != nil {
		return nil, err
	}
	if start.Before(now) {
		return nil, booking.Errorf(booking.KindInvalidArgument, "cannot book a slot in the past")
	}
	day, hour := start.Format(booking.DayLayout), start.Format(booking.HourLayout)
	if !s.window.Contains(hour) {
		return nil, booking.Errorf(booking.KindInvalidArgument, "%s is not a bookable slot start", hour)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	senderTeam, err := s.stores.Teams.GetTeamTx(ctx, tx, in.SenderTeamID)
	if err != nil {
		return nil, notFoundf(err, "team %s not found", in.SenderTeamID)
	}
	if !senderTeam.IsOwner(in.RequesterID) {
		return nil, booking.Errorf(booking.KindNotAuthorized, "only the owner of %s can book for it", senderTeam.Name)
	}

	adverseTeam, err := s.stores.Teams.GetTeamTx(ctx, tx, in.AdverseTeamID)
	if err != nil {
		return nil, notFoundf(err, "team %s not found", in.AdverseTeamID)
	}

	pitch, err := s.stores.Pitches.GetPitchTx(ctx, tx, in.PitchID)
	if err != nil {
		return nil, notFoundf(err, "pitch %s not found", in.PitchID)
	}
	if !pitch.IsActive {
		return nil, booking.Errorf(booking.KindInvalidState, "pitch %s is not accepting bookings", pitch.Name)
	}

	taken, err := s.stores.Reservations.HasConfirmedAtSlotTx(ctx, tx, pitch.ID, day, hour, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot: %w", err)
	}
	if taken {
		return nil, booking.Errorf(booking.KindSlotTaken, "%s is already booked on %s at %s", pitch.Name, day, hour)
	}

	r := &booking.Reservation{
		ID:                 uuid.New(),
		PitchID:            pitch.ID,
		PitchName:          pitch.Name,
		PitchAddress:       pitch.Address,
		PitchPrice:         pitch.Price,
		Day:                day,
		Hour:               hour,
		DurationMinutes:    in.DurationMinutes,
		SenderTeamID:       senderTeam.ID,
		SenderTeamName:     senderTeam.Name,
		SenderTeamLogoURL:  senderTeam.LogoURL,
		AdverseTeamID:      adverseTeam.ID,
		AdverseTeamName:    adverseTeam.Name,
		AdverseTeamLogoURL: adverseTeam.LogoURL,
		SenderID:           in.RequesterID,
		ReceiverID:         pitch.OwnerID,
		Status:             booking.ReservationPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.stores.Reservations.Create(ctx, tx, r); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	notify.Send(ctx, s.notifier, []notify.Intent{
		reservationIntent(r, r.ReceiverID, r.SenderID, booking.NotifyReservationRequest,
			"New booking request",
			fmt.Sprintf("%s wants to play %s at %s on %s at %s", r.SenderTeamName, r.AdverseTeamName, r.PitchName, r.Day, r.Hour)),
	})
	return r, nil
}

// Confirm accepts a pending request. The slot is re-checked because another
// request for the same slot may have been confirmed since this one was made.
func (s *ReservationService) Confirm(ctx context.Context, id, actorID uuid.UUID) (*booking.Reservation, error) {
	current, err := s.stores.Reservations.Get(ctx, id)
	if err != nil {
		return nil, notFoundf(err, "reservation %s not found", id)
	}

	unlock, err := s.locker.Lock(ctx, lock.SlotKey(current.PitchID, current.Day, current.Hour))
	if errors.Is(err, lock.ErrTimeout) {
		return nil, booking.Wrap(booking.KindConcurrentModification, "the slot is being booked by another request, retry shortly", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock slot: %w", err)
	}
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	r, err := s.stores.Reservations.GetTx(ctx, tx, id)
	if err != nil {
		return nil, notFoundf(err, "reservation %s not found", id)
	}
	if !r.IsReceiver(actorID) {
		return nil, booking.Errorf(booking.KindNotAuthorized, "only the pitch owner can confirm a booking")
	}
	if r.Status != booking.ReservationPending {
		return nil, booking.Errorf(booking.KindInvalidState, "reservation is %s, only pending requests can be confirmed", r.Status)
	}

	taken, err := s.stores.Reservations.HasConfirmedAtSlotTx(ctx, tx, r.PitchID, r.Day, r.Hour, r.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot: %w", err)
	}
	if taken {
		return nil, booking.Errorf(booking.KindSlotTaken, "%s is already booked on %s at %s", r.PitchName, r.Day, r.Hour)
	}

	if err := r.Confirm(s.Now()); err != nil {
		return nil, err
	}
	if err := s.stores.Reservations.Update(ctx, tx, r); err != nil {
		return nil, writeErr(err, booking.KindSlotTaken, fmt.Sprintf("%s is already booked on %s at %s", r.PitchName, r.Day, r.Hour))
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	notify.Send(ctx, s.notifier, []notify.Intent{
		reservationIntent(r, r.SenderID, actorID, booking.NotifyReservationConfirmed,
			"Booking confirmed",
			fmt.Sprintf("Your booking at %s on %s at %s is confirmed", r.PitchName, r.Day, r.Hour)),
	})
	return r, nil
}

func (s *ReservationService) Reject(ctx context.Context, id, actorID uuid.UUID) (*booking.Reservation, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	r, err := s.stores.Reservations.GetTx(ctx, tx, id)
	if err != nil {
		return nil, notFoundf(err, "reservation %s not found", id)
	}
	if !r.IsReceiver(actorID) {
		return nil, booking.Errorf(booking.KindNotAuthorized, "only the pitch owner can reject a booking")
	}
	if err := r.Reject(s.Now()); err != nil {
		return nil, err
	}
	if err := s.stores.Reservations.Update(ctx, tx, r); err != nil {
		return nil, writeErr(err, booking.KindInvalidState, "reservation could not be rejected")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	notify.Send(ctx, s.notifier, []notify.Intent{
		reservationIntent(r, r.SenderID, actorID, booking.NotifyReservationRejected,
			"Booking rejected",
			fmt.Sprintf("Your booking at %s on %s at %s was rejected", r.PitchName, r.Day, r.Hour)),
	})
	return r, nil
}

func (s *ReservationService) Cancel(ctx context.Context, id, actorID uuid.UUID) (*booking.Reservation, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	r, err := s.stores.Reservations.GetTx(ctx, tx, id)
	if err != nil {
		return nil, notFoundf(err, "reservation %s not found", id)
	}
	if err := r.Cancel(actorID, s.Now()); err != nil {
		return nil, err
	}
	if err := s.stores.Reservations.Update(ctx, tx, r); err != nil {
		return nil, writeErr(err, booking.KindInvalidState, "reservation could not be cancelled")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	recipient := r.ReceiverID
	if r.CancelledByReceiver {
		recipient = r.SenderID
	}
	notify.Send(ctx, s.notifier, []notify.Intent{
		reservationIntent(r, recipient, actorID, booking.NotifyReservationCancelled,
			"Booking cancelled",
			fmt.Sprintf("The booking at %s on %s at %s was cancelled", r.PitchName, r.Day, r.Hour)),
	})
	return r, nil
}

// UpdateScore records the result. Once the match has ended the reservation is
// completed, both teams' stats are rebuilt and every player is told.
func (s *ReservationService) UpdateScore(ctx context.Context, id uuid.UUID, home, away int, actorID uuid.UUID) (*booking.Reservation, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	r, err := s.stores.Reservations.GetTx(ctx, tx, id)
	if err != nil {
		return nil, notFoundf(err, "reservation %s not found", id)
	}

	senderTeam, err := s.stores.Teams.GetTeamTx(ctx, tx, r.SenderTeamID)
	if err != nil {
		return nil, notFoundf(err, "team %s not found", r.SenderTeamID)
	}
	adverseTeam, err := s.stores.Teams.GetTeamTx(ctx, tx, r.AdverseTeamID)
	if err != nil {
		return nil, notFoundf(err, "team %s not found", r.AdverseTeamID)
	}
	if !r.IsSender(actorID) && !r.IsReceiver(actorID) && !senderTeam.Involves(actorID) && !adverseTeam.Involves(actorID) {
		return nil, booking.Errorf(booking.KindNotAuthorized, "only players of either team or the pitch owner can record the score")
	}

	wasCompleted := r.Status == booking.ReservationCompleted
	completed, err := r.RecordScore(home, away, s.Now())
	if err != nil {
		return nil, err
	}
	if err := s.stores.Reservations.Update(ctx, tx, r); err != nil {
		return nil, writeErr(err, booking.KindInvalidState, "score could not be recorded")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if !completed {
		return r, nil
	}

	if s.stats != nil {
		s.stats.refresh(ctx, r.SenderTeamID, r.AdverseTeamID)
	}
	if !wasCompleted {
		notify.Send(ctx, s.notifier, matchCompletedIntents(r, actorID, senderTeam, adverseTeam))
	}
	return r, nil
}

// matchCompletedIntents addresses every member of both teams once, except the actor.
func matchCompletedIntents(r *booking.Reservation, actorID uuid.UUID, teams ...*booking.Team) []notify.Intent {
	message := fmt.Sprintf("%s %d - %d %s", r.SenderTeamName, *r.HomeScore, *r.AwayScore, r.AdverseTeamName)

	seen := map[uuid.UUID]bool{actorID: true}
	var intents []notify.Intent
	add := func(userID uuid.UUID) {
		if seen[userID] {
			return
		}
		seen[userID] = true
		intents = append(intents, reservationIntent(r, userID, actorID, booking.NotifyMatchCompleted, "Match completed", message))
	}

	for _, team := range teams {
		add(team.OwnerID)
		for _, m := range team.Members {
			add(m.UserID)
		}
	}
	return intents
}

func reservationIntent(r *booking.Reservation, recipient, sender uuid.UUID, kind booking.NotificationType, title, message string) notify.Intent {
	payload := booking.Payload{
		"reservationId":   r.ID.String(),
		"pitchId":         r.PitchID.String(),
		"pitchName":       r.PitchName,
		"day":             r.Day,
		"hour":            r.Hour,
		"senderTeamName":  r.SenderTeamName,
		"adverseTeamName": r.AdverseTeamName,
		"status":          string(r.Status),
	}
	if score, ok := r.Score(); ok {
		payload["homeScore"] = score.Home
		payload["awayScore"] = score.Away
	}
	return notify.Intent{
		RecipientID: recipient,
		SenderID:    sender,
		Title:       title,
		Message:     message,
		Type:        kind,
		ReferenceID: r.ID,
		Payload:     payload,
	}
}
