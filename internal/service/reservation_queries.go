package service

import (
	"context"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/google/uuid"
)

// Get is open to both parties and to anyone playing for either team.
func (s *ReservationService) Get(ctx context.Context, id, actorID uuid.UUID) (*booking.Reservation, error) {
	r, err := s.stores.Reservations.Get(ctx, id)
	if err != nil {
		return nil, notFoundf(err, "reservation %s not found", id)
	}
	if r.IsSender(actorID) || r.IsReceiver(actorID) {
		return r, nil
	}

	for _, teamID := range []uuid.UUID{r.SenderTeamID, r.AdverseTeamID} {
		team, err := s.stores.Teams.GetTeam(ctx, teamID)
		if err != nil {
			return nil, notFoundf(err, "team %s not found", teamID)
		}
		if team.Involves(actorID) {
			return r, nil
		}
	}
	return nil, booking.Errorf(booking.KindNotAuthorized, "you are not part of this booking")
}

func (s *ReservationService) ListPendingForPitch(ctx context.Context, pitchID, actorID uuid.UUID) ([]booking.Reservation, error) {
	pitch, err := s.stores.Pitches.GetPitch(ctx, pitchID)
	if err != nil {
		return nil, notFoundf(err, "pitch %s not found", pitchID)
	}
	if pitch.OwnerID != actorID {
		return nil, booking.Errorf(booking.KindNotAuthorized, "only the pitch owner can see its booking requests")
	}
	return s.stores.Reservations.ListPendingByPitch(ctx, pitch.ID)
}

// ListForTeam leaves out bookings the team withdrew itself.
func (s *ReservationService) ListForTeam(ctx context.Context, teamID uuid.UUID) ([]booking.Reservation, error) {
	if _, err := s.stores.Teams.GetTeam(ctx, teamID); err != nil {
		return nil, notFoundf(err, "team %s not found", teamID)
	}
	return s.stores.Reservations.ListByTeam(ctx, teamID)
}

func (s *ReservationService) ListByStatus(ctx context.Context, status booking.ReservationStatus, actorID uuid.UUID) ([]booking.Reservation, error) {
	if !status.Valid() {
		return nil, booking.Errorf(booking.KindInvalidArgument, "unknown reservation status %q", status)
	}
	return s.stores.Reservations.ListByStatusForUser(ctx, status, actorID)
}
