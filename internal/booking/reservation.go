package booking

import (
	"time"

	"github.com/google/uuid"
)

const (
	DayLayout  = "2006-01-02"
	HourLayout = "15:04"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationRejected  ReservationStatus = "REJECTED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationCompleted ReservationStatus = "COMPLETED"
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationRejected, ReservationCancelled},
	ReservationConfirmed: {ReservationCompleted, ReservationCancelled},
}

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationRejected, ReservationCancelled, ReservationCompleted:
		return true
	}
	return false
}

func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Reservation is one booking attempt for a pitch slot between two teams.
// Pitch and team display fields are snapshots taken at creation.
type Reservation struct {
	ID      uuid.UUID `db:"id" json:"id"`
	PitchID uuid.UUID `db:"pitch_id" json:"pitchId"`

	PitchName    string  `db:"pitch_name" json:"pitchName"`
	PitchAddress string  `db:"pitch_address" json:"pitchAddress"`
	PitchPrice   float64 `db:"pitch_price" json:"pitchPrice"`

	Day             string `db:"day" json:"day"`
	Hour            string `db:"hour" json:"hour"`
	DurationMinutes int    `db:"duration_minutes" json:"durationMinutes"`

	SenderTeamID       uuid.UUID `db:"sender_team_id" json:"senderTeamId"`
	SenderTeamName     string    `db:"sender_team_name" json:"senderTeamName"`
	SenderTeamLogoURL  *string   `db:"sender_team_logo_url" json:"senderTeamLogoUrl,omitempty"`
	AdverseTeamID      uuid.UUID `db:"adverse_team_id" json:"adverseTeamId"`
	AdverseTeamName    string    `db:"adverse_team_name" json:"adverseTeamName"`
	AdverseTeamLogoURL *string   `db:"adverse_team_logo_url" json:"adverseTeamLogoUrl,omitempty"`

	SenderID   uuid.UUID `db:"sender_id" json:"senderId"`
	ReceiverID uuid.UUID `db:"receiver_id" json:"receiverId"`

	Status              ReservationStatus `db:"status" json:"status"`
	CancelledBySender   bool              `db:"cancelled_by_sender" json:"cancelledBySender"`
	CancelledByReceiver bool              `db:"cancelled_by_receiver" json:"cancelledByReceiver"`

	HomeScore *int `db:"home_score" json:"homeScore,omitempty"`
	AwayScore *int `db:"away_score" json:"awayScore,omitempty"`

	Version   int       `db:"version" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ParseSlotStart combines a YYYY-MM-DD day and HH:MM hour in loc.
func ParseSlotStart(day, hour string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DayLayout, day, loc)
	if err != nil {
		return time.Time{}, Wrap(KindInvalidArgument, "day must be formatted as YYYY-MM-DD", err)
	}
	h, err := time.Parse(HourLayout, hour)
	if err != nil {
		return time.Time{}, Wrap(KindInvalidArgument, "hour must be formatted as HH:MM", err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), h.Hour(), h.Minute(), 0, 0, loc), nil
}

func (r *Reservation) StartsAt(loc *time.Location) (time.Time, error) {
	return ParseSlotStart(r.Day, r.Hour, loc)
}

func (r *Reservation) EndsAt(loc *time.Location) (time.Time, error) {
	start, err := r.StartsAt(loc)
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(time.Duration(r.DurationMinutes) * time.Minute), nil
}

func (r *Reservation) Score() (Score, bool) {
	if r.HomeScore == nil || r.AwayScore == nil {
		return Score{}, false
	}
	return Score{Home: *r.HomeScore, Away: *r.AwayScore}, true
}

func (r *Reservation) IsSender(userID uuid.UUID) bool   { return r.SenderID == userID }
func (r *Reservation) IsReceiver(userID uuid.UUID) bool { return r.ReceiverID == userID }

func (r *Reservation) transition(next ReservationStatus, now time.Time) error {
	if !r.Status.CanTransitionTo(next) {
		return Errorf(KindInvalidState, "reservation is %s and cannot become %s", r.Status, next)
	}
	r.Status = next
	r.UpdatedAt = now
	return nil
}

func (r *Reservation) Confirm(now time.Time) error {
	return r.transition(ReservationConfirmed, now)
}

func (r *Reservation) Reject(now time.Time) error {
	return r.transition(ReservationRejected, now)
}

// Cancel marks which side cancelled. The actor must be the sender or the receiver.
func (r *Reservation) Cancel(actorID uuid.UUID, now time.Time) error {
	isSender, isReceiver := r.IsSender(actorID), r.IsReceiver(actorID)
	if !isSender && !isReceiver {
		return Errorf(KindNotAuthorized, "only the requesting team owner or the pitch owner can cancel")
	}
	if err := r.transition(ReservationCancelled, now); err != nil {
		return err
	}
	r.CancelledBySender = isSender
	r.CancelledByReceiver = isReceiver
	return nil
}

// RecordScore stores the result and completes the reservation once the match
// has ended. It reports whether the reservation is now COMPLETED.
func (r *Reservation) RecordScore(home, away int, now time.Time) (bool, error) {
	if r.Status != ReservationConfirmed && r.Status != ReservationCompleted {
		return false, Errorf(KindInvalidState, "score can only be recorded on a confirmed match, reservation is %s", r.Status)
	}
	if home < 0 || away < 0 {
		return false, Errorf(KindInvalidArgument, "scores must be non-negative")
	}
	end, err := r.EndsAt(now.Location())
	if err != nil {
		return false, err
	}

	r.HomeScore = &home
	r.AwayScore = &away
	r.UpdatedAt = now
	if now.After(end) {
		r.Status = ReservationCompleted
	}
	return r.Status == ReservationCompleted, nil
}
