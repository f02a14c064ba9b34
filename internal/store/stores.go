package store

import "github.com/jmoiron/sqlx"

type Stores struct {
	Users         *UserStore
	Pitches       *PitchStore
	Teams         *TeamStore
	Reservations  *ReservationStore
	Invitations   *InvitationStore
	Stats         *StatsStore
	Notifications *NotificationStore
}

func New(db *sqlx.DB) *Stores {
	return &Stores{
		Users:         NewUserStore(db),
		Pitches:       NewPitchStore(db),
		Teams:         NewTeamStore(db),
		Reservations:  NewReservationStore(db),
		Invitations:   NewInvitationStore(db),
		Stats:         NewStatsStore(db),
		Notifications: NewNotificationStore(db),
	}
}
