package main

import (
	"net/http"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/AdamBeresnev/pitchbook/internal/httputil"
	"github.com/AdamBeresnev/pitchbook/internal/middleware"
	"github.com/AdamBeresnev/pitchbook/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type application struct {
	jwtSecret     string
	reservations  *service.ReservationService
	invitations   *service.InvitationService
	stats         *service.StatsService
	availability  *service.AvailabilityService
	notifications *service.NotificationService
}

func newRouter(app *application) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(app.jwtSecret))

		r.Route("/pitches/{id}", func(r chi.Router) {
			r.Get("/slots", app.availableSlots)
			r.Get("/reservations/pending", app.pendingForPitch)
			r.Get("/stats/today", app.todayMatchCount)
			r.Get("/stats/week", app.weeklyStats)
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Post("/", app.createReservation)
			r.Get("/", app.reservationsByStatus)
			r.Get("/{id}", app.getReservation)
			r.Post("/{id}/confirm", app.confirmReservation)
			r.Post("/{id}/reject", app.rejectReservation)
			r.Post("/{id}/cancel", app.cancelReservation)
			r.Put("/{id}/score", app.updateScore)
		})

		r.Route("/teams/{id}", func(r chi.Router) {
			r.Get("/reservations", app.teamReservations)
			r.Get("/stats", app.teamStats)
			r.Post("/invitations", app.invitePlayer)
			r.Post("/match-invitations", app.inviteTeam)
		})

		r.Route("/invitations", func(r chi.Router) {
			r.Get("/pending", app.pendingInvitations)
			r.Get("/matches", app.matchInvitations)
			r.Post("/{id}/accept", app.acceptInvitation)
			r.Post("/{id}/refuse", app.refuseInvitation)
			r.Post("/{id}/cancel", app.cancelInvitation)
		})

		r.Get("/notifications", app.listNotifications)
		r.Post("/notifications/{id}/read", app.markNotificationRead)
	})

	return r
}

// idParam parses the {id} URL parameter, writing a 400 when it is not a UUID.
func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.BadRequest(w, "Invalid id", err)
		return uuid.Nil, false
	}
	return id, true
}

func actor(r *http.Request) uuid.UUID {
	id, _ := middleware.GetUserIDFromContext(r.Context())
	return id
}

// Pitches

func (app *application) availableSlots(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	slots, err := app.availability.AvailableSlots(r.Context(), id, r.URL.Query().Get("day"))
	if err != nil {
		httputil.Error(w, "Failed to compute availability", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, slots)
}

func (app *application) pendingForPitch(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	list, err := app.reservations.ListPendingForPitch(r.Context(), id, actor(r))
	if err != nil {
		httputil.Error(w, "Failed to list pending requests", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (app *application) todayMatchCount(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	count, err := app.availability.TodayMatchCount(r.Context(), id, actor(r))
	if err != nil {
		httputil.Error(w, "Failed to count today's matches", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (app *application) weeklyStats(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	week, err := app.availability.WeeklyStats(r.Context(), id, actor(r))
	if err != nil {
		httputil.Error(w, "Failed to compute weekly stats", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, week)
}

// Reservations

func (app *application) createReservation(w http.ResponseWriter, r *http.Request) {
	var in service.CreateReservationInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.BadRequest(w, "Invalid reservation body", err)
		return
	}
	in.RequesterID = actor(r)

	res, err := app.reservations.Create(r.Context(), in)
	if err != nil {
		httputil.Error(w, "Failed to create reservation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

func (app *application) reservationsByStatus(w http.ResponseWriter, r *http.Request) {
	status := booking.ReservationStatus(r.URL.Query().Get("status"))
	list, err := app.reservations.ListByStatus(r.Context(), status, actor(r))
	if err != nil {
		httputil.Error(w, "Failed to list reservations", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (app *application) getReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := app.reservations.Get(r.Context(), id, actor(r))
	if err != nil {
		httputil.Error(w, "Failed to get reservation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (app *application) reservationTransition(action func(r *http.Request, id uuid.UUID) (*booking.Reservation, error), msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		res, err := action(r, id)
		if err != nil {
			httputil.Error(w, msg, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, res)
	}
}

func (app *application) confirmReservation(w http.ResponseWriter, r *http.Request) {
	app.reservationTransition(func(r *http.Request, id uuid.UUID) (*booking.Reservation, error) {
		return app.reservations.Confirm(r.Context(), id, actor(r))
	}, "Failed to confirm reservation")(w, r)
}

func (app *application) rejectReservation(w http.ResponseWriter, r *http.Request) {
	app.reservationTransition(func(r *http.Request, id uuid.UUID) (*booking.Reservation, error) {
		return app.reservations.Reject(r.Context(), id, actor(r))
	}, "Failed to reject reservation")(w, r)
}

func (app *application) cancelReservation(w http.ResponseWriter, r *http.Request) {
	app.reservationTransition(func(r *http.Request, id uuid.UUID) (*booking.Reservation, error) {
		return app.reservations.Cancel(r.Context(), id, actor(r))
	}, "Failed to cancel reservation")(w, r)
}

func (app *application) updateScore(w http.ResponseWriter, r *http.Request) {
	var score booking.Score
	if err := httputil.DecodeJSON(r, &score); err != nil {
		httputil.BadRequest(w, "Invalid score body", err)
		return
	}
	app.reservationTransition(func(r *http.Request, id uuid.UUID) (*booking.Reservation, error) {
		return app.reservations.UpdateScore(r.Context(), id, score.Home, score.Away, actor(r))
	}, "Failed to update score")(w, r)
}

// Teams

func (app *application) teamReservations(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	list, err := app.reservations.ListForTeam(r.Context(), id)
	if err != nil {
		httputil.Error(w, "Failed to list team reservations", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (app *application) teamStats(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	stats, err := app.stats.Get(r.Context(), id)
	if err != nil {
		httputil.Error(w, "Failed to get team stats", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (app *application) invitePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body struct {
		PlayerCode string `json:"playerCode"`
	}
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.BadRequest(w, "Invalid invitation body", err)
		return
	}
	inv, err := app.invitations.InvitePlayer(r.Context(), id, actor(r), body.PlayerCode)
	if err != nil {
		httputil.Error(w, "Failed to invite player", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, inv)
}

func (app *application) inviteTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body struct {
		TeamCode string `json:"teamCode"`
	}
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.BadRequest(w, "Invalid invitation body", err)
		return
	}
	inv, err := app.invitations.InviteTeam(r.Context(), id, body.TeamCode, actor(r))
	if err != nil {
		httputil.Error(w, "Failed to invite team", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, inv)
}

// Invitations

func (app *application) pendingInvitations(w http.ResponseWriter, r *http.Request) {
	list, err := app.invitations.ListPending(r.Context(), actor(r))
	if err != nil {
		httputil.Error(w, "Failed to list invitations", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (app *application) matchInvitations(w http.ResponseWriter, r *http.Request) {
	list, err := app.invitations.ListMatchInvitations(r.Context(), actor(r))
	if err != nil {
		httputil.Error(w, "Failed to list match invitations", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (app *application) answerInvitation(answer func(r *http.Request, id uuid.UUID) (*booking.Invitation, error), msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		inv, err := answer(r, id)
		if err != nil {
			httputil.Error(w, msg, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, inv)
	}
}

func (app *application) acceptInvitation(w http.ResponseWriter, r *http.Request) {
	app.answerInvitation(func(r *http.Request, id uuid.UUID) (*booking.Invitation, error) {
		return app.invitations.Accept(r.Context(), id, actor(r))
	}, "Failed to accept invitation")(w, r)
}

func (app *application) refuseInvitation(w http.ResponseWriter, r *http.Request) {
	app.answerInvitation(func(r *http.Request, id uuid.UUID) (*booking.Invitation, error) {
		return app.invitations.Refuse(r.Context(), id, actor(r))
	}, "Failed to refuse invitation")(w, r)
}

func (app *application) cancelInvitation(w http.ResponseWriter, r *http.Request) {
	app.answerInvitation(func(r *http.Request, id uuid.UUID) (*booking.Invitation, error) {
		return app.invitations.Cancel(r.Context(), id, actor(r))
	}, "Failed to cancel invitation")(w, r)
}

// Notifications

func (app *application) listNotifications(w http.ResponseWriter, r *http.Request) {
	list, err := app.notifications.List(r.Context(), actor(r))
	if err != nil {
		httputil.Error(w, "Failed to list notifications", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (app *application) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := app.notifications.MarkRead(r.Context(), id, actor(r)); err != nil {
		httputil.Error(w, "Failed to mark notification read", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
