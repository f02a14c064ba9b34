package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
)

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// DecodeJSON reads a JSON body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func statusFor(kind booking.Kind) int {
	switch kind {
	case booking.KindNotFound:
		return http.StatusNotFound
	case booking.KindNotAuthorized:
		return http.StatusForbidden
	case booking.KindInvalidArgument:
		return http.StatusBadRequest
	case booking.KindSlotTaken, booking.KindDuplicatePending, booking.KindInvalidState, booking.KindConcurrentModification:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Error writes err as a JSON error. Domain errors keep their message; anything
// else is logged and reported as a bare 500.
func Error(w http.ResponseWriter, msg string, err error) {
	var be *booking.Error
	if !errors.As(err, &be) || statusFor(be.Kind) == http.StatusInternalServerError {
		InternalServerError(w, msg, err)
		return
	}
	slog.Warn(msg, "kind", be.Kind, "error", err)
	WriteJSON(w, statusFor(be.Kind), errorBody{Error: be.Error(), Kind: string(be.Kind)})
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	WriteJSON(w, http.StatusBadRequest, errorBody{Error: msg, Kind: string(booking.KindInvalidArgument)})
}

func Unauthorized(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("unauthorized", "message", msg, "error", err)
	} else {
		slog.Warn("unauthorized", "message", msg)
	}
	WriteJSON(w, http.StatusUnauthorized, errorBody{Error: msg})
}
