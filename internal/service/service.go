package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/AdamBeresnev/pitchbook/internal/booking"
	"github.com/AdamBeresnev/pitchbook/internal/store"
)

// notFoundf turns a missing row into a NotFound error and passes anything else through.
func notFoundf(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return booking.Wrap(booking.KindNotFound, fmt.Sprintf(format, args...), err)
	}
	return err
}

// writeErr maps store write failures onto the booking error kinds.
// conflict is the kind reported when a unique index rejects the write.
func writeErr(err error, conflict booking.Kind, message string) error {
	switch {
	case errors.Is(err, store.ErrConflict):
		return booking.Wrap(conflict, message, err)
	case errors.Is(err, store.ErrStaleVersion):
		return booking.Wrap(booking.KindConcurrentModification, "the record was changed by another request, reload and retry", err)
	default:
		return err
	}
}
