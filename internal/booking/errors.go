package booking

import (
	"errors"
	"fmt"
)

// Kind classifies a business-rule failure.
type Kind string

const (
	KindNotFound               Kind = "NOT_FOUND"
	KindSlotTaken              Kind = "SLOT_TAKEN"
	KindDuplicatePending       Kind = "DUPLICATE_PENDING"
	KindNotAuthorized          Kind = "NOT_AUTHORIZED"
	KindInvalidState           Kind = "INVALID_STATE"
	KindInvalidArgument        Kind = "INVALID_ARGUMENT"
	KindConcurrentModification Kind = "CONCURRENT_MODIFICATION"
)

// Error is returned for every rule violation. Message is safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches by kind, so errors.Is(err, booking.ErrSlotTaken) works for any slot conflict.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

var (
	ErrNotFound               = &Error{Kind: KindNotFound}
	ErrSlotTaken              = &Error{Kind: KindSlotTaken}
	ErrDuplicatePending       = &Error{Kind: KindDuplicatePending}
	ErrNotAuthorized          = &Error{Kind: KindNotAuthorized}
	ErrInvalidState           = &Error{Kind: KindInvalidState}
	ErrInvalidArgument        = &Error{Kind: KindInvalidArgument}
	ErrConcurrentModification = &Error{Kind: KindConcurrentModification}
)

func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the kind of the first booking.Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
