package service

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindInvalidDateRange       ErrorKind = "InvalidDateRange"
	KindRoomNotFound           ErrorKind = "RoomNotFound"
	KindRoomUnavailable        ErrorKind = "RoomUnavailable"
	KindDateConflict           ErrorKind = "DateConflict"
	KindCapacityExceeded       ErrorKind = "CapacityExceeded"
	KindBookingNotFound        ErrorKind = "BookingNotFound"
	KindNotAuthorized          ErrorKind = "NotAuthorized"
	KindInvalidStateTransition ErrorKind = "InvalidStateTransition"
	KindStorageFailure         ErrorKind = "StorageFailure"
)

// Error is the failure type returned by every booking operation.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrDateConflict) works
// regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidDateRange       = &Error{Kind: KindInvalidDateRange}
	ErrRoomNotFound           = &Error{Kind: KindRoomNotFound}
	ErrRoomUnavailable        = &Error{Kind: KindRoomUnavailable}
	ErrDateConflict           = &Error{Kind: KindDateConflict}
	ErrCapacityExceeded       = &Error{Kind: KindCapacityExceeded}
	ErrBookingNotFound        = &Error{Kind: KindBookingNotFound}
	ErrNotAuthorized          = &Error{Kind: KindNotAuthorized}
	ErrInvalidStateTransition = &Error{Kind: KindInvalidStateTransition}
	ErrStorageFailure         = &Error{Kind: KindStorageFailure}
)

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the kind of a service error, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// storageErr leaves service errors untouched and wraps everything else.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Kind: KindStorageFailure, Message: op, Err: err}
}
