package service

import (
	"context"
	"fmt"

	"hotel_manager/constants"
	"hotel_manager/metrics"
	"hotel_manager/model"

	"github.com/sirupsen/logrus"
)

// TransitionPolicy decides which admin status updates are allowed.
type TransitionPolicy interface {
	Allow(from, to model.BookingStatus) bool
}

// PermissivePolicy allows any status to move to any other status.
type PermissivePolicy struct{}

func (PermissivePolicy) Allow(from, to model.BookingStatus) bool {
	return to.IsValid()
}

var strictTransitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingPending:   {model.BookingConfirmed, model.BookingCancelled},
	model.BookingConfirmed: {model.BookingCompleted, model.BookingCancelled},
}

// StrictPolicy follows pending -> confirmed -> completed with cancellation
// from either live state. Cancelled and completed are final.
type StrictPolicy struct{}

func (StrictPolicy) Allow(from, to model.BookingStatus) bool {
	for _, next := range strictTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateStatus sets a booking's status on behalf of an administrator.
// With RecheckReactivation, moving a cancelled or completed booking back to a
// blocking status re-checks the room's dates, excluding the booking itself.
func (s *BookingService) UpdateStatus(ctx context.Context, id Identity, bookingID uint, status model.BookingStatus) (*model.Booking, error) {
	if !id.IsAdmin {
		return nil, newError(KindNotAuthorized, constants.NOT_ADMIN)
	}
	if !status.IsValid() {
		return nil, newError(KindInvalidStateTransition, constants.INVALID_STATUS)
	}

	booking, err := s.findBooking(ctx, s.store, bookingID)
	if err != nil {
		return nil, err
	}

	var updated *model.Booking
	err = s.withRoom(ctx, booking.RoomId, func(st Store) error {
		current, err := s.findBooking(ctx, st, bookingID)
		if err != nil {
			return err
		}
		if !s.policy.Allow(current.Status, status) {
			return newError(KindInvalidStateTransition, fmt.Sprintf(constants.INVALID_TRANSITION_FORMAT, current.Status, status))
		}

		if s.recheck && !current.Status.IsBlocking() && status.IsBlocking() {
			free, err := isAvailable(ctx, st, current.RoomId, current.CheckInDate, current.CheckOutDate, &current.ID)
			if err != nil {
				return err
			}
			if !free {
				return newError(KindDateConflict, constants.ROOM_NOT_AVAILABLE_DATES)
			}
		}

		current.Status = status
		if status == model.BookingCancelled {
			now := s.now()
			current.CancelledAt = &now
		} else {
			current.CancelledAt = nil
		}
		if err := st.SaveBookingStatus(ctx, current); err != nil {
			return storageErr("booking update failed", err)
		}
		updated = current
		return nil
	})
	if err != nil {
		s.logTransition("update", bookingID, status, err)
		return nil, err
	}

	s.expand(ctx, updated)
	metrics.ObserveTransition("update", string(status))
	s.logTransition("update", bookingID, status, nil)
	if status == model.BookingCancelled {
		s.notifier.BookingCancelled(updated)
	}
	return updated, nil
}

// Cancel cancels a booking for its owner or an administrator.
// Checks run in order: existence, ownership, completed, already cancelled.
func (s *BookingService) Cancel(ctx context.Context, id Identity, bookingID uint) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, s.store, bookingID)
	if err != nil {
		return nil, err
	}
	if !id.IsAdmin && booking.UserId != id.UserID {
		s.logTransition("cancel", bookingID, model.BookingCancelled, newError(KindNotAuthorized, ""))
		return nil, newError(KindNotAuthorized, constants.NOT_AUTHORIZED_CANCEL)
	}

	var cancelled *model.Booking
	err = s.withRoom(ctx, booking.RoomId, func(st Store) error {
		current, err := s.findBooking(ctx, st, bookingID)
		if err != nil {
			return err
		}
		switch current.Status {
		case model.BookingCompleted:
			return newError(KindInvalidStateTransition, constants.CANNOT_CANCEL_COMPLETED)
		case model.BookingCancelled:
			return newError(KindInvalidStateTransition, constants.BOOKING_ALREADY_CANCELLED)
		}

		now := s.now()
		current.Status = model.BookingCancelled
		current.CancelledAt = &now
		if err := st.SaveBookingStatus(ctx, current); err != nil {
			return storageErr("booking cancel failed", err)
		}
		cancelled = current
		return nil
	})
	if err != nil {
		s.logTransition("cancel", bookingID, model.BookingCancelled, err)
		return nil, err
	}

	s.expand(ctx, cancelled)
	metrics.ObserveTransition("cancel", string(model.BookingCancelled))
	s.logTransition("cancel", bookingID, model.BookingCancelled, nil)
	s.notifier.BookingCancelled(cancelled)
	return cancelled, nil
}

func (s *BookingService) findBooking(ctx context.Context, st Store, bookingID uint) (*model.Booking, error) {
	booking, err := st.FindBooking(ctx, bookingID)
	if err != nil {
		return nil, storageErr("booking lookup failed", err)
	}
	if booking == nil {
		return nil, newError(KindBookingNotFound, constants.BOOKING_NOT_FOUND)
	}
	return booking, nil
}

func (s *BookingService) logTransition(kind string, bookingID uint, status model.BookingStatus, err error) {
	entry := s.log.WithFields(logrus.Fields{
		"op":        kind,
		"bookingId": bookingID,
		"status":    status,
	})
	if err == nil {
		entry.Info("booking status changed")
		return
	}
	if KindOf(err) == KindStorageFailure {
		entry.WithError(err).Error("booking status change failed")
		return
	}
	entry.WithField("kind", KindOf(err)).Info("booking status change rejected")
}
