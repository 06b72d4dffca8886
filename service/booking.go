package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotel_manager/constants"
	"hotel_manager/metrics"
	"hotel_manager/model"
	"hotel_manager/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Options struct {
	// LockRoom serializes admissions per room with a row lock.
	LockRoom bool
	// StrictTransitions limits admin status updates to the lifecycle table.
	StrictTransitions bool
	// RecheckReactivation re-runs the date check when an admin moves a
	// cancelled or completed booking back to a blocking status.
	RecheckReactivation bool
	Location          *time.Location
	Now               func() time.Time
	Logger            *logrus.Logger
	Notifier          Notifier
}

type BookingService struct {
	store    Store
	lockRoom bool
	policy   TransitionPolicy
	recheck  bool
	loc      *time.Location
	now      func() time.Time
	log      *logrus.Logger
	notifier Notifier
}

func NewBookingService(store Store, opts Options) *BookingService {
	s := &BookingService{
		store:    store,
		lockRoom: opts.LockRoom,
		policy:   PermissivePolicy{},
		recheck:  opts.RecheckReactivation,
		loc:      opts.Location,
		now:      opts.Now,
		log:      opts.Logger,
		notifier: opts.Notifier,
	}
	if opts.StrictTransitions {
		s.policy = StrictPolicy{}
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.notifier == nil {
		s.notifier = noopNotifier{}
	}
	return s
}

type CreateBookingRequest struct {
	RoomID         uint
	CheckIn        utils.CustomDate
	CheckOut       utils.CustomDate
	NumberOfGuests int
	// TotalPrice defaults to nightly price times nights when nil.
	TotalPrice *float64
}

// Today is the current calendar date at the hotel.
func (s *BookingService) Today() utils.CustomDate {
	return utils.Today(s.now(), s.loc)
}

// CreateBooking admits a new pending booking. Checks run in a fixed order and
// stop at the first failure: past check-in, check-out not after check-in,
// missing room, room switched off, date conflict, capacity.
func (s *BookingService) CreateBooking(ctx context.Context, id Identity, req CreateBookingRequest) (*model.Booking, error) {
	started := time.Now()
	booking, err := s.admit(ctx, id, req)

	outcome := "admitted"
	if err != nil {
		outcome = string(KindOf(err))
	}
	metrics.ObserveAdmission(outcome, started)

	fields := logrus.Fields{
		"userId":   id.UserID,
		"roomId":   req.RoomID,
		"checkIn":  req.CheckIn.String(),
		"checkOut": req.CheckOut.String(),
		"guests":   req.NumberOfGuests,
	}
	if err != nil {
		entry := s.log.WithFields(fields).WithField("kind", KindOf(err))
		if KindOf(err) == KindStorageFailure {
			entry.WithError(err).Error("booking admission failed")
		} else {
			entry.Info("booking rejected")
		}
		return nil, err
	}

	s.log.WithFields(fields).WithField("bookingId", booking.ID).WithField("code", booking.Code).Info("booking admitted")
	s.notifier.BookingCreated(booking)
	return booking, nil
}

func (s *BookingService) admit(ctx context.Context, id Identity, req CreateBookingRequest) (*model.Booking, error) {
	if req.CheckIn.Before(s.Today()) {
		return nil, newError(KindInvalidDateRange, constants.CHECKIN_IN_PAST)
	}
	if !req.CheckOut.After(req.CheckIn) {
		return nil, newError(KindInvalidDateRange, constants.CHECKOUT_BEFORE_CHECKIN)
	}

	var created *model.Booking
	admit := func(st Store) error {
		room, err := st.FindRoom(ctx, req.RoomID)
		if err != nil {
			return storageErr("room lookup failed", err)
		}
		if room == nil {
			return newError(KindRoomNotFound, constants.ROOM_NOT_FOUND)
		}
		if !room.IsAvailable {
			return newError(KindRoomUnavailable, constants.ROOM_NOT_AVAILABLE)
		}

		free, err := isAvailable(ctx, st, room.ID, req.CheckIn, req.CheckOut, nil)
		if err != nil {
			return err
		}
		if !free {
			return newError(KindDateConflict, constants.ROOM_NOT_AVAILABLE_DATES)
		}

		if req.NumberOfGuests > room.Capacity {
			return newError(KindCapacityExceeded, fmt.Sprintf(constants.ROOM_CAPACITY_FORMAT, room.Capacity))
		}

		total := room.Price * float64(req.CheckIn.Nights(req.CheckOut))
		if req.TotalPrice != nil {
			total = *req.TotalPrice
		}

		booking := &model.Booking{
			Code:           NewBookingCode(),
			UserId:         id.UserID,
			RoomId:         room.ID,
			CheckInDate:    req.CheckIn,
			CheckOutDate:   req.CheckOut,
			NumberOfGuests: req.NumberOfGuests,
			TotalPrice:     total,
			Status:         model.BookingPending,
		}
		if err := st.CreateBooking(ctx, booking); err != nil {
			return storageErr("booking insert failed", err)
		}
		created = booking
		return nil
	}

	if err := s.withRoom(ctx, req.RoomID, admit); err != nil {
		return nil, err
	}

	s.expand(ctx, created)
	return created, nil
}

// expand loads the room and guest onto a committed booking. A failed reload
// leaves the booking bare; the write already happened.
func (s *BookingService) expand(ctx context.Context, b *model.Booking) {
	if err := s.store.ExpandBooking(ctx, b); err != nil {
		s.log.WithError(err).WithField("bookingId", b.ID).Warn("booking reload failed")
	}
}

// withRoom runs fn under the room lock when admissions are guarded.
func (s *BookingService) withRoom(ctx context.Context, roomID uint, fn func(Store) error) error {
	if !s.lockRoom {
		return fn(s.store)
	}
	return storageErr("room lock failed", s.store.WithRoomLock(ctx, roomID, fn))
}

func (s *BookingService) ListForUser(ctx context.Context, id Identity, q model.BookingQuery) ([]model.Booking, int64, error) {
	q.UserId = &id.UserID
	rows, total, err := s.store.ListBookings(ctx, q)
	if err != nil {
		return nil, 0, storageErr("booking list failed", err)
	}
	return rows, total, nil
}

func (s *BookingService) ListAll(ctx context.Context, id Identity, q model.BookingQuery) ([]model.Booking, int64, error) {
	if !id.IsAdmin {
		return nil, 0, newError(KindNotAuthorized, constants.NOT_ADMIN)
	}
	q.UserId = nil
	rows, total, err := s.store.ListBookings(ctx, q)
	if err != nil {
		return nil, 0, storageErr("booking list failed", err)
	}
	return rows, total, nil
}

// GetBooking returns a booking visible to the caller.
func (s *BookingService) GetBooking(ctx context.Context, id Identity, bookingID uint) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, s.store, bookingID)
	if err != nil {
		return nil, err
	}
	if !id.IsAdmin && booking.UserId != id.UserID {
		return nil, newError(KindNotAuthorized, constants.NOT_AUTHORIZED_BOOKING)
	}
	if err := s.store.ExpandBooking(ctx, booking); err != nil {
		return nil, storageErr("booking reload failed", err)
	}
	return booking, nil
}

// NewBookingCode returns a short public reference such as BK-1A2B3C4D.
func NewBookingCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "BK-" + strings.ToUpper(raw[:8])
}
