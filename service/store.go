package service

import (
	"context"

	"hotel_manager/model"
	"hotel_manager/utils"
)

// Store is the persistence the booking core needs. Find* methods return
// (nil, nil) when the record does not exist.
type Store interface {
	FindRoom(ctx context.Context, id uint) (*model.Room, error)
	// FindBlockingBookings may over-approximate; callers re-filter.
	FindBlockingBookings(ctx context.Context, roomID uint, checkIn, checkOut utils.CustomDate, excludeID *uint) ([]model.Booking, error)
	CreateBooking(ctx context.Context, booking *model.Booking) error
	FindBooking(ctx context.Context, id uint) (*model.Booking, error)
	SaveBookingStatus(ctx context.Context, booking *model.Booking) error
	ListBookings(ctx context.Context, q model.BookingQuery) ([]model.Booking, int64, error)
	ExpandBooking(ctx context.Context, booking *model.Booking) error
	// WithRoomLock runs fn in a transaction holding an exclusive lock on the room row.
	WithRoomLock(ctx context.Context, roomID uint, fn func(tx Store) error) error
}

// Identity is the authenticated caller.
type Identity struct {
	UserID  uint
	IsAdmin bool
}

// Notifier receives booking events after they are committed.
type Notifier interface {
	BookingCreated(booking *model.Booking)
	BookingCancelled(booking *model.Booking)
}

type noopNotifier struct{}

func (noopNotifier) BookingCreated(*model.Booking)   {}
func (noopNotifier) BookingCancelled(*model.Booking) {}
