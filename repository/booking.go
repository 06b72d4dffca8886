package repository

import (
	"context"
	"errors"

	"hotel_manager/model"
	"hotel_manager/service"
	"hotel_manager/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingStore is the GORM implementation of service.Store.
type BookingStore struct {
	db *gorm.DB
}

func NewBookingStore(db *gorm.DB) *BookingStore {
	return &BookingStore{db: db}
}

func (r *BookingStore) FindRoom(ctx context.Context, id uint) (*model.Room, error) {
	var room model.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *BookingStore) FindBlockingBookings(ctx context.Context, roomID uint, checkIn, checkOut utils.CustomDate, excludeID *uint) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := blockingBookingsQuery(r.db.WithContext(ctx), roomID, checkIn, checkOut, excludeID).Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// blockingBookingsQuery selects bookings of a room whose inclusive date range
// touches [checkIn, checkOut] and that still hold the room.
func blockingBookingsQuery(db *gorm.DB, roomID uint, checkIn, checkOut utils.CustomDate, excludeID *uint) *gorm.DB {
	q := db.Model(&model.Booking{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", model.BlockingStatuses()).
		Where("check_in_date <= ? AND check_out_date >= ?", checkOut, checkIn)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	return q
}

func (r *BookingStore) CreateBooking(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(booking).Error
}

func (r *BookingStore) FindBooking(ctx context.Context, id uint) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingStore) SaveBookingStatus(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("id = ?", booking.ID).
		Updates(map[string]any{
			"status":       booking.Status,
			"cancelled_at": booking.CancelledAt,
		}).Error
}

func (r *BookingStore) ListBookings(ctx context.Context, q model.BookingQuery) ([]model.Booking, int64, error) {
	query := listBookingsQuery(r.db.WithContext(ctx), q)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []model.Booking
	err := utils.ApplyPagination(query, q.Limit, q.Page).
		Preload("User").
		Preload("Room").
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func listBookingsQuery(db *gorm.DB, q model.BookingQuery) *gorm.DB {
	query := db.Model(&model.Booking{})
	if q.UserId != nil {
		query = query.Where("user_id = ?", *q.UserId)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.RoomId != nil {
		query = query.Where("room_id = ?", *q.RoomId)
	}
	if q.From != nil {
		query = query.Where("check_out_date >= ?", *q.From)
	}
	if q.To != nil {
		query = query.Where("check_in_date <= ?", *q.To)
	}
	return query
}

func (r *BookingStore) ExpandBooking(ctx context.Context, booking *model.Booking) error {
	var expanded model.Booking
	if err := r.db.WithContext(ctx).Preload("User").Preload("Room").First(&expanded, booking.ID).Error; err != nil {
		return err
	}
	*booking = expanded
	return nil
}

// WithRoomLock takes SELECT ... FOR UPDATE on the room row, so admissions and
// status changes for one room run one at a time. A missing room is not an
// error here; fn finds out on its own lookup.
func (r *BookingStore) WithRoomLock(ctx context.Context, roomID uint, fn func(tx service.Store) error) error {
	return r.withRoomLock(ctx, roomID, func(tx *BookingStore) error {
		return fn(tx)
	})
}

func (r *BookingStore) withRoomLock(ctx context.Context, roomID uint, fn func(tx *BookingStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked []model.Room
		if err := lockRoomQuery(tx, roomID).Find(&locked).Error; err != nil {
			return err
		}
		return fn(&BookingStore{db: tx})
	})
}

func lockRoomQuery(tx *gorm.DB, roomID uint) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Model(&model.Room{}).
		Select("id").
		Where("id = ?", roomID)
}

// RoomHasBlockingBookings reports whether a room still holds live bookings
// ending today or later.
func (r *BookingStore) RoomHasBlockingBookings(ctx context.Context, roomID uint, today utils.CustomDate) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("room_id = ? AND status IN ? AND check_out_date >= ?", roomID, model.BlockingStatuses(), today).
		Count(&count).Error
	return count > 0, err
}

// BookingsInRange returns blocking bookings that touch [from, to], with rooms.
func (r *BookingStore) BookingsInRange(ctx context.Context, from, to utils.CustomDate, blockingOnly bool) ([]model.Booking, error) {
	query := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("check_in_date <= ? AND check_out_date >= ?", to, from)
	if blockingOnly {
		query = query.Where("status IN ?", model.BlockingStatuses())
	}
	var bookings []model.Booking
	err := query.Preload("Room").Preload("User").Order("check_in_date ASC").Find(&bookings).Error
	return bookings, err
}

// AllRooms lists every room ordered by room number.
func (r *BookingStore) AllRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).Order("room_number ASC").Find(&rooms).Error
	return rooms, err
}

var _ service.Store = (*BookingStore)(nil)
