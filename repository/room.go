package repository

import (
	"context"
	"errors"

	"hotel_manager/model"
	"hotel_manager/utils"

	"gorm.io/gorm"
)

var (
	ErrRoomNumberTaken       = errors.New("roomNumber already exists")
	ErrRoomHasActiveBookings = errors.New("room has active bookings")
)

func (r *BookingStore) ListRooms(ctx context.Context, filter model.FilterRoom) ([]model.Room, int64, error) {
	query := roomFilterQuery(r.db.WithContext(ctx), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rooms := []model.Room{}
	err := utils.ApplyPagination(query, filter.Limit, filter.Page).
		Order("room_number ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

func roomFilterQuery(db *gorm.DB, filter model.FilterRoom) *gorm.DB {
	query := db.Model(&model.Room{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.IsAvailable != nil {
		query = query.Where("is_available = ?", *filter.IsAvailable)
	}
	return query
}

func (r *BookingStore) FindRoomBySlug(ctx context.Context, slug string) (*model.Room, error) {
	var room model.Room
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func roomNumberTaken(tx *gorm.DB, number string, excludeID uint) (bool, error) {
	var count int64
	q := tx.Model(&model.Room{}).Where("room_number = ?", number)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// CreateRoom inserts a room with a slug derived from its type and number.
func (r *BookingStore) CreateRoom(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := roomNumberTaken(tx, room.RoomNumber, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrRoomNumberTaken
		}
		room.Slug = utils.GenerateUniqueSlug(tx, "rooms", utils.RoomSlugName(string(room.Type), room.RoomNumber), 0)
		return tx.Create(room).Error
	})
}

// UpdateRoom applies edit to the locked room row and saves it. A missing room
// yields (nil, nil).
func (r *BookingStore) UpdateRoom(ctx context.Context, id uint, edit func(room *model.Room) error) (*model.Room, error) {
	var updated *model.Room
	err := r.withRoomLock(ctx, id, func(tx *BookingStore) error {
		var room model.Room
		if err := tx.db.First(&room, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		number := room.RoomNumber
		if err := edit(&room); err != nil {
			return err
		}
		if room.RoomNumber != number {
			taken, err := roomNumberTaken(tx.db, room.RoomNumber, room.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrRoomNumberTaken
			}
		}
		room.Slug = utils.GenerateUniqueSlug(tx.db, "rooms", utils.RoomSlugName(string(room.Type), room.RoomNumber), room.ID)

		if err := tx.db.Save(&room).Error; err != nil {
			return err
		}
		updated = &room
		return nil
	})
	return updated, err
}

// DeleteRoom removes a room unless pending or confirmed bookings ending today
// or later still hold it. The check and the delete share the room lock taken
// by admissions. A missing room yields (nil, nil).
func (r *BookingStore) DeleteRoom(ctx context.Context, id uint, today utils.CustomDate) (*model.Room, error) {
	var deleted *model.Room
	err := r.withRoomLock(ctx, id, func(tx *BookingStore) error {
		var room model.Room
		if err := tx.db.First(&room, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		busy, err := tx.RoomHasBlockingBookings(ctx, room.ID, today)
		if err != nil {
			return err
		}
		if busy {
			return ErrRoomHasActiveBookings
		}
		if err := tx.db.Delete(&room).Error; err != nil {
			return err
		}
		deleted = &room
		return nil
	})
	return deleted, err
}
