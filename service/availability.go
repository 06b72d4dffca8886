package service

import (
	"context"

	"hotel_manager/constants"
	"hotel_manager/model"
	"hotel_manager/utils"
)

// Overlaps reports whether two stays share a date. Both ends are inclusive,
// so a stay ending on day X conflicts with one starting on day X.
func Overlaps(aIn, aOut, bIn, bOut utils.CustomDate) bool {
	return !aIn.After(bOut) && !aOut.Before(bIn)
}

// IsAvailable reports whether no blocking booking on the room overlaps
// [checkIn, checkOut]. excludeID drops one booking from consideration.
func (s *BookingService) IsAvailable(ctx context.Context, roomID uint, checkIn, checkOut utils.CustomDate, excludeID *uint) (bool, error) {
	return isAvailable(ctx, s.store, roomID, checkIn, checkOut, excludeID)
}

// CheckAvailability answers the public availability query for a room.
func (s *BookingService) CheckAvailability(ctx context.Context, roomID uint, checkIn, checkOut utils.CustomDate, excludeID *uint) (model.RoomAvailability, error) {
	if !checkOut.After(checkIn) {
		return model.RoomAvailability{}, newError(KindInvalidDateRange, constants.CHECKOUT_BEFORE_CHECKIN)
	}
	room, err := s.store.FindRoom(ctx, roomID)
	if err != nil {
		return model.RoomAvailability{}, storageErr("room lookup failed", err)
	}
	if room == nil {
		return model.RoomAvailability{}, newError(KindRoomNotFound, constants.ROOM_NOT_FOUND)
	}

	free, err := isAvailable(ctx, s.store, roomID, checkIn, checkOut, excludeID)
	if err != nil {
		return model.RoomAvailability{}, err
	}
	return model.RoomAvailability{
		RoomId:          roomID,
		CheckIn:         checkIn.String(),
		CheckOut:        checkOut.String(),
		IsAvailable:     free,
		RoomIsAvailable: room.IsAvailable,
	}, nil
}

func isAvailable(ctx context.Context, store Store, roomID uint, checkIn, checkOut utils.CustomDate, excludeID *uint) (bool, error) {
	conflicts, err := conflicting(ctx, store, roomID, checkIn, checkOut, excludeID)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

func conflicting(ctx context.Context, store Store, roomID uint, checkIn, checkOut utils.CustomDate, excludeID *uint) ([]model.Booking, error) {
	candidates, err := store.FindBlockingBookings(ctx, roomID, checkIn, checkOut, excludeID)
	if err != nil {
		return nil, storageErr("availability lookup failed", err)
	}

	var out []model.Booking
	for _, b := range candidates {
		if b.RoomId != roomID || !b.Status.IsBlocking() {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if Overlaps(b.CheckInDate, b.CheckOutDate, checkIn, checkOut) {
			out = append(out, b)
		}
	}
	return out, nil
}
