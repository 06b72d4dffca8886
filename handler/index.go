package handler

import (
	"context"

	"hotel_manager/helper"
	"hotel_manager/model"
	"hotel_manager/repository"
	"hotel_manager/service"
	"hotel_manager/utils"

	"github.com/cloudinary/cloudinary-go/v2"
)

// RoomStore persists the room catalogue. Lookups of a missing room return
// (nil, nil); a duplicate number is repository.ErrRoomNumberTaken and a
// delete blocked by live bookings is repository.ErrRoomHasActiveBookings.
type RoomStore interface {
	ListRooms(ctx context.Context, filter model.FilterRoom) ([]model.Room, int64, error)
	FindRoom(ctx context.Context, id uint) (*model.Room, error)
	FindRoomBySlug(ctx context.Context, slug string) (*model.Room, error)
	CreateRoom(ctx context.Context, room *model.Room) error
	UpdateRoom(ctx context.Context, id uint, edit func(room *model.Room) error) (*model.Room, error)
	DeleteRoom(ctx context.Context, id uint, today utils.CustomDate) (*model.Room, error)
}

type Deps struct {
	Bookings   *service.BookingService
	Rooms      RoomStore
	Reports    helper.BookingSource
	Cache      *repository.RoomCache
	Occupancy  *helper.Occupancy
	Cloudinary *cloudinary.Cloudinary
}

var (
	bookings         *service.BookingService
	rooms            RoomStore
	reports          helper.BookingSource
	roomCache        *repository.RoomCache
	occupancy        *helper.Occupancy
	cloudinaryClient *cloudinary.Cloudinary
)

// Setup wires the handlers to their services. Called once from main.
func Setup(d Deps) {
	bookings = d.Bookings
	rooms = d.Rooms
	reports = d.Reports
	roomCache = d.Cache
	occupancy = d.Occupancy
	cloudinaryClient = d.Cloudinary
}
