package model

import (
	"hotel_manager/utils"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func BookingStatuses() []BookingStatus {
	return []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted}
}

// BlockingStatuses hold a room's dates.
func BlockingStatuses() []BookingStatus {
	return []BookingStatus{BookingPending, BookingConfirmed}
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

func (s BookingStatus) IsBlocking() bool {
	return s == BookingPending || s == BookingConfirmed
}

type Booking struct {
	DTO
	Code           string           `gorm:"uniqueIndex;not null;size:20" json:"code"`
	UserId         uint             `gorm:"not null;index" json:"userId"`
	User           *User            `gorm:"foreignKey:UserId" json:"user,omitempty"`
	RoomId         uint             `gorm:"not null;index:idx_booking_room_dates,priority:1" json:"roomId"`
	Room           *Room            `gorm:"foreignKey:RoomId" json:"room,omitempty"`
	CheckInDate    utils.CustomDate `gorm:"type:date;not null;index:idx_booking_room_dates,priority:2" json:"checkInDate"`
	CheckOutDate   utils.CustomDate `gorm:"type:date;not null;index:idx_booking_room_dates,priority:3" json:"checkOutDate"`
	NumberOfGuests int              `gorm:"not null;check:number_of_guests >= 1" json:"numberOfGuests"`
	TotalPrice     float64          `gorm:"not null;check:total_price >= 0" json:"totalPrice"`
	Status         BookingStatus    `gorm:"not null;default:pending;index" json:"status"`
	CancelledAt    *time.Time       `json:"cancelledAt,omitempty"`
}

type CreateBookingInput struct {
	RoomId         uint              `json:"room" validate:"required"`
	CheckInDate    *utils.CustomDate `json:"checkInDate" validate:"required"`
	CheckOutDate   *utils.CustomDate `json:"checkOutDate" validate:"required"`
	NumberOfGuests int               `json:"numberOfGuests" validate:"required,gte=1"`
	TotalPrice     *float64          `json:"totalPrice" validate:"omitempty,gte=0"`
}

type UpdateBookingStatusInput struct {
	Status BookingStatus `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

type FilterBooking struct {
	Pagination
	Status BookingStatus `query:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	RoomId *uint         `query:"roomId"`
	From   string        `query:"from"`
	To     string        `query:"to"`
}

// BookingQuery is the parsed form of FilterBooking handed to the store.
// From/To select bookings whose stay touches the window.
type BookingQuery struct {
	UserId *uint
	Status BookingStatus
	RoomId *uint
	From   *utils.CustomDate
	To     *utils.CustomDate
	Limit  *int
	Page   *int
}
