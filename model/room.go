package model

import "gorm.io/datatypes"

type RoomType string

const (
	Single RoomType = "single"
	Double RoomType = "double"
	Suite  RoomType = "suite"
	Deluxe RoomType = "deluxe"
)

func RoomTypes() []RoomType {
	return []RoomType{Single, Double, Suite, Deluxe}
}

type Room struct {
	DTO
	RoomNumber  string                      `gorm:"uniqueIndex;not null" json:"roomNumber"`
	Slug        string                      `gorm:"uniqueIndex;not null" json:"slug"`
	Type        RoomType                    `gorm:"not null;index" json:"type"`
	Price       float64                     `gorm:"not null;check:price >= 0" json:"price"`
	Capacity    int                         `gorm:"not null;check:capacity >= 1" json:"capacity"`
	Amenities   datatypes.JSONSlice[string] `json:"amenities"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	Description string                      `gorm:"not null" json:"description"`
	IsAvailable bool                        `gorm:"not null" json:"isAvailable"`
}

type CreateRoomInput struct {
	RoomNumber  string   `json:"roomNumber" validate:"required,max=20"`
	Type        RoomType `json:"type" validate:"required,oneof=single double suite deluxe"`
	Price       float64  `json:"price" validate:"gte=0"`
	Capacity    int      `json:"capacity" validate:"required,gte=1"`
	Amenities   []string `json:"amenities" validate:"omitempty,dive,required"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
	Description string   `json:"description" validate:"required"`
	IsAvailable *bool    `json:"isAvailable"`
}

type EditRoomInput struct {
	RoomNumber  *string   `json:"roomNumber" validate:"omitempty,max=20"`
	Type        *RoomType `json:"type" validate:"omitempty,oneof=single double suite deluxe"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	Capacity    *int      `json:"capacity" validate:"omitempty,gte=1"`
	Amenities   *[]string `json:"amenities" validate:"omitempty,dive,required"`
	Images      *[]string `json:"images" validate:"omitempty,dive,url"`
	Description *string   `json:"description" validate:"omitempty,min=1"`
	IsAvailable *bool     `json:"isAvailable"`
}

type FilterRoom struct {
	Pagination
	Type        RoomType `query:"type" validate:"omitempty,oneof=single double suite deluxe"`
	MinPrice    *float64 `query:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice    *float64 `query:"maxPrice" validate:"omitempty,gte=0"`
	IsAvailable *bool    `query:"isAvailable"`
}

// RoomAvailability reports date availability. RoomIsAvailable is the room's
// own switch, which admission checks separately.
type RoomAvailability struct {
	RoomId          uint   `json:"roomId"`
	CheckIn         string `json:"checkIn"`
	CheckOut        string `json:"checkOut"`
	IsAvailable     bool   `json:"isAvailable"`
	RoomIsAvailable bool   `json:"roomIsAvailable"`
}
