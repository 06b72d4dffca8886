package model

import "time"

type OccupancyRoomItem struct {
	RoomId      uint          `json:"roomId"`
	RoomNumber  string        `json:"roomNumber"`
	Type        RoomType      `json:"type"`
	BookingCode string        `json:"bookingCode"`
	Status      BookingStatus `json:"status"`
}

// OccupancySnapshot counts rooms held by a blocking booking on one date.
type OccupancySnapshot struct {
	Date          string              `json:"date"`
	TotalRooms    int64               `json:"totalRooms"`
	OccupiedRooms int64               `json:"occupiedRooms"`
	OccupancyRate float64             `json:"occupancyRate"` // percent
	ByType        map[RoomType]int64  `json:"byType"`
	Rooms         []OccupancyRoomItem `json:"rooms"`
	GeneratedAt   time.Time           `json:"generatedAt"`
	Source        string              `json:"source"` // snapshot | live
}
