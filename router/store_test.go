package router

import (
	"context"
	"sort"
	"sync"
	"time"

	"hotel_manager/model"
	"hotel_manager/repository"
	"hotel_manager/service"
	"hotel_manager/utils"

	"github.com/gosimple/slug"
)

// memStore backs the HTTP tests. It serves the booking service, the room
// catalogue and the report source.
type memStore struct {
	mu       sync.Mutex
	rooms    map[uint]model.Room
	users    map[uint]model.User
	bookings map[uint]model.Booking
	nextID   uint
}

func newMemStore() *memStore {
	return &memStore{
		rooms:    map[uint]model.Room{},
		users:    map[uint]model.User{},
		bookings: map[uint]model.Booking{},
		nextID:   1000,
	}
}

func (m *memStore) addRoom(id uint, number string, t model.RoomType, price float64, capacity int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[id] = model.Room{DTO: model.DTO{ID: id}, RoomNumber: number, Slug: string(t) + "-room-" + number, Type: t, Price: price, Capacity: capacity, IsAvailable: true}
}

func (m *memStore) addUser(id uint, name, email, role string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id] = model.User{DTO: model.DTO{ID: id}, Name: name, Email: email, Role: role, Active: true}
}

func (m *memStore) FindRoom(ctx context.Context, id uint) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

func (m *memStore) FindBlockingBookings(ctx context.Context, roomID uint, in, out utils.CustomDate, excludeID *uint) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []model.Booking
	for _, b := range m.bookings {
		if b.RoomId != roomID || !b.Status.IsBlocking() {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if service.Overlaps(b.CheckInDate, b.CheckOutDate, in, out) {
			rows = append(rows, b)
		}
	}
	return rows, nil
}

func (m *memStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	b.ID = m.nextID
	b.CreatedAt = time.Now()
	m.bookings[b.ID] = *b
	return nil
}

func (m *memStore) FindBooking(ctx context.Context, id uint) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *memStore) SaveBookingStatus(ctx context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.bookings[b.ID]
	stored.Status = b.Status
	stored.CancelledAt = b.CancelledAt
	m.bookings[b.ID] = stored
	return nil
}

func (m *memStore) ListBookings(ctx context.Context, q model.BookingQuery) ([]model.Booking, int64, error) {
	m.mu.Lock()
	var rows []model.Booking
	for _, b := range m.bookings {
		if q.UserId != nil && b.UserId != *q.UserId {
			continue
		}
		if q.Status != "" && b.Status != q.Status {
			continue
		}
		rows = append(rows, b)
	}
	m.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	for i := range rows {
		_ = m.ExpandBooking(ctx, &rows[i])
	}
	return rows, int64(len(rows)), nil
}

func (m *memStore) ExpandBooking(ctx context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok := m.rooms[b.RoomId]; ok {
		b.Room = &room
	}
	if user, ok := m.users[b.UserId]; ok {
		b.User = &user
	}
	return nil
}

func (m *memStore) WithRoomLock(ctx context.Context, roomID uint, fn func(tx service.Store) error) error {
	return fn(m)
}

func (m *memStore) ListRooms(ctx context.Context, f model.FilterRoom) ([]model.Room, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []model.Room
	for _, r := range m.rooms {
		if f.Type != "" && r.Type != f.Type {
			continue
		}
		if f.MinPrice != nil && r.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && r.Price > *f.MaxPrice {
			continue
		}
		if f.IsAvailable != nil && r.IsAvailable != *f.IsAvailable {
			continue
		}
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].RoomNumber < rows[j].RoomNumber })
	return rows, int64(len(rows)), nil
}

func (m *memStore) FindRoomBySlug(ctx context.Context, s string) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rooms {
		if r.Slug == s {
			return &r, nil
		}
	}
	return nil, nil
}

// numberTakenLocked expects m.mu held.
func (m *memStore) numberTakenLocked(number string, excludeID uint) bool {
	for _, r := range m.rooms {
		if r.RoomNumber == number && r.ID != excludeID {
			return true
		}
	}
	return false
}

func (m *memStore) CreateRoom(ctx context.Context, room *model.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.numberTakenLocked(room.RoomNumber, 0) {
		return repository.ErrRoomNumberTaken
	}
	m.nextID++
	room.ID = m.nextID
	room.Slug = slug.Make(utils.RoomSlugName(string(room.Type), room.RoomNumber))
	m.rooms[room.ID] = *room
	return nil
}

func (m *memStore) UpdateRoom(ctx context.Context, id uint, edit func(room *model.Room) error) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok {
		return nil, nil
	}
	if err := edit(&room); err != nil {
		return nil, err
	}
	if m.numberTakenLocked(room.RoomNumber, id) {
		return nil, repository.ErrRoomNumberTaken
	}
	room.Slug = slug.Make(utils.RoomSlugName(string(room.Type), room.RoomNumber))
	m.rooms[id] = room
	return &room, nil
}

func (m *memStore) DeleteRoom(ctx context.Context, id uint, today utils.CustomDate) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok {
		return nil, nil
	}
	for _, b := range m.bookings {
		if b.RoomId == id && b.Status.IsBlocking() && !b.CheckOutDate.Before(today) {
			return nil, repository.ErrRoomHasActiveBookings
		}
	}
	delete(m.rooms, id)
	return &room, nil
}

func (m *memStore) AllRooms(ctx context.Context) ([]model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rooms := make([]model.Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].RoomNumber < rooms[j].RoomNumber })
	return rooms, nil
}

func (m *memStore) BookingsInRange(ctx context.Context, from, to utils.CustomDate, blockingOnly bool) ([]model.Booking, error) {
	m.mu.Lock()
	var rows []model.Booking
	for _, b := range m.bookings {
		if b.CheckInDate.After(to) || b.CheckOutDate.Before(from) {
			continue
		}
		if blockingOnly && !b.Status.IsBlocking() {
			continue
		}
		rows = append(rows, b)
	}
	m.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	for i := range rows {
		_ = m.ExpandBooking(ctx, &rows[i])
	}
	return rows, nil
}
