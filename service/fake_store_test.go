package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"hotel_manager/model"
	"hotel_manager/utils"
)

// fakeStore is an in-memory Store. WithRoomLock holds a per-room mutex so
// concurrent admissions serialize the way a row lock would.
type fakeStore struct {
	mu       sync.Mutex
	rooms    map[uint]*model.Room
	users    map[uint]*model.User
	bookings map[uint]*model.Booking
	nextID   uint

	roomLocks sync.Map

	findRoomCalls int
	failWith      error
	expandErr     error
	// beforeCheck runs inside FindBlockingBookings, outside the store mutex.
	beforeCheck func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms:    map[uint]*model.Room{},
		users:    map[uint]*model.User{},
		bookings: map[uint]*model.Booking{},
		nextID:   100,
	}
}

func (f *fakeStore) addRoom(id uint, capacity int, available bool) *model.Room {
	f.mu.Lock()
	defer f.mu.Unlock()
	room := &model.Room{DTO: model.DTO{ID: id}, RoomNumber: fmt.Sprintf("%d", id), Type: model.Double, Price: 100, Capacity: capacity, IsAvailable: available}
	f.rooms[id] = room
	return room
}

func (f *fakeStore) addBooking(userID, roomID uint, in, out string, status model.BookingStatus) *model.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	b := &model.Booking{
		DTO:            model.DTO{ID: f.nextID, CreatedAt: time.Now()},
		Code:           NewBookingCode(),
		UserId:         userID,
		RoomId:         roomID,
		CheckInDate:    mustDate(in),
		CheckOutDate:   mustDate(out),
		NumberOfGuests: 1,
		Status:         status,
	}
	f.bookings[b.ID] = b
	return b
}

func (f *fakeStore) status(id uint) model.BookingStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookings[id].Status
}

func (f *fakeStore) FindRoom(ctx context.Context, id uint) (*model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findRoomCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	room, ok := f.rooms[id]
	if !ok {
		return nil, nil
	}
	cp := *room
	return &cp, nil
}

// FindBlockingBookings returns every booking of the room; the checker filters.
func (f *fakeStore) FindBlockingBookings(ctx context.Context, roomID uint, in, out utils.CustomDate, excludeID *uint) ([]model.Booking, error) {
	if f.beforeCheck != nil {
		f.beforeCheck()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	var rows []model.Booking
	for _, b := range f.bookings {
		if b.RoomId == roomID {
			rows = append(rows, *b)
		}
	}
	return rows, nil
}

func (f *fakeStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = time.Now()
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeStore) FindBooking(ctx context.Context, id uint) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) SaveBookingStatus(ctx context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.bookings[b.ID]
	if !ok {
		return errors.New("missing booking")
	}
	stored.Status = b.Status
	stored.CancelledAt = b.CancelledAt
	return nil
}

func (f *fakeStore) ListBookings(ctx context.Context, q model.BookingQuery) ([]model.Booking, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []model.Booking
	for _, b := range f.bookings {
		if q.UserId != nil && b.UserId != *q.UserId {
			continue
		}
		if q.Status != "" && b.Status != q.Status {
			continue
		}
		rows = append(rows, *b)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	return rows, int64(len(rows)), nil
}

func (f *fakeStore) ExpandBooking(ctx context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.expandErr != nil {
		return f.expandErr
	}
	if room, ok := f.rooms[b.RoomId]; ok {
		cp := *room
		b.Room = &cp
	}
	if user, ok := f.users[b.UserId]; ok {
		cp := *user
		b.User = &cp
	}
	return nil
}

func (f *fakeStore) WithRoomLock(ctx context.Context, roomID uint, fn func(tx Store) error) error {
	m, _ := f.roomLocks.LoadOrStore(roomID, &sync.Mutex{})
	lock := m.(*sync.Mutex)
	lock.Lock()
	defer lock.Unlock()
	return fn(f)
}

type recordingNotifier struct {
	mu        sync.Mutex
	created   []string
	cancelled []string
}

func (n *recordingNotifier) BookingCreated(b *model.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, b.Code)
}

func (n *recordingNotifier) BookingCancelled(b *model.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, b.Code)
}

func mustDate(s string) utils.CustomDate {
	d, err := utils.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
