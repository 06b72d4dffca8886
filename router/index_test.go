package router

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"hotel_manager/constants"
	"hotel_manager/handler"
	"hotel_manager/helper"
	"hotel_manager/model"
	"hotel_manager/repository"
	"hotel_manager/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	guestID uint = 1
	otherID uint = 2
	adminID uint = 3
)

func TestMain(m *testing.M) {
	if err := helper.SetJWTSecret("router-test-secret"); err != nil {
		panic(err)
	}
	logrus.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type testEnv struct {
	app   *fiber.App
	store *memStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	store.addRoom(1, "101", model.Single, 99, 1)
	store.addRoom(2, "201", model.Double, 149, 2)
	store.addUser(guestID, "Ana", "ana@example.com", constants.ROLE_USER)
	store.addUser(otherID, "Ben", "ben@example.com", constants.ROLE_USER)
	store.addUser(adminID, "Desk", "desk@example.com", constants.ROLE_ADMIN)

	log := logrus.New()
	log.SetOutput(io.Discard)
	bookings := service.NewBookingService(store, service.Options{
		LockRoom: true,
		Now:      func() time.Time { return time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC) },
		Logger:   log,
	})
	cache := repository.NewRoomCache(nil, time.Minute, log)
	t.Cleanup(cache.Stop)
	handler.Setup(handler.Deps{
		Bookings:  bookings,
		Rooms:     store,
		Reports:   store,
		Cache:     cache,
		Occupancy: helper.NewOccupancy(store, nil, time.UTC, log),
	})

	app := fiber.New()
	SetupRoutes(app)
	return &testEnv{app: app, store: store}
}

func token(t *testing.T, id uint) string {
	t.Helper()
	role := constants.ROLE_USER
	if id == adminID {
		role = constants.ROLE_ADMIN
	}
	tok, err := helper.GenerateAccessToken(model.TokenClaim{UserId: id, Email: fmt.Sprintf("u%d@example.com", id), Role: role})
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func (e *testEnv) do(t *testing.T, method, path string, as uint, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != 0 {
		req.Header.Set("Authorization", "Bearer "+token(t, as))
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
	}
	return resp, out
}

func data(body map[string]any) map[string]any {
	d, _ := body["data"].(map[string]any)
	return d
}

func bookingBody(room uint, in, out string, guests int) string {
	return fmt.Sprintf(`{"room":%d,"checkInDate":"%s","checkOutDate":"%s","numberOfGuests":%d}`, room, in, out, guests)
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, "GET", "/", 0, "")
	if resp.StatusCode != 200 {
		t.Errorf("health status = %d", resp.StatusCode)
	}
	resp, _ = env.do(t, "GET", "/metrics", 0, "")
	if resp.StatusCode != 200 {
		t.Errorf("metrics status = %d", resp.StatusCode)
	}
}

func TestCreateBookingRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, "POST", "/api/bookings", 0, bookingBody(2, "2025-03-10", "2025-03-12", 2))
	if resp.StatusCode != fiber.StatusUnauthorized || body["message"] != constants.MISSING_TOKEN {
		t.Errorf("status = %d body = %v", resp.StatusCode, body)
	}
}

func TestCreateBookingOutcomes(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "POST", "/api/bookings", guestID, bookingBody(2, "2025-03-10", "2025-03-12", 2))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d body = %v", resp.StatusCode, body)
	}
	created := data(body)
	if created["status"] != "pending" || created["totalPrice"] != float64(298) || created["checkInDate"] != "2025-03-10" {
		t.Errorf("created = %v", created)
	}
	if user, _ := created["user"].(map[string]any); user == nil || user["email"] != "ana@example.com" {
		t.Errorf("booking not expanded with user: %v", created["user"])
	}

	cases := []struct {
		name   string
		body   string
		status int
		kind   service.ErrorKind
	}{
		{"touching boundary", bookingBody(2, "2025-03-12", "2025-03-14", 1), fiber.StatusConflict, service.KindDateConflict},
		{"past check-in", bookingBody(2, "2024-12-31", "2025-01-02", 1), fiber.StatusBadRequest, service.KindInvalidDateRange},
		{"same-day stay", bookingBody(2, "2025-04-01", "2025-04-01", 1), fiber.StatusBadRequest, service.KindInvalidDateRange},
		{"unknown room", bookingBody(99, "2025-04-01", "2025-04-02", 1), fiber.StatusNotFound, service.KindRoomNotFound},
		{"over capacity", bookingBody(1, "2025-04-01", "2025-04-02", 2), fiber.StatusBadRequest, service.KindCapacityExceeded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := env.do(t, "POST", "/api/bookings", otherID, tc.body)
			if resp.StatusCode != tc.status || body["keyError"] != string(tc.kind) {
				t.Errorf("status = %d keyError = %v, want %d %s", resp.StatusCode, body["keyError"], tc.status, tc.kind)
			}
		})
	}

	resp, body = env.do(t, "POST", "/api/bookings", otherID, bookingBody(2, "2025-03-13", "2025-03-15", 1))
	if resp.StatusCode != fiber.StatusCreated {
		t.Errorf("next-day stay status = %d body = %v", resp.StatusCode, body)
	}
}

func TestBookingListsAndVisibility(t *testing.T) {
	env := newTestEnv(t)
	_, ana := env.do(t, "POST", "/api/bookings", guestID, bookingBody(2, "2025-03-10", "2025-03-12", 1))
	env.do(t, "POST", "/api/bookings", otherID, bookingBody(1, "2025-03-10", "2025-03-12", 1))
	anaID := uint(data(ana)["id"].(float64))

	_, body := env.do(t, "GET", "/api/bookings/user", guestID, "")
	rows, _ := data(body)["rows"].([]any)
	if len(rows) != 1 || data(body)["totalCount"] != float64(1) {
		t.Errorf("own list = %v", data(body))
	}

	resp, _ := env.do(t, "GET", "/api/bookings", guestID, "")
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("user listing all: status = %d", resp.StatusCode)
	}
	_, body = env.do(t, "GET", "/api/bookings?status=pending", adminID, "")
	if data(body)["totalCount"] != float64(2) {
		t.Errorf("admin list = %v", data(body))
	}

	path := fmt.Sprintf("/api/bookings/%d", anaID)
	if resp, _ := env.do(t, "GET", path, otherID, ""); resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("stranger read: status = %d", resp.StatusCode)
	}
	if resp, _ := env.do(t, "GET", path, adminID, ""); resp.StatusCode != fiber.StatusOK {
		t.Errorf("admin read: status = %d", resp.StatusCode)
	}
	if resp, _ := env.do(t, "GET", "/api/bookings/9999", adminID, ""); resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("missing booking: status = %d", resp.StatusCode)
	}
}

func TestUpdateStatusAndCancel(t *testing.T) {
	env := newTestEnv(t)
	_, created := env.do(t, "POST", "/api/bookings", guestID, bookingBody(2, "2025-03-10", "2025-03-12", 1))
	path := fmt.Sprintf("/api/bookings/%d", uint(data(created)["id"].(float64)))

	if resp, _ := env.do(t, "PUT", path, guestID, `{"status":"confirmed"}`); resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("user status update: status = %d", resp.StatusCode)
	}
	if resp, _ := env.do(t, "PUT", path, adminID, `{"status":"archived"}`); resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("unknown status: status = %d", resp.StatusCode)
	}
	resp, body := env.do(t, "PUT", path, adminID, `{"status":"confirmed"}`)
	if resp.StatusCode != fiber.StatusOK || data(body)["status"] != "confirmed" {
		t.Errorf("confirm: status = %d body = %v", resp.StatusCode, body)
	}

	resp, body = env.do(t, "DELETE", path, otherID, "")
	if resp.StatusCode != fiber.StatusForbidden || body["keyError"] != string(service.KindNotAuthorized) {
		t.Errorf("stranger cancel: status = %d body = %v", resp.StatusCode, body)
	}
	resp, body = env.do(t, "DELETE", path, guestID, "")
	if resp.StatusCode != fiber.StatusOK || body["message"] != constants.BOOKING_CANCELLED || body["status"] != "success" || data(body)["status"] != "cancelled" {
		t.Errorf("owner cancel: status = %d body = %v", resp.StatusCode, body)
	}
	resp, body = env.do(t, "DELETE", path, guestID, "")
	if resp.StatusCode != fiber.StatusBadRequest || body["message"] != constants.BOOKING_ALREADY_CANCELLED {
		t.Errorf("second cancel: status = %d body = %v", resp.StatusCode, body)
	}

	// dates are free again
	resp, _ = env.do(t, "POST", "/api/bookings", otherID, bookingBody(2, "2025-03-10", "2025-03-12", 1))
	if resp.StatusCode != fiber.StatusCreated {
		t.Errorf("rebook after cancel: status = %d", resp.StatusCode)
	}
}

func TestRoomAvailabilityEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "POST", "/api/bookings", guestID, bookingBody(2, "2025-03-10", "2025-03-12", 1))

	_, body := env.do(t, "GET", "/api/rooms/2/availability?checkIn=2025-03-12&checkOut=2025-03-13", 0, "")
	if data(body)["isAvailable"] != false {
		t.Errorf("boundary day reported free: %v", body)
	}
	_, body = env.do(t, "GET", "/api/rooms/2/availability?checkIn=2025-03-13&checkOut=2025-03-14", 0, "")
	if data(body)["isAvailable"] != true {
		t.Errorf("free range reported taken: %v", body)
	}
	resp, _ := env.do(t, "GET", "/api/rooms/77/availability?checkIn=2025-03-13&checkOut=2025-03-14", 0, "")
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("unknown room: status = %d", resp.StatusCode)
	}
}

func roomBody(number, roomType string, price float64, capacity int) string {
	return fmt.Sprintf(`{"roomNumber":"%s","type":"%s","price":%g,"capacity":%d,"description":"Quiet room","amenities":["wifi"]}`, number, roomType, price, capacity)
}

func TestCreateRoom(t *testing.T) {
	env := newTestEnv(t)

	if resp, _ := env.do(t, "POST", "/api/rooms", guestID, roomBody("301", "suite", 259, 4)); resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("non-admin create: status = %d", resp.StatusCode)
	}

	resp, body := env.do(t, "POST", "/api/rooms", adminID, roomBody("301", "suite", 259, 4))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create: status = %d body = %v", resp.StatusCode, body)
	}
	room := data(body)
	if room["slug"] != "suite-room-301" || room["isAvailable"] != true || room["capacity"] != float64(4) {
		t.Errorf("room = %v", room)
	}

	resp, body = env.do(t, "POST", "/api/rooms", adminID, roomBody(" 201 ", "double", 120, 2))
	if resp.StatusCode != fiber.StatusBadRequest || body["message"] != constants.ROOM_NUMBER_EXISTS || body["keyError"] != "roomNumber" {
		t.Errorf("duplicate number: status = %d body = %v", resp.StatusCode, body)
	}
}

func TestUpdateRoom(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "PUT", "/api/rooms/2", adminID, `{"roomNumber":"101"}`)
	if resp.StatusCode != fiber.StatusBadRequest || body["message"] != constants.ROOM_NUMBER_EXISTS {
		t.Errorf("duplicate number: status = %d body = %v", resp.StatusCode, body)
	}

	resp, body = env.do(t, "PUT", "/api/rooms/2", adminID, `{"price":175}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("partial update: status = %d body = %v", resp.StatusCode, body)
	}
	room := data(body)
	if room["price"] != float64(175) || room["roomNumber"] != "201" || room["type"] != "double" || room["capacity"] != float64(2) {
		t.Errorf("partial update touched other fields: %v", room)
	}

	_, body = env.do(t, "PUT", "/api/rooms/2", adminID, `{"roomNumber":"202","isAvailable":false}`)
	if room := data(body); room["slug"] != "double-room-202" || room["isAvailable"] != false {
		t.Errorf("renumbered room = %v", room)
	}

	if resp, _ := env.do(t, "PUT", "/api/rooms/404", adminID, `{"price":10}`); resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("missing room: status = %d", resp.StatusCode)
	}
}

func TestRoomListFilters(t *testing.T) {
	env := newTestEnv(t)
	env.store.addRoom(3, "301", model.Suite, 259, 4)

	cases := []struct {
		query string
		want  []string
	}{
		{"", []string{"101", "201", "301"}},
		{"?type=double", []string{"201"}},
		{"?minPrice=100&maxPrice=200", []string{"201"}},
		{"?maxPrice=150", []string{"101", "201"}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			resp, body := env.do(t, "GET", "/api/rooms"+tc.query, 0, "")
			if resp.StatusCode != fiber.StatusOK {
				t.Fatalf("status = %d body = %v", resp.StatusCode, body)
			}
			rows, _ := data(body)["rows"].([]any)
			var got []string
			for _, r := range rows {
				got = append(got, r.(map[string]any)["roomNumber"].(string))
			}
			if strings.Join(got, ",") != strings.Join(tc.want, ",") {
				t.Errorf("rooms = %v, want %v", got, tc.want)
			}
		})
	}

	if resp, _ := env.do(t, "GET", "/api/rooms?minPrice=200&maxPrice=100", 0, ""); resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("inverted price range: status = %d", resp.StatusCode)
	}
}

func TestRoomReadsCachedUntilChanged(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.do(t, "GET", "/api/rooms/2", 0, "")
	if data(body)["price"] != float64(149) {
		t.Fatalf("room = %v", data(body))
	}

	// a write behind the API is not seen while the entry is cached
	env.store.mu.Lock()
	stale := env.store.rooms[2]
	stale.Price = 1
	env.store.rooms[2] = stale
	env.store.mu.Unlock()
	if _, body := env.do(t, "GET", "/api/rooms/2", 0, ""); data(body)["price"] != float64(149) {
		t.Errorf("cache miss: %v", data(body))
	}

	env.do(t, "PUT", "/api/rooms/2", adminID, `{"price":180}`)
	if _, body := env.do(t, "GET", "/api/rooms/2", 0, ""); data(body)["price"] != float64(180) {
		t.Errorf("stale room after update: %v", data(body))
	}
	_, body = env.do(t, "GET", "/api/rooms?type=double", 0, "")
	rows, _ := data(body)["rows"].([]any)
	if len(rows) != 1 || rows[0].(map[string]any)["price"] != float64(180) {
		t.Errorf("stale list after update: %v", rows)
	}
}

func TestDeleteRoom(t *testing.T) {
	env := newTestEnv(t)
	if resp, _ := env.do(t, "DELETE", "/api/rooms/2", guestID, ""); resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("non-admin delete: status = %d", resp.StatusCode)
	}

	_, created := env.do(t, "POST", "/api/bookings", guestID, bookingBody(2, "2025-03-10", "2025-03-12", 1))
	resp, body := env.do(t, "DELETE", "/api/rooms/2", adminID, "")
	if resp.StatusCode != fiber.StatusConflict || body["message"] != constants.ROOM_HAS_ACTIVE_BOOKINGS {
		t.Errorf("delete with live booking: status = %d body = %v", resp.StatusCode, body)
	}

	env.do(t, "DELETE", fmt.Sprintf("/api/bookings/%d", uint(data(created)["id"].(float64))), guestID, "")
	resp, body = env.do(t, "DELETE", "/api/rooms/2", adminID, "")
	if resp.StatusCode != fiber.StatusOK || body["message"] != constants.ROOM_REMOVED {
		t.Errorf("delete after cancel: status = %d body = %v", resp.StatusCode, body)
	}
	if resp, _ := env.do(t, "GET", "/api/rooms/2", 0, ""); resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("deleted room still served: status = %d", resp.StatusCode)
	}
	if resp, _ := env.do(t, "DELETE", "/api/rooms/2", adminID, ""); resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("second delete: status = %d", resp.StatusCode)
	}
}

func TestExportWorkbook(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "POST", "/api/bookings", guestID, bookingBody(2, "2025-03-10", "2025-03-12", 1))

	if resp, _ := env.do(t, "GET", "/api/bookings/export?from=2025-03-01&to=2025-03-31", guestID, ""); resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("user export: status = %d", resp.StatusCode)
	}
	if resp, _ := env.do(t, "GET", "/api/bookings/export?from=2025-01-01&to=2025-12-31", adminID, ""); resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("long export: status = %d", resp.StatusCode)
	}

	req := httptest.NewRequest("GET", "/api/bookings/export?from=2025-03-09&to=2025-03-13", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, adminID))
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 || !strings.Contains(resp.Header.Get("Content-Disposition"), "bookings_2025-03-09_to_2025-03-13.xlsx") {
		t.Fatalf("status = %d headers = %v", resp.StatusCode, resp.Header)
	}
	f, err := excelize.OpenReader(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	// row 4 is room 201, column C is 2025-03-10
	if v, _ := f.GetCellValue(helper.GridSheet, "C4"); !strings.HasSuffix(v, " pending") {
		t.Errorf("C4 = %q", v)
	}
}

func TestOccupancyStats(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "POST", "/api/bookings", guestID, bookingBody(2, "2025-03-10", "2025-03-12", 1))

	resp, body := env.do(t, "GET", "/api/stats/occupancy?date=2025-03-11", adminID, "")
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	snap := data(body)
	if snap["occupiedRooms"] != float64(1) || snap["totalRooms"] != float64(2) || snap["occupancyRate"] != float64(50) || snap["source"] != "live" {
		t.Errorf("snapshot = %v", snap)
	}
	if resp, _ := env.do(t, "GET", "/api/stats/occupancy?date=soon", adminID, ""); resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("bad date: status = %d", resp.StatusCode)
	}
}

func TestMediaSignatureDisabledWithoutCloudinary(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, "POST", "/api/rooms/media-signature", adminID, `{}`)
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
