package helper

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"hotel_manager/metrics"
	"hotel_manager/model"
	"hotel_manager/utils"

	"github.com/go-co-op/gocron/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const occupancySnapshotTTL = 48 * time.Hour

// BookingSource is the read side used by occupancy and export reports.
type BookingSource interface {
	AllRooms(ctx context.Context) ([]model.Room, error)
	BookingsInRange(ctx context.Context, from, to utils.CustomDate, blockingOnly bool) ([]model.Booking, error)
}

// ComputeOccupancy counts rooms held on date by a pending or confirmed
// booking. A stay covers its check-in and check-out days.
func ComputeOccupancy(date utils.CustomDate, rooms []model.Room, bookings []model.Booking) model.OccupancySnapshot {
	snap := model.OccupancySnapshot{
		Date:       date.String(),
		TotalRooms: int64(len(rooms)),
		ByType:     map[model.RoomType]int64{},
		Rooms:      []model.OccupancyRoomItem{},
	}

	byID := make(map[uint]model.Room, len(rooms))
	for _, r := range rooms {
		byID[r.ID] = r
	}

	held := map[uint]bool{}
	for _, b := range bookings {
		if !b.Status.IsBlocking() || b.CheckInDate.After(date) || b.CheckOutDate.Before(date) {
			continue
		}
		room, ok := byID[b.RoomId]
		if !ok || held[room.ID] {
			continue
		}
		held[room.ID] = true
		snap.ByType[room.Type]++
		snap.Rooms = append(snap.Rooms, model.OccupancyRoomItem{
			RoomId:      room.ID,
			RoomNumber:  room.RoomNumber,
			Type:        room.Type,
			BookingCode: b.Code,
			Status:      b.Status,
		})
	}

	snap.OccupiedRooms = int64(len(held))
	if snap.TotalRooms > 0 {
		snap.OccupancyRate = math.Round(float64(snap.OccupiedRooms)/float64(snap.TotalRooms)*10000) / 100
	}
	return snap
}

// Occupancy builds daily snapshots and keeps them in Redis when available.
type Occupancy struct {
	source BookingSource
	rdb    *redis.Client
	loc    *time.Location
	log    *logrus.Logger
	now    func() time.Time
}

func NewOccupancy(source BookingSource, rdb *redis.Client, loc *time.Location, log *logrus.Logger) *Occupancy {
	if loc == nil {
		loc = time.UTC
	}
	return &Occupancy{source: source, rdb: rdb, loc: loc, log: log, now: time.Now}
}

func (o *Occupancy) Today() utils.CustomDate {
	return utils.Today(o.now(), o.loc)
}

func occupancyKey(date utils.CustomDate) string {
	return "occupancy:" + date.String()
}

func (o *Occupancy) Compute(ctx context.Context, date utils.CustomDate) (model.OccupancySnapshot, error) {
	rooms, err := o.source.AllRooms(ctx)
	if err != nil {
		return model.OccupancySnapshot{}, err
	}
	bookings, err := o.source.BookingsInRange(ctx, date, date, true)
	if err != nil {
		return model.OccupancySnapshot{}, err
	}
	snap := ComputeOccupancy(date, rooms, bookings)
	snap.GeneratedAt = o.now()
	snap.Source = "live"
	return snap, nil
}

// Get returns the stored snapshot for date, or computes one.
func (o *Occupancy) Get(ctx context.Context, date utils.CustomDate) (model.OccupancySnapshot, error) {
	if o.rdb != nil {
		raw, err := o.rdb.Get(ctx, occupancyKey(date)).Bytes()
		if err == nil {
			var snap model.OccupancySnapshot
			if err := json.Unmarshal(raw, &snap); err == nil {
				snap.Source = "snapshot"
				return snap, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			o.log.WithError(err).Warn("occupancy snapshot read failed")
		}
	}
	return o.Compute(ctx, date)
}

// SnapshotToday is the daily job body.
func (o *Occupancy) SnapshotToday() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	date := o.Today()
	snap, err := o.Compute(ctx, date)
	if err != nil {
		o.log.WithError(err).WithField("date", date.String()).Error("occupancy snapshot failed")
		return
	}
	metrics.SetOccupancy(snap.OccupancyRate)
	o.log.WithFields(logrus.Fields{
		"date":     snap.Date,
		"occupied": snap.OccupiedRooms,
		"total":    snap.TotalRooms,
		"rate":     snap.OccupancyRate,
	}).Info("[CRON] occupancy snapshot")

	if o.rdb == nil {
		return
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := o.rdb.Set(ctx, occupancyKey(date), raw, occupancySnapshotTTL).Err(); err != nil {
		o.log.WithError(err).Warn("occupancy snapshot store failed")
	}
}

var occupancyScheduler gocron.Scheduler

// StartOccupancyScheduler runs SnapshotToday daily at 00:05 hotel time.
func StartOccupancyScheduler(o *Occupancy) error {
	s, err := gocron.NewScheduler(gocron.WithLocation(o.loc))
	if err != nil {
		return err
	}

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(0, 5, 0),
			),
		),
		gocron.NewTask(o.SnapshotToday),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return err
	}

	occupancyScheduler = s
	s.Start()
	o.log.WithField("timezone", o.loc.String()).Info("occupancy scheduler started (00:05)")
	return nil
}

func StopOccupancyScheduler() {
	if occupancyScheduler == nil {
		return
	}
	if err := occupancyScheduler.Shutdown(); err != nil {
		logrus.WithError(err).Warn("occupancy scheduler shutdown")
	}
}
