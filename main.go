package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"hotel_manager/config"
	"hotel_manager/database"
	"hotel_manager/handler"
	"hotel_manager/helper"
	"hotel_manager/logger"
	"hotel_manager/middleware"
	"hotel_manager/repository"
	"hotel_manager/router"
	"hotel_manager/service"
	"hotel_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := helper.SetJWTSecret(cfg.JWTSecret); err != nil {
		log.WithError(err).Fatal("refusing to start without a token signing key")
	}

	database.ConnectDB(cfg, log)
	rdb := repository.NewRedisClient(cfg, log)

	store := repository.NewBookingStore(database.DB)
	cache := repository.NewRoomCache(rdb, 5*time.Minute, log)
	defer cache.Stop()

	notifier := helper.NewMailNotifier(utils.SMTPConfigFromEnv(), config.Config("FRONT_DESK_EMAIL"), log)
	bookings := service.NewBookingService(store, service.Options{
		LockRoom:            cfg.AdmissionGuard == config.GuardLock,
		StrictTransitions:   cfg.StatusTransitions == config.TransitionsStrict,
		RecheckReactivation: cfg.ReactivationCheck,
		Location:            cfg.HotelTZ,
		Logger:              log,
		Notifier:            notifier,
	})

	occupancy := helper.NewOccupancy(store, rdb, cfg.HotelTZ, log)
	if err := helper.StartOccupancyScheduler(occupancy); err != nil {
		log.WithError(err).Error("occupancy scheduler not started")
	}
	defer helper.StopOccupancyScheduler()

	handler.Setup(handler.Deps{
		Bookings:   bookings,
		Rooms:      store,
		Reports:    store,
		Cache:      cache,
		Occupancy:  occupancy,
		Cloudinary: helper.InitCloudinary(log),
	})

	app := fiber.New(fiber.Config{
		AppName:   "hotel_manager",
		BodyLimit: 4 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.TrimSpace(cfg.CORSOrigins),
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		ExposeHeaders:    "Content-Disposition",
		MaxAge:           600,
	}))
	app.Use("/api", middleware.RateLimit(cfg.RateLimitMax, cfg.RateLimitWindow, rdb))

	router.SetupRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("shutdown")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":        cfg.Port,
		"guard":       cfg.AdmissionGuard,
		"transitions": cfg.StatusTransitions,
		"timezone":    cfg.HotelTZ.String(),
	}).Info("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}

	if rdb != nil {
		_ = rdb.Close()
	}
}
