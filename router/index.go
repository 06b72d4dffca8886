package router

import (
	"hotel_manager/handler"
	"hotel_manager/middleware"
	"hotel_manager/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Hotel Booking API is running")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api", middleware.RequestLogger())

	auth := api.Group("/auth")
	auth.Post("/register", validate.Register(), handler.Register)
	auth.Post("/login", validate.Login(), handler.Login)
	auth.Post("/refresh-token", handler.RefreshToken)
	auth.Post("/logout", handler.Logout)
	auth.Get("/profile", middleware.Protected(), handler.Profile)

	rooms := api.Group("/rooms")
	rooms.Get("/", validate.FilterRoom(), handler.GetRooms)
	rooms.Get("/slug/:slug", handler.GetRoomBySlug)
	rooms.Post("/media-signature", middleware.Protected(), middleware.AdminOnly(), handler.GenerateSignature)
	rooms.Get("/:id/availability", validate.GetById("id"), validate.RoomAvailability(), handler.RoomAvailability)
	rooms.Get("/:id", validate.GetById("id"), handler.GetRoomById)
	rooms.Post("/", middleware.Protected(), middleware.AdminOnly(), validate.CreateRoom(), handler.CreateRoom)
	rooms.Put("/:id", middleware.Protected(), middleware.AdminOnly(), validate.GetById("id"), validate.EditRoom(), handler.UpdateRoom)
	rooms.Delete("/:id", middleware.Protected(), middleware.AdminOnly(), validate.GetById("id"), handler.DeleteRoom)

	bookings := api.Group("/bookings", middleware.Protected())
	bookings.Post("/", validate.CreateBooking(), handler.CreateBooking)
	bookings.Get("/user", validate.FilterBooking(), handler.GetMyBookings)
	bookings.Get("/export", middleware.AdminOnly(), validate.ExportRange(), handler.ExportBookings)
	bookings.Get("/", middleware.AdminOnly(), validate.FilterBooking(), handler.GetBookings)
	bookings.Get("/:id", validate.GetById("id"), handler.GetBookingById)
	bookings.Put("/:id", middleware.AdminOnly(), validate.GetById("id"), validate.UpdateBookingStatus(), handler.UpdateBookingStatus)
	bookings.Delete("/:id", validate.GetById("id"), handler.CancelBooking)

	stats := api.Group("/stats", middleware.Protected(), middleware.AdminOnly())
	stats.Get("/occupancy", validate.StatsDate(), handler.GetOccupancy)
}
