package handler

import (
	"hotel_manager/constants"
	"hotel_manager/helper"
	"hotel_manager/model"
	"hotel_manager/service"
	"hotel_manager/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateBooking(c *fiber.Ctx) error {
	identity, ok := helper.GetIdentity(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, nil)
	}
	input, ok := c.Locals("inputCreateBooking").(model.CreateBookingInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	booking, err := bookings.CreateBooking(c.Context(), identity, service.CreateBookingRequest{
		RoomID:         input.RoomId,
		CheckIn:        *input.CheckInDate,
		CheckOut:       *input.CheckOutDate,
		NumberOfGuests: input.NumberOfGuests,
		TotalPrice:     input.TotalPrice,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, booking)
}

func GetMyBookings(c *fiber.Ctx) error {
	identity, ok := helper.GetIdentity(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, nil)
	}
	q, _ := c.Locals("filterBooking").(model.BookingQuery)

	rows, total, err := bookings.ListForUser(c.Context(), identity, q)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       nonNil(rows),
		Limit:      q.Limit,
		Page:       q.Page,
		TotalCount: total,
	})
}

func GetBookings(c *fiber.Ctx) error {
	identity, ok := helper.GetIdentity(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, nil)
	}
	q, _ := c.Locals("filterBooking").(model.BookingQuery)

	rows, total, err := bookings.ListAll(c.Context(), identity, q)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       nonNil(rows),
		Limit:      q.Limit,
		Page:       q.Page,
		TotalCount: total,
	})
}

func GetBookingById(c *fiber.Ctx) error {
	identity, ok := helper.GetIdentity(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, nil)
	}
	id := c.Locals("inputId").(int)

	booking, err := bookings.GetBooking(c.Context(), identity, uint(id))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

func UpdateBookingStatus(c *fiber.Ctx) error {
	identity, ok := helper.GetIdentity(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, nil)
	}
	id := c.Locals("inputId").(int)
	input, ok := c.Locals("inputUpdateBookingStatus").(model.UpdateBookingStatusInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	booking, err := bookings.UpdateStatus(c.Context(), identity, uint(id), input.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

func CancelBooking(c *fiber.Ctx) error {
	identity, ok := helper.GetIdentity(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, nil)
	}
	id := c.Locals("inputId").(int)

	booking, err := bookings.Cancel(c.Context(), identity, uint(id))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponseWithMessage(c, fiber.StatusOK, constants.BOOKING_CANCELLED, booking)
}

func nonNil(rows []model.Booking) []model.Booking {
	if rows == nil {
		return []model.Booking{}
	}
	return rows
}
