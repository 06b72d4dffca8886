package validate

import (
	"errors"
	"fmt"

	"hotel_manager/constants"
	"hotel_manager/model"
	"hotel_manager/utils"

	"github.com/gofiber/fiber/v2"
)

// MaxExportDays bounds the export window.
const MaxExportDays = 92

func CreateBooking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateBookingInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}

		if err := validate.Struct(input); err != nil {
			return validationError(c, err)
		}

		c.Locals("inputCreateBooking", input)
		return c.Next()
	}
}

func UpdateBookingStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.UpdateBookingStatusInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}

		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.INVALID_STATUS, err, "status")
		}

		c.Locals("inputUpdateBookingStatus", input)
		return c.Next()
	}
}

// FilterBooking parses list filters into a model.BookingQuery.
func FilterBooking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.FilterBooking
		if err := c.QueryParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}

		if err := validate.Struct(input); err != nil {
			return validationError(c, err)
		}

		query := model.BookingQuery{
			Status: input.Status,
			RoomId: input.RoomId,
			Limit:  input.Limit,
			Page:   input.Page,
		}
		if input.From != "" {
			from, err := utils.ParseDate(input.From)
			if err != nil {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.INVALID_DATE_QUERY, err, "from")
			}
			query.From = &from
		}
		if input.To != "" {
			to, err := utils.ParseDate(input.To)
			if err != nil {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.INVALID_DATE_QUERY, err, "to")
			}
			query.To = &to
		}

		c.Locals("filterBooking", query)
		return c.Next()
	}
}

// ExportRange reads the required from/to window of the booking export.
func ExportRange() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, err := utils.ParseDate(c.Query("from"))
		if err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.INVALID_DATE_QUERY, err, "from")
		}
		to, err := utils.ParseDate(c.Query("to"))
		if err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.INVALID_DATE_QUERY, err, "to")
		}
		if to.Before(from) {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.CHECKOUT_BEFORE_CHECKIN, errors.New("to is before from"), "to")
		}
		if from.Nights(to)+1 > MaxExportDays {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, fmt.Sprintf(constants.EXPORT_RANGE_TOO_LONG, MaxExportDays), errors.New("range too long"), "to")
		}

		c.Locals("exportFrom", from)
		c.Locals("exportTo", to)
		return c.Next()
	}
}

// StatsDate reads ?date=, leaving it unset when absent.
func StatsDate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if raw := c.Query("date"); raw != "" {
			date, err := utils.ParseDate(raw)
			if err != nil {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.INVALID_DATE_QUERY, err, "date")
			}
			c.Locals("statsDate", date)
		}
		return c.Next()
	}
}
