package validate

import (
	"errors"
	"strings"

	"hotel_manager/constants"
	"hotel_manager/model"
	"hotel_manager/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateRoom() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateRoomInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		input.RoomNumber = strings.TrimSpace(input.RoomNumber)

		if err := validate.Struct(input); err != nil {
			return validationError(c, err)
		}

		c.Locals("inputCreateRoom", input)
		return c.Next()
	}
}

func EditRoom() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.EditRoomInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		if input.RoomNumber != nil {
			trimmed := strings.TrimSpace(*input.RoomNumber)
			if trimmed == "" {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.INVALID_INPUT, errors.New("roomNumber is empty"), "roomNumber")
			}
			input.RoomNumber = &trimmed
		}

		if err := validate.Struct(input); err != nil {
			return validationError(c, err)
		}

		c.Locals("inputEditRoom", input)
		return c.Next()
	}
}

func FilterRoom() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.FilterRoom
		if err := c.QueryParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}

		if err := validate.Struct(input); err != nil {
			return validationError(c, err)
		}
		if input.MinPrice != nil && input.MaxPrice != nil && *input.MinPrice > *input.MaxPrice {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.INVALID_INPUT, errors.New("minPrice is greater than maxPrice"), "minPrice")
		}

		c.Locals("filterRoom", input)
		return c.Next()
	}
}

// RoomAvailability reads checkIn, checkOut and an optional exclude booking id.
func RoomAvailability() fiber.Handler {
	return func(c *fiber.Ctx) error {
		checkIn, err := utils.ParseDate(c.Query("checkIn"))
		if err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.INVALID_DATE_QUERY, err, "checkIn")
		}
		checkOut, err := utils.ParseDate(c.Query("checkOut"))
		if err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.INVALID_DATE_QUERY, err, "checkOut")
		}

		var exclude *uint
		if raw := c.Query("exclude"); raw != "" {
			id := c.QueryInt("exclude", 0)
			if id <= 0 {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("exclude invalid"), "exclude")
			}
			exclude = utils.Ptr(uint(id))
		}

		c.Locals("inputAvailability", AvailabilityQuery{CheckIn: checkIn, CheckOut: checkOut, ExcludeID: exclude})
		return c.Next()
	}
}

type AvailabilityQuery struct {
	CheckIn   utils.CustomDate
	CheckOut  utils.CustomDate
	ExcludeID *uint
}
