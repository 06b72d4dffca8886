package handler

import (
	"fmt"

	"hotel_manager/constants"
	"hotel_manager/helper"
	"hotel_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportBookings streams an occupancy workbook for the from..to window.
func ExportBookings(c *fiber.Ctx) error {
	from := c.Locals("exportFrom").(utils.CustomDate)
	to := c.Locals("exportTo").(utils.CustomDate)

	rooms, err := reports.AllRooms(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	rows, err := reports.BookingsInRange(c.Context(), from, to, false)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	f, err := helper.BuildOccupancyWorkbook(rooms, rows, from, to)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.WithError(err).Warn("close export workbook")
		}
	}()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="bookings_%s_to_%s.xlsx"`, from.String(), to.String()))
	return c.Send(buf.Bytes())
}

// GetOccupancy returns the stored daily snapshot, or a live count when none
// was taken for that date.
func GetOccupancy(c *fiber.Ctx) error {
	date, ok := c.Locals("statsDate").(utils.CustomDate)
	if !ok {
		date = occupancy.Today()
	}

	snap, err := occupancy.Get(c.Context(), date)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, snap)
}
