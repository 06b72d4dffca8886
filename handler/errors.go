package handler

import (
	"errors"

	"hotel_manager/constants"
	"hotel_manager/service"
	"hotel_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var kindStatus = map[service.ErrorKind]int{
	service.KindInvalidDateRange:       fiber.StatusBadRequest,
	service.KindRoomNotFound:           fiber.StatusNotFound,
	service.KindRoomUnavailable:        fiber.StatusBadRequest,
	service.KindDateConflict:           fiber.StatusConflict,
	service.KindCapacityExceeded:       fiber.StatusBadRequest,
	service.KindBookingNotFound:        fiber.StatusNotFound,
	service.KindNotAuthorized:          fiber.StatusForbidden,
	service.KindInvalidStateTransition: fiber.StatusBadRequest,
	service.KindStorageFailure:         fiber.StatusInternalServerError,
}

// serviceError writes a booking service failure. keyError carries the kind.
func serviceError(c *fiber.Ctx, err error) error {
	var se *service.Error
	if !errors.As(err, &se) {
		logrus.WithError(err).WithField("path", c.Path()).Error("unexpected handler error")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}

	status, ok := kindStatus[se.Kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	if se.Kind == service.KindStorageFailure {
		logrus.WithError(err).WithField("path", c.Path()).Error("storage failure")
		return utils.ErrorResponseHaveKey(c, status, constants.ERROR_INTERNAL_ERROR, nil, string(se.Kind))
	}
	return utils.ErrorResponseHaveKey(c, status, se.Message, errors.New(string(se.Kind)), string(se.Kind))
}
