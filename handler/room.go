package handler

import (
	"errors"
	"fmt"

	"hotel_manager/constants"
	"hotel_manager/helper"
	"hotel_manager/model"
	"hotel_manager/repository"
	"hotel_manager/utils"
	"hotel_manager/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"github.com/sirupsen/logrus"
)

type roomListCache struct {
	Rows       []model.Room `json:"rows"`
	TotalCount int64        `json:"totalCount"`
}

func GetRooms(c *fiber.Ctx) error {
	filter, ok := c.Locals("filterRoom").(model.FilterRoom)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	cacheKey := "list:" + string(c.Request().URI().QueryString())
	var cached roomListCache
	if roomCache != nil && roomCache.Get(c.Context(), cacheKey, &cached) {
		return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
			Rows:       cached.Rows,
			Limit:      filter.Limit,
			Page:       filter.Page,
			TotalCount: cached.TotalCount,
		})
	}

	list, totalCount, err := rooms.ListRooms(c.Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if list == nil {
		list = []model.Room{}
	}

	if roomCache != nil {
		roomCache.Set(c.Context(), cacheKey, roomListCache{Rows: list, TotalCount: totalCount})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       list,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

func findRoom(c *fiber.Ctx, cacheKey string, lookup func() (*model.Room, error)) error {
	var cached model.Room
	if roomCache != nil && roomCache.Get(c.Context(), cacheKey, &cached) {
		return utils.SuccessResponse(c, fiber.StatusOK, cached)
	}

	room, err := lookup()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if room == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ROOM_NOT_FOUND, nil)
	}

	if roomCache != nil {
		roomCache.Set(c.Context(), cacheKey, room)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, room)
}

func GetRoomById(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)
	return findRoom(c, fmt.Sprintf("id:%d", id), func() (*model.Room, error) {
		return rooms.FindRoom(c.Context(), uint(id))
	})
}

func GetRoomBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	return findRoom(c, "slug:"+slug, func() (*model.Room, error) {
		return rooms.FindRoomBySlug(c.Context(), slug)
	})
}

func roomNumberExists(c *fiber.Ctx, err error) error {
	return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.ROOM_NUMBER_EXISTS, err, "roomNumber")
}

func CreateRoom(c *fiber.Ctx) error {
	input, ok := c.Locals("inputCreateRoom").(model.CreateRoomInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	var room model.Room
	if err := copier.Copy(&room, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	room.Amenities = input.Amenities
	room.Images = input.Images
	room.IsAvailable = input.IsAvailable == nil || *input.IsAvailable

	err := rooms.CreateRoom(c.Context(), &room)
	if errors.Is(err, repository.ErrRoomNumberTaken) {
		return roomNumberExists(c, err)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	roomChanged(c, "create", &room)
	return utils.SuccessResponse(c, fiber.StatusCreated, room)
}

// UpdateRoom applies only the fields present in the body. The slug follows
// the room number and type.
func UpdateRoom(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)
	input, ok := c.Locals("inputEditRoom").(model.EditRoomInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	room, err := rooms.UpdateRoom(c.Context(), uint(id), func(room *model.Room) error {
		if err := copier.CopyWithOption(room, &input, copier.Option{IgnoreEmpty: true}); err != nil {
			return err
		}
		if input.Amenities != nil {
			room.Amenities = *input.Amenities
		}
		if input.Images != nil {
			room.Images = *input.Images
		}
		if input.IsAvailable != nil {
			room.IsAvailable = *input.IsAvailable
		}
		return nil
	})
	switch {
	case errors.Is(err, repository.ErrRoomNumberTaken):
		return roomNumberExists(c, err)
	case err != nil:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	case room == nil:
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ROOM_NOT_FOUND, nil)
	}

	roomChanged(c, "update", room)
	return utils.SuccessResponse(c, fiber.StatusOK, room)
}

// DeleteRoom refuses while pending or confirmed bookings still hold the room.
func DeleteRoom(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)

	room, err := rooms.DeleteRoom(c.Context(), uint(id), bookings.Today())
	switch {
	case errors.Is(err, repository.ErrRoomHasActiveBookings):
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.ROOM_HAS_ACTIVE_BOOKINGS, err)
	case err != nil:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	case room == nil:
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ROOM_NOT_FOUND, nil)
	}

	roomChanged(c, "delete", room)
	return utils.SuccessResponseWithMessage(c, fiber.StatusOK, constants.ROOM_REMOVED, room)
}

func RoomAvailability(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)
	q := c.Locals("inputAvailability").(validate.AvailabilityQuery)

	result, err := bookings.CheckAvailability(c.Context(), uint(id), q.CheckIn, q.CheckOut, q.ExcludeID)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, result)
}

// roomChanged drops cached room reads after a catalogue mutation.
func roomChanged(c *fiber.Ctx, action string, room *model.Room) {
	if roomCache != nil {
		roomCache.Invalidate(c.Context())
	}
	entry := logrus.WithFields(logrus.Fields{
		"action":     action,
		"roomId":     room.ID,
		"roomNumber": room.RoomNumber,
	})
	if identity, ok := helper.GetIdentity(c); ok {
		entry = entry.WithField("adminId", identity.UserID)
	}
	entry.Info("room catalogue changed")
}
