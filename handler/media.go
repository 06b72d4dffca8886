package handler

import (
	"net/url"
	"strconv"
	"time"

	"hotel_manager/constants"
	"hotel_manager/utils"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/gofiber/fiber/v2"
)

const roomMediaFolder = "hotel/rooms"

// GenerateSignature signs a direct browser upload of room images. Only the
// folder, public_id and timestamp are signed.
func GenerateSignature(c *fiber.Ctx) error {
	if cloudinaryClient == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, constants.MEDIA_NOT_CONFIGURED, nil)
	}

	var body struct {
		PublicID string `json:"public_id"`
	}
	if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := url.Values{}
	params.Set("folder", roomMediaFolder)
	params.Set("timestamp", timestamp)
	if body.PublicID != "" {
		params.Set("public_id", body.PublicID)
	}

	cloud := cloudinaryClient.Config.Cloud
	signature, err := api.SignParameters(params, cloud.APISecret)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"signature": signature,
		"timestamp": timestamp,
		"folder":    roomMediaFolder,
		"publicId":  body.PublicID,
		"apiKey":    cloud.APIKey,
		"cloudName": cloud.CloudName,
	})
}
