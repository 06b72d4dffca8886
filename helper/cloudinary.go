package helper

import (
	"hotel_manager/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/sirupsen/logrus"
)

// InitCloudinary returns nil when credentials are missing; media signing is
// then switched off.
func InitCloudinary(log *logrus.Logger) *cloudinary.Cloudinary {
	name := config.Config("CLOUDINARY_CLOUD_NAME")
	key := config.Config("CLOUDINARY_API_KEY")
	secret := config.Config("CLOUDINARY_API_SECRET")
	if name == "" || key == "" || secret == "" {
		log.Info("cloudinary not configured, media signatures disabled")
		return nil
	}

	cld, err := cloudinary.NewFromParams(name, key, secret)
	if err != nil {
		log.WithError(err).Warn("cloudinary init failed")
		return nil
	}
	return cld
}
