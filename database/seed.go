package database

import (
	_ "embed"
	"fmt"

	"hotel_manager/config"
	"hotel_manager/constants"
	"hotel_manager/model"
	"hotel_manager/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seed/rooms.yaml
var roomSeedYAML []byte

type roomSeed struct {
	RoomNumber  string   `yaml:"roomNumber"`
	Type        string   `yaml:"type"`
	Price       float64  `yaml:"price"`
	Capacity    int      `yaml:"capacity"`
	IsAvailable bool     `yaml:"isAvailable"`
	Amenities   []string `yaml:"amenities"`
	Images      []string `yaml:"images"`
	Description string   `yaml:"description"`
}

// ParseRoomSeed decodes a room catalogue and rejects entries the API itself
// would refuse.
func ParseRoomSeed(data []byte) ([]model.Room, error) {
	var doc struct {
		Rooms []roomSeed `yaml:"rooms"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	rooms := make([]model.Room, 0, len(doc.Rooms))
	for _, r := range doc.Rooms {
		if r.RoomNumber == "" || seen[r.RoomNumber] {
			return nil, fmt.Errorf("room seed: missing or duplicate room number %q", r.RoomNumber)
		}
		seen[r.RoomNumber] = true

		roomType := model.RoomType(r.Type)
		valid := false
		for _, t := range model.RoomTypes() {
			if t == roomType {
				valid = true
			}
		}
		if !valid || r.Price < 0 || r.Capacity < 1 {
			return nil, fmt.Errorf("room seed: invalid room %s", r.RoomNumber)
		}

		rooms = append(rooms, model.Room{
			RoomNumber:  r.RoomNumber,
			Type:        roomType,
			Price:       r.Price,
			Capacity:    r.Capacity,
			IsAvailable: r.IsAvailable,
			Amenities:   r.Amenities,
			Images:      r.Images,
			Description: r.Description,
		})
	}
	return rooms, nil
}

func SeedData(db *gorm.DB, cfg *config.AppConfig, log *logrus.Logger) {
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		bytes, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), 10)
		if err != nil {
			log.WithError(err).Error("failed to hash admin password")
		} else {
			admin := model.User{Name: "Administrator", Email: cfg.AdminEmail, Password: string(bytes), Role: constants.ROLE_ADMIN, Active: true}
			if err := db.Where(model.User{Email: admin.Email}).FirstOrCreate(&admin).Error; err != nil {
				log.WithError(err).WithField("email", admin.Email).Error("failed to seed admin")
			}
		}
	}

	rooms, err := ParseRoomSeed(roomSeedYAML)
	if err != nil {
		log.WithError(err).Error("room seed rejected")
		return
	}
	for _, room := range rooms {
		room.Slug = utils.GenerateUniqueSlug(db, "rooms", utils.RoomSlugName(string(room.Type), room.RoomNumber), 0)
		if err := db.Where(model.Room{RoomNumber: room.RoomNumber}).Attrs(room).FirstOrCreate(&room).Error; err != nil {
			log.WithError(err).WithField("roomNumber", room.RoomNumber).Error("failed to seed room")
		}
	}
	log.WithField("rooms", len(rooms)).Info("seed data checked")
}
