package database

import (
	"fmt"

	"hotel_manager/config"
	"hotel_manager/model"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectDB(cfg *config.AppConfig, log *logrus.Logger) {
	var err error
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	log.Info("connection opened to database")

	if err := DB.AutoMigrate(
		&model.User{},
		&model.Room{},
		&model.Booking{},
	); err != nil {
		log.WithError(err).Fatal("database migration failed")
	}
	log.Info("database migrated")

	if cfg.OverlapConstraint {
		if err := InstallOverlapConstraint(DB); err != nil {
			log.WithError(err).Error("booking overlap constraint not installed")
		} else {
			log.Info("booking overlap constraint installed")
		}
	}

	SeedData(DB, cfg, log)
}

// overlapConstraintSQL rejects two live bookings of one room whose inclusive
// date ranges share a day. It needs the btree_gist extension.
var overlapConstraintSQL = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap') THEN
		ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
			EXCLUDE USING gist (
				room_id WITH =,
				daterange(check_in_date, check_out_date, '[]') WITH &&
			) WHERE (status IN ('pending', 'confirmed'));
	END IF;
END $$`,
}

func InstallOverlapConstraint(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range overlapConstraintSQL {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
