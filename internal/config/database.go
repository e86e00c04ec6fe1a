package config

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/careslot/appointment-booking-service/internal/domain"
)

// InitDatabase opens the postgres connection and migrates the schema.
func InitDatabase(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate applies the schema for every persisted entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Service{},
		&domain.Doctor{},
		&domain.Slot{},
		&domain.Appointment{},
	)
}
