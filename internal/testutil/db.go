package testutil

import (
	"fmt"
	"io"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/careslot/appointment-booking-service/internal/config"
	"github.com/careslot/appointment-booking-service/internal/domain"
)

// OpenDB returns a migrated in-memory database. The pool is pinned to one
// connection: that keeps the in-memory store alive across transactions and
// serializes concurrent writers the way the postgres row lock does.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// SilentLogger returns a logrus logger that discards everything.
func SilentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// SeedUser inserts a user and returns it.
func SeedUser(t *testing.T, db *gorm.DB, email, role string) domain.User {
	t.Helper()
	user := domain.User{
		Name:     "Test User",
		Email:    email,
		Phone:    "+1000000000",
		Password: "not-a-real-hash",
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

var seedSeq atomic.Int64

// SeedDoctor inserts a service and a doctor with the given slot counts.
// Service names carry a sequence number to satisfy the unique name index
// across repeated seeds.
func SeedDoctor(t *testing.T, db *gorm.DB, weekday, weekend int) domain.Doctor {
	t.Helper()
	svc := domain.Service{
		Name:        fmt.Sprintf("General Consultation %d", seedSeq.Add(1)),
		Description: "check-up",
	}
	if err := db.Create(&svc).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}
	doctor := domain.Doctor{
		Name:             "Dr. Test",
		Title:            "MD",
		ServiceID:        svc.ID,
		WeekdaySlotCount: weekday,
		WeekendSlotCount: weekend,
	}
	if err := db.Create(&doctor).Error; err != nil {
		t.Fatalf("seed doctor: %v", err)
	}
	return doctor
}

// SeedSlot inserts one available slot for the doctor.
func SeedSlot(t *testing.T, db *gorm.DB, doctorID uint, date, start, end string) domain.Slot {
	t.Helper()
	slot := domain.Slot{
		DoctorID:  doctorID,
		SlotDate:  date,
		StartTime: start,
		EndTime:   end,
		Available: true,
	}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	return slot
}
