package bootstrap

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/careslot/appointment-booking-service/internal/domain"
	"github.com/careslot/appointment-booking-service/internal/repository"
	"github.com/careslot/appointment-booking-service/internal/service"
)

// Options configures the startup pass.
type Options struct {
	AdminEmail    string
	AdminPassword string
	SlotDaysAhead int
}

// Run executes the ordered startup tasks before any traffic is served:
// legacy status migration, reference-data seeding, then slot generation.
// Each step is idempotent, so restarting the process is always safe.
func Run(db *gorm.DB, appointments repository.AppointmentRepository, slots service.SlotService, opts Options, logger *logrus.Logger) error {
	migrated, err := appointments.MigrateLegacyStatuses()
	if err != nil {
		return err
	}
	if migrated > 0 {
		logger.WithField("Rows", migrated).Info("Migrated legacy CANCELLED statuses to REJECTED")
	}

	if err := SeedReferenceData(db, opts.AdminEmail, opts.AdminPassword, logger); err != nil {
		return err
	}

	return slots.GenerateSlots(opts.SlotDaysAhead)
}

// SeedReferenceData inserts the admin account and the service/doctor
// catalog when absent. Doctors carry the per-day-type slot counts the
// generator consumes.
func SeedReferenceData(db *gorm.DB, adminEmail, adminPassword string, logger *logrus.Logger) error {
	var adminCount int64
	if err := db.Model(&domain.User{}).Where("email = ?", adminEmail).Count(&adminCount).Error; err != nil {
		return err
	}
	if adminCount == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := domain.User{
			Name:     "Admin",
			Email:    adminEmail,
			Phone:    "+1234567890",
			Password: string(hashed),
			Role:     domain.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		logger.WithField("Email", adminEmail).Info("Admin account seeded")
	}

	var serviceCount int64
	if err := db.Model(&domain.Service{}).Count(&serviceCount).Error; err != nil {
		return err
	}
	if serviceCount == 0 {
		services := []domain.Service{
			{Name: "General Consultation", Description: "General health check-up"},
			{Name: "Dental", Description: "Dental examination and cleaning"},
			{Name: "Physiotherapy", Description: "Physical therapy session"},
		}
		if err := db.Create(&services).Error; err != nil {
			return err
		}
	}

	var doctorCount int64
	if err := db.Model(&domain.Doctor{}).Count(&doctorCount).Error; err != nil {
		return err
	}
	if doctorCount == 0 {
		var services []domain.Service
		if err := db.Order("id").Find(&services).Error; err != nil {
			return err
		}
		if len(services) >= 3 {
			general, dental, physio := services[0], services[1], services[2]
			doctors := []domain.Doctor{
				{Name: "Dr. Sarah Smith", Title: "MD", ServiceID: general.ID, WeekdaySlotCount: 5, WeekendSlotCount: 3},
				{Name: "Dr. James Wilson", Title: "MD", ServiceID: general.ID, WeekdaySlotCount: 6, WeekendSlotCount: 2},
				{Name: "Dr. Teresa Chevez", Title: "MD", ServiceID: dental.ID, WeekdaySlotCount: 5, WeekendSlotCount: 2},
				{Name: "Dr. Emily Brown", Title: "DDS", ServiceID: dental.ID, WeekdaySlotCount: 4, WeekendSlotCount: 3},
				{Name: "Dr. Michael Lee", Title: "PT", ServiceID: physio.ID, WeekdaySlotCount: 6, WeekendSlotCount: 2},
				{Name: "Dr. Anna Martinez", Title: "PT", ServiceID: physio.ID, WeekdaySlotCount: 4, WeekendSlotCount: 3},
			}
			if err := db.Create(&doctors).Error; err != nil {
				return err
			}
			logger.WithField("Doctors", len(doctors)).Info("Doctor catalog seeded")
		}
	}

	return nil
}
