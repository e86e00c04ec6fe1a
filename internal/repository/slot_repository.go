package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/careslot/appointment-booking-service/internal/domain"
)

// SlotRepository is the slot store. Slots are created by the calendar
// generator or by an admin and are never deleted; availability history
// stays queryable after the date has passed.
type SlotRepository interface {
	Create(slot *domain.Slot) error
	FindByID(id uint) (domain.Slot, error)
	Exists(doctorID uint, date, startTime string) (bool, error)
	FindAvailable(doctorID *uint, date *string) ([]domain.Slot, error)
	FindForDoctorDate(doctorID uint, date string) ([]domain.Slot, error)
}

type slotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) SlotRepository {
	return &slotRepository{db: db}
}

func (r *slotRepository) Create(slot *domain.Slot) error {
	if err := r.db.Create(slot).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: slot already exists for doctor %d at %s %s",
				domain.ErrConflict, slot.DoctorID, slot.SlotDate, slot.StartTime)
		}
		return err
	}
	return nil
}

func (r *slotRepository) FindByID(id uint) (domain.Slot, error) {
	var slot domain.Slot
	if err := r.db.Preload("Doctor.Service").First(&slot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Slot{}, fmt.Errorf("%w: slot %d", domain.ErrNotFound, id)
		}
		return domain.Slot{}, err
	}
	return slot, nil
}

func (r *slotRepository) Exists(doctorID uint, date, startTime string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Slot{}).
		Where("doctor_id = ? AND slot_date = ? AND start_time = ?", doctorID, date, startTime).
		Count(&count).Error
	return count > 0, err
}

// FindAvailable filters on the stored flag; any combination of doctor and
// date narrows the result, neither defaults to all available slots.
func (r *slotRepository) FindAvailable(doctorID *uint, date *string) ([]domain.Slot, error) {
	query := r.db.Preload("Doctor.Service").Where("available = ?", true)
	if doctorID != nil {
		query = query.Where("doctor_id = ?", *doctorID)
	}
	if date != nil {
		query = query.Where("slot_date = ?", *date)
	}

	var slots []domain.Slot
	err := query.Order("slot_date, start_time").Find(&slots).Error
	return slots, err
}

func (r *slotRepository) FindForDoctorDate(doctorID uint, date string) ([]domain.Slot, error) {
	var slots []domain.Slot
	err := r.db.Preload("Doctor.Service").
		Where("doctor_id = ? AND slot_date = ?", doctorID, date).
		Order("start_time").
		Find(&slots).Error
	return slots, err
}
