package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/careslot/appointment-booking-service/internal/domain"
)

// AppointmentRepository owns the appointment records and the transactional
// check-and-write that keeps every slot single-occupant. Book and
// Reschedule run the active-occupancy check and the subsequent writes in
// one transaction with the slot row locked, so concurrent bookers of the
// same slot get exactly one success and otherwise a conflict.
type AppointmentRepository interface {
	FindByID(id uint) (domain.Appointment, error)
	ListByUser(userID uint) ([]domain.Appointment, error)
	ListAll() ([]domain.Appointment, error)
	ListActiveForDate(date string) ([]domain.Appointment, error)
	HasActiveForSlot(slotID uint) (bool, error)
	Book(userID, slotID uint, notes string) (domain.Appointment, error)
	Reschedule(appointmentID, newSlotID uint, notes string) (domain.Appointment, error)
	Release(appointmentID uint) (domain.Appointment, error)
	UpdateStatus(appointmentID uint, status domain.Status) (domain.Appointment, error)
	MarkCompleted(appointmentID uint) error
	MigrateLegacyStatuses() (int64, error)
}

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

// lockForUpdate takes a row lock on postgres. SQLite has a single writer
// and no FOR UPDATE syntax, so the clause is dialect-gated.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func hasActiveForSlot(tx *gorm.DB, slotID uint, excludeAppointmentID uint) (bool, error) {
	query := tx.Model(&domain.Appointment{}).
		Where("slot_id = ? AND status IN ?", slotID, domain.ActiveStatuses())
	if excludeAppointmentID != 0 {
		query = query.Where("id <> ?", excludeAppointmentID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *appointmentRepository) FindByID(id uint) (domain.Appointment, error) {
	var appt domain.Appointment
	err := r.db.Preload("User").Preload("Slot.Doctor.Service").First(&appt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Appointment{}, fmt.Errorf("%w: appointment %d", domain.ErrNotFound, id)
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (r *appointmentRepository) ListByUser(userID uint) ([]domain.Appointment, error) {
	var appts []domain.Appointment
	err := r.db.Preload("User").Preload("Slot.Doctor.Service").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&appts).Error
	return appts, err
}

func (r *appointmentRepository) ListAll() ([]domain.Appointment, error) {
	var appts []domain.Appointment
	err := r.db.Preload("User").Preload("Slot.Doctor.Service").
		Order("created_at DESC, id DESC").
		Find(&appts).Error
	return appts, err
}

func (r *appointmentRepository) ListActiveForDate(date string) ([]domain.Appointment, error) {
	var appts []domain.Appointment
	err := r.db.Preload("User").Preload("Slot.Doctor.Service").
		Joins("JOIN slots ON slots.id = appointments.slot_id").
		Where("slots.slot_date = ? AND appointments.status IN ?", date, domain.ActiveStatuses()).
		Order("appointments.id").
		Find(&appts).Error
	return appts, err
}

func (r *appointmentRepository) HasActiveForSlot(slotID uint) (bool, error) {
	return hasActiveForSlot(r.db, slotID, 0)
}

func (r *appointmentRepository) Book(userID, slotID uint, notes string) (domain.Appointment, error) {
	var created domain.Appointment
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var slot domain.Slot
		if err := lockForUpdate(tx).First(&slot, slotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: slot %d", domain.ErrNotFound, slotID)
			}
			return err
		}

		occupied, err := hasActiveForSlot(tx, slotID, 0)
		if err != nil {
			return err
		}
		if occupied || !slot.Available {
			return fmt.Errorf("%w: slot no longer available", domain.ErrConflict)
		}

		created = domain.Appointment{
			UserID: userID,
			SlotID: slotID,
			Notes:  notes,
			Status: domain.StatusPending,
		}
		if err := tx.Create(&created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: slot no longer available", domain.ErrConflict)
			}
			return err
		}
		return tx.Model(&domain.Slot{}).Where("id = ?", slotID).
			Update("available", false).Error
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return r.FindByID(created.ID)
}

func (r *appointmentRepository) Reschedule(appointmentID, newSlotID uint, notes string) (domain.Appointment, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var appt domain.Appointment
		if err := tx.First(&appt, appointmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: appointment %d", domain.ErrNotFound, appointmentID)
			}
			return err
		}

		var newSlot domain.Slot
		if err := lockForUpdate(tx).First(&newSlot, newSlotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: slot %d", domain.ErrNotFound, newSlotID)
			}
			return err
		}

		occupied, err := hasActiveForSlot(tx, newSlotID, appt.ID)
		if err != nil {
			return err
		}
		if occupied || !newSlot.Available {
			return fmt.Errorf("%w: selected slot no longer available", domain.ErrConflict)
		}

		oldSlotID := appt.SlotID
		updates := map[string]interface{}{
			"slot_id": newSlotID,
			"status":  domain.StatusPending,
			"notes":   notes,
		}
		if err := tx.Model(&domain.Appointment{}).Where("id = ?", appt.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Slot{}).Where("id = ?", oldSlotID).
			Update("available", true).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Slot{}).Where("id = ?", newSlotID).
			Update("available", false).Error
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return r.FindByID(appointmentID)
}

// Release rejects the appointment and frees its slot, covering both the
// owner cancel and the admin reject paths.
func (r *appointmentRepository) Release(appointmentID uint) (domain.Appointment, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var appt domain.Appointment
		if err := tx.First(&appt, appointmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: appointment %d", domain.ErrNotFound, appointmentID)
			}
			return err
		}
		if err := tx.Model(&domain.Appointment{}).Where("id = ?", appt.ID).
			Update("status", domain.StatusRejected).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Slot{}).Where("id = ?", appt.SlotID).
			Update("available", true).Error
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return r.FindByID(appointmentID)
}

func (r *appointmentRepository) UpdateStatus(appointmentID uint, status domain.Status) (domain.Appointment, error) {
	result := r.db.Model(&domain.Appointment{}).Where("id = ?", appointmentID).
		Update("status", status)
	if result.Error != nil {
		return domain.Appointment{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.Appointment{}, fmt.Errorf("%w: appointment %d", domain.ErrNotFound, appointmentID)
	}
	return r.FindByID(appointmentID)
}

// MarkCompleted persists the read-time auto-completion. The status guard
// makes it a no-op for anything already terminal.
func (r *appointmentRepository) MarkCompleted(appointmentID uint) error {
	return r.db.Model(&domain.Appointment{}).
		Where("id = ? AND status IN ?", appointmentID, domain.ActiveStatuses()).
		Update("status", domain.StatusCompleted).Error
}

// MigrateLegacyStatuses rewrites rows persisted under the retired
// CANCELLED value to REJECTED. Runs once at startup before the engine
// accepts traffic.
func (r *appointmentRepository) MigrateLegacyStatuses() (int64, error) {
	result := r.db.Model(&domain.Appointment{}).
		Where("status = ?", "CANCELLED").
		Update("status", domain.StatusRejected)
	return result.RowsAffected, result.Error
}
