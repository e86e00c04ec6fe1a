package domain

import (
	"time"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"uniqueIndex;not null"`
	Phone     string
	Password  string `gorm:"not null"`
	Role      string `gorm:"not null;default:USER"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Service struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	Doctors     []Doctor
}

type Doctor struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Title     string
	ServiceID uint `gorm:"not null"`
	Service   Service
	// Slots taken per day type when the calendar is generated. Weekday
	// counts run 4-6, weekend counts 2-3; anything above the pool size
	// is clamped to the pool.
	WeekdaySlotCount int
	WeekendSlotCount int
}

// Slot is one bookable 30-minute window for one doctor on one date.
// SlotDate is "2006-01-02" and the times are "15:04"; string keys keep
// the uniqueness index portable across postgres and sqlite.
type Slot struct {
	ID        uint   `gorm:"primaryKey"`
	DoctorID  uint   `gorm:"not null;uniqueIndex:idx_slot_doctor_date_start"`
	Doctor    Doctor
	SlotDate  string `gorm:"size:10;not null;uniqueIndex:idx_slot_doctor_date_start"`
	StartTime string `gorm:"size:5;not null;uniqueIndex:idx_slot_doctor_date_start"`
	EndTime   string `gorm:"size:5;not null"`
	// Available is a persisted convenience flag. Every mutating booking
	// operation keeps it in step, but the authoritative occupancy signal
	// is always the active-appointment query.
	Available bool `gorm:"not null;default:true"`
	CreatedAt time.Time
}

type Appointment struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;index"`
	User      User
	SlotID    uint `gorm:"not null;index"`
	Slot      Slot
	Notes     string
	Status    Status `gorm:"size:16;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppointmentEvent is the payload published to the appointment topic for
// downstream consumers (notification workers, analytics).
type AppointmentEvent struct {
	EventID       string `json:"event_id"`
	Type          string `json:"type"`
	AppointmentID uint   `json:"appointment_id"`
	UserEmail     string `json:"user_email"`
	DoctorID      uint   `json:"doctor_id"`
	DoctorName    string `json:"doctor_name"`
	ServiceName   string `json:"service_name"`
	SlotDate      string `json:"slot_date"`
	StartTime     string `json:"start_time"`
}

const (
	EventBooked      = "appointment.booked"
	EventRescheduled = "appointment.rescheduled"
	EventReminder    = "appointment.reminder"
)
