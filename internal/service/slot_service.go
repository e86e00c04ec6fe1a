package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/careslot/appointment-booking-service/internal/domain"
	"github.com/careslot/appointment-booking-service/internal/repository"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	slotDurationMinutes = 30
)

// Fixed daily start-time pools. A doctor's configured count truncates the
// pool in order; it never reorders or samples it.
var (
	weekdayStartTimes = []string{"09:00", "10:00", "11:00", "12:00", "14:00", "15:00", "16:00"}
	weekendStartTimes = []string{"09:00", "10:00", "14:00"}
)

// SlotView is the slot as rendered to the boundary layer.
type SlotView struct {
	ID          uint   `json:"id"`
	DoctorID    uint   `json:"doctorId"`
	DoctorName  string `json:"doctorName"`
	ServiceID   uint   `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	SlotDate    string `json:"slotDate"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Available   bool   `json:"available"`
}

type SlotService interface {
	GenerateSlots(daysAhead int) error
	CreateSlot(doctorID uint, date, startTime, endTime string) (SlotView, error)
	AvailableSlots(doctorID *uint, date *string) ([]SlotView, error)
	DaySchedule(doctorID uint, date string) ([]SlotView, error)
}

type slotService struct {
	slots        repository.SlotRepository
	catalog      repository.CatalogRepository
	appointments repository.AppointmentRepository
	logger       *logrus.Logger
	now          func() time.Time
}

func NewSlotService(slots repository.SlotRepository, catalog repository.CatalogRepository, appointments repository.AppointmentRepository, logger *logrus.Logger, now func() time.Time) SlotService {
	if now == nil {
		now = time.Now
	}
	return &slotService{
		slots:        slots,
		catalog:      catalog,
		appointments: appointments,
		logger:       logger,
		now:          now,
	}
}

// GenerateSlots materializes the calendar for every doctor over the next
// daysAhead days, today inclusive. Existing (doctor, date, start) tuples
// are skipped, so re-running on every process start neither duplicates
// slots nor resets their availability. Admin-created slots count as
// existing for the check.
func (s *slotService) GenerateSlots(daysAhead int) error {
	doctors, err := s.catalog.ListDoctors()
	if err != nil {
		return err
	}

	today := s.now()
	created := 0
	for i := 0; i < daysAhead; i++ {
		date := today.AddDate(0, 0, i)
		dateStr := date.Format(dateLayout)
		for _, doctor := range doctors {
			for _, start := range startTimesForDay(date, doctor) {
				exists, err := s.slots.Exists(doctor.ID, dateStr, start)
				if err != nil {
					return err
				}
				if exists {
					continue
				}
				end, err := addMinutes(start, slotDurationMinutes)
				if err != nil {
					return err
				}
				slot := &domain.Slot{
					DoctorID:  doctor.ID,
					SlotDate:  dateStr,
					StartTime: start,
					EndTime:   end,
					Available: true,
				}
				if err := s.slots.Create(slot); err != nil {
					// The unique index catches a row inserted between
					// the existence check and the create.
					if errors.Is(err, domain.ErrConflict) {
						continue
					}
					return err
				}
				created++
			}
		}
	}

	s.logger.WithFields(logrus.Fields{
		"Function":  "GenerateSlots",
		"DaysAhead": daysAhead,
		"Doctors":   len(doctors),
		"Created":   created,
	}).Info("Slot generation finished")
	return nil
}

// startTimesForDay picks the day-type pool and truncates it to the
// doctor's configured count.
func startTimesForDay(date time.Time, doctor domain.Doctor) []string {
	weekend := date.Weekday() == time.Saturday || date.Weekday() == time.Sunday
	pool := weekdayStartTimes
	count := doctor.WeekdaySlotCount
	if weekend {
		pool = weekendStartTimes
		count = doctor.WeekendSlotCount
	}
	if count > len(pool) {
		count = len(pool)
	}
	if count < 0 {
		count = 0
	}
	return pool[:count]
}

func addMinutes(start string, minutes int) (string, error) {
	t, err := time.Parse(timeLayout, start)
	if err != nil {
		return "", fmt.Errorf("%w: invalid time %q", domain.ErrBadRequest, start)
	}
	return t.Add(time.Duration(minutes) * time.Minute).Format(timeLayout), nil
}

// CreateSlot inserts one slot administratively. Generator runs afterwards
// treat it like any other slot.
func (s *slotService) CreateSlot(doctorID uint, date, startTime, endTime string) (SlotView, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return SlotView{}, fmt.Errorf("%w: invalid date %q", domain.ErrBadRequest, date)
	}
	if _, err := time.Parse(timeLayout, startTime); err != nil {
		return SlotView{}, fmt.Errorf("%w: invalid start time %q", domain.ErrBadRequest, startTime)
	}
	if endTime == "" {
		var err error
		endTime, err = addMinutes(startTime, slotDurationMinutes)
		if err != nil {
			return SlotView{}, err
		}
	} else if _, err := time.Parse(timeLayout, endTime); err != nil {
		return SlotView{}, fmt.Errorf("%w: invalid end time %q", domain.ErrBadRequest, endTime)
	}

	doctor, err := s.catalog.FindDoctorByID(doctorID)
	if err != nil {
		return SlotView{}, err
	}

	slot := &domain.Slot{
		DoctorID:  doctor.ID,
		SlotDate:  date,
		StartTime: startTime,
		EndTime:   endTime,
		Available: true,
	}
	if err := s.slots.Create(slot); err != nil {
		return SlotView{}, err
	}
	slot.Doctor = doctor

	s.logger.WithFields(logrus.Fields{
		"Function": "CreateSlot",
		"DoctorID": doctorID,
		"SlotDate": date,
		"Start":    startTime,
	}).Info("Slot created")
	return toSlotView(*slot), nil
}

// AvailableSlots lists open slots filtered by any combination of doctor
// and date, defaulting to all available. This view trusts the stored flag;
// every booking mutation keeps it in step.
func (s *slotService) AvailableSlots(doctorID *uint, date *string) ([]SlotView, error) {
	if date != nil {
		if _, err := time.Parse(dateLayout, *date); err != nil {
			return nil, fmt.Errorf("%w: invalid date %q", domain.ErrBadRequest, *date)
		}
	}
	slots, err := s.slots.FindAvailable(doctorID, date)
	if err != nil {
		return nil, err
	}
	views := make([]SlotView, 0, len(slots))
	for _, slot := range slots {
		views = append(views, toSlotView(slot))
	}
	return views, nil
}

// DaySchedule lists every slot for a doctor and date with availability
// computed from live active-appointment existence. A stale stored flag is
// never trusted here.
func (s *slotService) DaySchedule(doctorID uint, date string) ([]SlotView, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", domain.ErrBadRequest, date)
	}
	slots, err := s.slots.FindForDoctorDate(doctorID, date)
	if err != nil {
		return nil, err
	}

	views := make([]SlotView, 0, len(slots))
	for _, slot := range slots {
		occupied, err := s.appointments.HasActiveForSlot(slot.ID)
		if err != nil {
			return nil, err
		}
		view := toSlotView(slot)
		view.Available = !occupied
		views = append(views, view)
	}
	return views, nil
}

func toSlotView(slot domain.Slot) SlotView {
	return SlotView{
		ID:          slot.ID,
		DoctorID:    slot.DoctorID,
		DoctorName:  slot.Doctor.Name,
		ServiceID:   slot.Doctor.ServiceID,
		ServiceName: slot.Doctor.Service.Name,
		SlotDate:    slot.SlotDate,
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
		Available:   slot.Available,
	}
}
