package service

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/careslot/appointment-booking-service/internal/domain"
	"github.com/careslot/appointment-booking-service/internal/notify"
	"github.com/careslot/appointment-booking-service/internal/repository"
)

// AppointmentView is the appointment as rendered to the boundary layer,
// always carrying the slot the appointment currently references and the
// resolved effective status.
type AppointmentView struct {
	ID          uint          `json:"id"`
	UserID      uint          `json:"userId"`
	UserName    string        `json:"userName"`
	UserEmail   string        `json:"userEmail"`
	SlotID      uint          `json:"slotId"`
	ServiceID   uint          `json:"serviceId"`
	ServiceName string        `json:"serviceName"`
	DoctorID    uint          `json:"doctorId"`
	DoctorName  string        `json:"doctorName"`
	SlotDate    string        `json:"slotDate"`
	StartTime   string        `json:"startTime"`
	EndTime     string        `json:"endTime"`
	Notes       string        `json:"notes,omitempty"`
	Status      domain.Status `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type AppointmentService interface {
	Book(userID, slotID uint, notes string) (AppointmentView, error)
	Cancel(userID, appointmentID uint) error
	Reschedule(userID, appointmentID, newSlotID uint, notes *string) (AppointmentView, error)
	UpdateStatusByAdmin(appointmentID uint, status domain.Status) (AppointmentView, error)
	MyAppointments(userID uint) ([]AppointmentView, error)
	AllAppointments() ([]AppointmentView, error)
	SendDailyReminders()
}

type appointmentService struct {
	appointments repository.AppointmentRepository
	slots        repository.SlotRepository
	users        repository.UserRepository
	notifier     notify.Notifier
	logger       *logrus.Logger
	now          func() time.Time
}

func NewAppointmentService(appointments repository.AppointmentRepository, slots repository.SlotRepository, users repository.UserRepository, notifier notify.Notifier, logger *logrus.Logger, now func() time.Time) AppointmentService {
	if now == nil {
		now = time.Now
	}
	return &appointmentService{
		appointments: appointments,
		slots:        slots,
		users:        users,
		notifier:     notifier,
		logger:       logger,
		now:          now,
	}
}

// Book reserves a slot for the user. The occupancy check and the insert
// run atomically in the repository; a concurrent booker of the same slot
// gets ErrConflict, never a silently dropped booking.
func (s *appointmentService) Book(userID, slotID uint, notes string) (AppointmentView, error) {
	s.logger.WithFields(logrus.Fields{
		"Function": "Book",
		"UserID":   userID,
		"SlotID":   slotID,
	}).Info("Booking appointment")

	if _, err := s.users.FindByID(userID); err != nil {
		return AppointmentView{}, err
	}

	appt, err := s.appointments.Book(userID, slotID, notes)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"Function": "Book",
			"SlotID":   slotID,
		}).Warn("Booking failed")
		return AppointmentView{}, err
	}

	go s.notifier.ScheduleReminder(reminderFor(appt, domain.EventBooked))

	s.logger.WithFields(logrus.Fields{
		"Function":      "Book",
		"AppointmentID": appt.ID,
	}).Info("Appointment booked")
	return s.toView(appt), nil
}

// Cancel rejects the caller's own appointment and frees the slot.
func (s *appointmentService) Cancel(userID, appointmentID uint) error {
	appt, err := s.appointments.FindByID(appointmentID)
	if err != nil {
		return err
	}
	if appt.UserID != userID {
		return fmt.Errorf("%w: not authorized to cancel this appointment", domain.ErrForbidden)
	}
	if appt.Status.Normalize() == domain.StatusRejected {
		return fmt.Errorf("%w: appointment is already cancelled", domain.ErrConflict)
	}

	if _, err := s.appointments.Release(appointmentID); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"Function":      "Cancel",
		"AppointmentID": appointmentID,
		"UserID":        userID,
	}).Info("Appointment cancelled")
	return nil
}

// Reschedule moves the appointment to a new slot, keeping the same
// appointment id: the old slot is freed, the new one occupied and the
// status reset to PENDING, all in one transaction. The reminder dispatch
// afterwards is fire-and-forget.
func (s *appointmentService) Reschedule(userID, appointmentID, newSlotID uint, notes *string) (AppointmentView, error) {
	appt, err := s.appointments.FindByID(appointmentID)
	if err != nil {
		return AppointmentView{}, err
	}
	if appt.UserID != userID {
		return AppointmentView{}, fmt.Errorf("%w: not authorized to reschedule this appointment", domain.ErrForbidden)
	}
	if appt.Status.Closed() {
		return AppointmentView{}, fmt.Errorf("%w: cannot reschedule a rejected or completed appointment", domain.ErrConflict)
	}

	newNotes := appt.Notes
	if notes != nil {
		newNotes = *notes
	}

	updated, err := s.appointments.Reschedule(appointmentID, newSlotID, newNotes)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"Function":      "Reschedule",
			"AppointmentID": appointmentID,
			"NewSlotID":     newSlotID,
		}).Warn("Reschedule failed")
		return AppointmentView{}, err
	}

	go s.notifier.ScheduleReminder(reminderFor(updated, domain.EventRescheduled))

	s.logger.WithFields(logrus.Fields{
		"Function":      "Reschedule",
		"AppointmentID": appointmentID,
		"NewSlotID":     newSlotID,
	}).Info("Appointment rescheduled")
	return s.toView(updated), nil
}

// UpdateStatusByAdmin applies an admin decision. The boundary decodes the
// closed enum before this is reached; the guard here is the last line of
// defense. Ownership is not checked, the route is admin-gated.
func (s *appointmentService) UpdateStatusByAdmin(appointmentID uint, status domain.Status) (AppointmentView, error) {
	if status != domain.StatusApproved && status != domain.StatusRejected {
		return AppointmentView{}, fmt.Errorf("%w: status must be APPROVED or REJECTED", domain.ErrBadRequest)
	}

	var (
		appt domain.Appointment
		err  error
	)
	if status == domain.StatusRejected {
		appt, err = s.appointments.Release(appointmentID)
	} else {
		appt, err = s.appointments.UpdateStatus(appointmentID, status)
	}
	if err != nil {
		return AppointmentView{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"Function":      "UpdateStatusByAdmin",
		"AppointmentID": appointmentID,
		"Status":        status,
	}).Info("Appointment status updated")
	return s.toView(appt), nil
}

func (s *appointmentService) MyAppointments(userID uint) ([]AppointmentView, error) {
	appts, err := s.appointments.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.toViews(appts), nil
}

func (s *appointmentService) AllAppointments() ([]AppointmentView, error) {
	appts, err := s.appointments.ListAll()
	if err != nil {
		return nil, err
	}
	return s.toViews(appts), nil
}

// SendDailyReminders emails every user holding an active appointment
// today. Runs from the cron scheduler; failures are logged per recipient
// and never interrupt the sweep.
func (s *appointmentService) SendDailyReminders() {
	date := s.now().Format(dateLayout)
	appts, err := s.appointments.ListActiveForDate(date)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch today's appointments")
		return
	}

	for _, appt := range appts {
		s.notifier.ScheduleReminder(reminderFor(appt, domain.EventReminder))
	}

	s.logger.WithFields(logrus.Fields{
		"Function": "SendDailyReminders",
		"Date":     date,
		"Count":    len(appts),
	}).Info("Daily reminders dispatched")
}

// toView renders one appointment, resolving the effective status and
// persisting an auto-completion when the slot window has elapsed. The
// persist is best-effort; the projection returns COMPLETED regardless.
func (s *appointmentService) toView(appt domain.Appointment) AppointmentView {
	status, expired := ResolveStatus(appt.Status, appt.Slot.SlotDate, appt.Slot.EndTime, s.now())
	if expired {
		if err := s.appointments.MarkCompleted(appt.ID); err != nil {
			s.logger.WithError(err).WithField("AppointmentID", appt.ID).
				Warn("Failed to persist auto-completion")
		}
	}

	return AppointmentView{
		ID:          appt.ID,
		UserID:      appt.UserID,
		UserName:    appt.User.Name,
		UserEmail:   appt.User.Email,
		SlotID:      appt.SlotID,
		ServiceID:   appt.Slot.Doctor.ServiceID,
		ServiceName: appt.Slot.Doctor.Service.Name,
		DoctorID:    appt.Slot.DoctorID,
		DoctorName:  appt.Slot.Doctor.Name,
		SlotDate:    appt.Slot.SlotDate,
		StartTime:   appt.Slot.StartTime,
		EndTime:     appt.Slot.EndTime,
		Notes:       appt.Notes,
		Status:      status,
		CreatedAt:   appt.CreatedAt,
	}
}

func (s *appointmentService) toViews(appts []domain.Appointment) []AppointmentView {
	views := make([]AppointmentView, 0, len(appts))
	for _, appt := range appts {
		views = append(views, s.toView(appt))
	}
	return views
}

func reminderFor(appt domain.Appointment, eventType string) notify.Reminder {
	return notify.Reminder{
		AppointmentID: appt.ID,
		UserEmail:     appt.User.Email,
		UserPhone:     appt.User.Phone,
		ServiceName:   appt.Slot.Doctor.Service.Name,
		DoctorID:      appt.Slot.DoctorID,
		DoctorName:    appt.Slot.Doctor.Name,
		SlotDate:      appt.Slot.SlotDate,
		StartTime:     appt.Slot.StartTime,
		EndTime:       appt.Slot.EndTime,
		EventType:     eventType,
	}
}
