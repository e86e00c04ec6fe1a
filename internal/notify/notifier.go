package notify

import (
	"fmt"

	"github.com/go-gomail/gomail"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/careslot/appointment-booking-service/internal/domain"
)

// Reminder carries everything needed to compose a human-readable
// appointment message without reaching back into the store.
type Reminder struct {
	AppointmentID uint
	UserEmail     string
	UserPhone     string
	ServiceName   string
	DoctorID      uint
	DoctorName    string
	SlotDate      string
	StartTime     string
	EndTime       string
	EventType     string
}

// Notifier delivers best-effort notifications. Every method swallows and
// logs failures; delivery must never affect the triggering operation.
type Notifier interface {
	SendInstant(toEmail, toPhone, subject, message string)
	ScheduleReminder(reminder Reminder)
}

type notifier struct {
	dialer *gomail.Dialer
	from   string
	events *EventPublisher
	logger *logrus.Logger
}

// NewNotifier builds the notifier. dialer and events may be nil when SMTP
// or Kafka are not configured; the corresponding channel is skipped.
func NewNotifier(dialer *gomail.Dialer, from string, events *EventPublisher, logger *logrus.Logger) Notifier {
	return &notifier{dialer: dialer, from: from, events: events, logger: logger}
}

func (n *notifier) SendInstant(toEmail, toPhone, subject, message string) {
	if toEmail != "" && n.dialer != nil {
		m := gomail.NewMessage()
		m.SetHeader("From", n.from)
		m.SetHeader("To", toEmail)
		m.SetHeader("Subject", subject)
		m.SetBody("text/plain", message)

		if err := n.dialer.DialAndSend(m); err != nil {
			n.logger.WithError(err).WithField("To", toEmail).Warn("Failed to send email")
		} else {
			n.logger.WithField("To", toEmail).Info("Email sent")
		}
	}
	if toPhone != "" {
		// SMS gateway integration pending; log the reminder for now.
		n.logger.WithFields(logrus.Fields{
			"To":      toPhone,
			"Message": message,
		}).Info("Phone reminder would be sent")
	}
}

// ScheduleReminder composes the reminder message and dispatches it over
// every configured channel, including the event topic.
func (n *notifier) ScheduleReminder(r Reminder) {
	details := fmt.Sprintf("Appointment: %s on %s at %s - %s",
		r.ServiceName, r.SlotDate, r.StartTime, r.EndTime)
	subject := "Appointment Reminder: " + r.ServiceName
	body := "Your appointment is confirmed. " + details +
		". Reminders will be sent 24 hours and 1 hour before."

	n.SendInstant(r.UserEmail, r.UserPhone, subject, body)

	if n.events == nil {
		return
	}
	eventType := r.EventType
	if eventType == "" {
		eventType = domain.EventReminder
	}
	event := domain.AppointmentEvent{
		EventID:       uuid.New().String(),
		Type:          eventType,
		AppointmentID: r.AppointmentID,
		UserEmail:     r.UserEmail,
		DoctorID:      r.DoctorID,
		DoctorName:    r.DoctorName,
		ServiceName:   r.ServiceName,
		SlotDate:      r.SlotDate,
		StartTime:     r.StartTime,
	}
	if err := n.events.Publish(event); err != nil {
		n.logger.WithError(err).Warn("Failed to produce appointment event")
	}
}
