package utils

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/careslot/appointment-booking-service/internal/service"
)

// StartReminderScheduler runs the daily reminder sweep on the given cron
// expression. The caller owns the returned scheduler's lifecycle.
func StartReminderScheduler(spec string, appointments service.AppointmentService, logger *logrus.Logger) (*cron.Cron, error) {
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(spec, appointments.SendDailyReminders); err != nil {
		return nil, err
	}
	scheduler.Start()
	logger.WithField("Schedule", spec).Info("Reminder scheduler started")
	return scheduler, nil
}
