package main

import (
	"github.com/go-gomail/gomail"

	"github.com/careslot/appointment-booking-service/internal/bootstrap"
	"github.com/careslot/appointment-booking-service/internal/config"
	"github.com/careslot/appointment-booking-service/internal/handler"
	"github.com/careslot/appointment-booking-service/internal/logs"
	"github.com/careslot/appointment-booking-service/internal/notify"
	"github.com/careslot/appointment-booking-service/internal/repository"
	"github.com/careslot/appointment-booking-service/internal/service"
	"github.com/careslot/appointment-booking-service/internal/utils"
)

func main() {
	cfg := config.Load()
	logger := logs.NewLogger(cfg.LogLevel)

	db, err := config.InitDatabase(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}

	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)

	var events *notify.EventPublisher
	if cfg.KafkaBroker != "" {
		if err := notify.EnsureTopicExists(cfg.KafkaBroker, cfg.KafkaTopic); err != nil {
			logger.WithError(err).Warn("Failed to ensure event topic; continuing without it")
		}
		events = notify.NewEventPublisher(cfg.KafkaBroker, cfg.KafkaTopic, logger)
		defer events.Close()
	}
	var dialer *gomail.Dialer
	if cfg.SMTPHost != "" {
		dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	}
	notifier := notify.NewNotifier(dialer, cfg.MailFrom, events, logger)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, logger, nil)
	slotService := service.NewSlotService(slotRepo, catalogRepo, appointmentRepo, logger, nil)
	appointmentService := service.NewAppointmentService(appointmentRepo, slotRepo, userRepo, notifier, logger, nil)

	// Startup tasks run to completion before the listener opens.
	opts := bootstrap.Options{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		SlotDaysAhead: cfg.SlotDaysAhead,
	}
	if err := bootstrap.Run(db, appointmentRepo, slotService, opts, logger); err != nil {
		logger.WithError(err).Fatal("Startup tasks failed")
	}

	scheduler, err := utils.StartReminderScheduler(cfg.ReminderCron, appointmentService, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to schedule reminder job")
	}
	defer scheduler.Stop()

	router := handler.NewRouter(handler.Deps{
		Auth:         handler.NewAuthHandler(authService),
		Catalog:      handler.NewCatalogHandler(catalogRepo),
		Slots:        handler.NewSlotHandler(slotService),
		Appointments: handler.NewAppointmentHandler(appointmentService),
		JWTSecret:    cfg.JWTSecret,
	})

	logger.WithField("Port", cfg.Port).Info("HTTP server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("HTTP server stopped")
	}
}
