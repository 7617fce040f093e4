package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/carrental/config"
	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/email"
	"github.com/Domenick1991/carrental/internal/kafka"
	"github.com/Domenick1991/carrental/internal/logger"
	"github.com/Domenick1991/carrental/internal/repository"
	"github.com/Domenick1991/carrental/internal/service/booking"
	"github.com/Domenick1991/carrental/internal/service/scheduler"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logr := logger.New(cfg.Log.Level)

	loc, err := cfg.Booking.Location()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingService := booking.NewBookingService(
		repository.NewBookingRepository(pool),
		repository.NewCarRepository(pool),
		repository.NewDealerRepository(pool),
		scheduler.New(scheduler.Config{InsuranceDailyFee: scheduler.DefaultInsuranceDailyFee}),
		producer,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLogger(logr),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender(logr)

	go func() {
		if err := consumer.Consume(ctx, kafka.BookingEventHandler(emailSender.Send)); err != nil && ctx.Err() == nil {
			logr.Error("consumer stopped", "error", err)
		}
	}()

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(cfg.Worker.OverdueReminderSchedule, func() {
		overdue, err := bookingService.RemindOverduePending(ctx, domain.Today(loc))
		if err != nil {
			logr.Error("remind overdue bookings", "error", err)
			return
		}
		if len(overdue) > 0 {
			logr.Info("sent overdue pending reminders", "count", len(overdue))
		}
	}); err != nil {
		log.Fatalf("worker.overdue_reminder_schedule: %v", err)
	}
	c.Start()
	logr.Info("worker started", "schedule", cfg.Worker.OverdueReminderSchedule)

	<-ctx.Done()
	logr.Info("shutting down worker")
	<-c.Stop().Done()
}
