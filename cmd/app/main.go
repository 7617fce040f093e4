package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/carrental/api"
	"github.com/Domenick1991/carrental/config"
	"github.com/Domenick1991/carrental/internal/auth"
	"github.com/Domenick1991/carrental/internal/bootstrap"
	"github.com/Domenick1991/carrental/internal/cache"
	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/kafka"
	"github.com/Domenick1991/carrental/internal/logger"
	"github.com/Domenick1991/carrental/internal/repository"
	"github.com/Domenick1991/carrental/internal/service/booking"
	"github.com/Domenick1991/carrental/internal/service/cars"
	"github.com/Domenick1991/carrental/internal/service/dealer"
	"github.com/Domenick1991/carrental/internal/service/scheduler"
	"github.com/jackc/pgx/v5/pgxpool"
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
	insuranceFee, err := domain.ParseMoney(cfg.Booking.InsuranceDailyFee)
	if err != nil {
		log.Fatalf("booking.insurance_daily_fee: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.CarsCacheTTLSeconds)*time.Second)
	defer redisCache.Close()
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	carRepo := repository.NewCarRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	dealerRepo := repository.NewDealerRepository(pool)
	favoriteRepo := repository.NewFavoriteRepository(pool)

	sched := scheduler.New(scheduler.Config{InsuranceDailyFee: insuranceFee})

	carService := cars.NewCarService(carRepo, bookingRepo, favoriteRepo, sched, redisCache, logr)
	dealerService := dealer.NewDealerService(dealerRepo, carRepo, bookingRepo, sched, redisCache, logr)
	bookingService := booking.NewBookingService(
		bookingRepo,
		carRepo,
		dealerRepo,
		sched,
		producer,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithCarLock(redisCache, time.Duration(cfg.Booking.CarLockTTLSeconds)*time.Second),
		booking.WithLogger(logr),
	)

	authn := api.NewAuthenticator(auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTAlgorithm), cfg.Auth.CookieName)
	router := bootstrap.NewRouter(bootstrap.Services{
		Cars:     carService,
		Bookings: bookingService,
		Dealer:   dealerService,
	}, authn, bootstrap.RouterOptions{
		SwaggerFile: cfg.HTTP.SwaggerFile,
		Today:       func() domain.Date { return domain.Today(loc) },
		HealthChecks: map[string]bootstrap.HealthCheck{
			"postgres": pool.Ping,
			"redis":    redisCache.Ping,
			"kafka":    producer.CheckConnection,
		},
	})

	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		logr.Error("server error", "error", err)
	}
}
