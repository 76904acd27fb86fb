package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frankmutethia/Aurora-sub000/config"
	"github.com/frankmutethia/Aurora-sub000/internal/bootstrap"
	"github.com/frankmutethia/Aurora-sub000/internal/cache"
	"github.com/frankmutethia/Aurora-sub000/internal/kafka"
	"github.com/frankmutethia/Aurora-sub000/internal/logger"
	"github.com/frankmutethia/Aurora-sub000/internal/payment"
	"github.com/frankmutethia/Aurora-sub000/internal/repository"
	"github.com/frankmutethia/Aurora-sub000/internal/service/booking"
	"github.com/frankmutethia/Aurora-sub000/internal/service/fleet"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	log := logger.New("aurora-app")

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Error("load config", logger.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := repository.Migrate("migrations", cfg.Database.MigrateURL()); err != nil {
		log.Error("apply migrations", logger.Error(err))
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("connect postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FleetCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	vehicleRepo := repository.NewVehicleRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	fleetService := fleet.NewFleetService(vehicleRepo, redisCache, log)
	bookingService := booking.NewBookingService(
		bookingRepo,
		vehicleRepo,
		redisCache,
		producer,
		payment.NewSimulatedGateway(),
		log,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.VehicleLockTTLSeconds)*time.Second,
		time.Duration(cfg.Booking.InvoiceDueDays)*24*time.Hour,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, fleetService, bookingService); err != nil {
		log.Error("server error", logger.Error(err))
		os.Exit(1)
	}
}
