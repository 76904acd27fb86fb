package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frankmutethia/Aurora-sub000/config"
	"github.com/frankmutethia/Aurora-sub000/internal/email"
	"github.com/frankmutethia/Aurora-sub000/internal/kafka"
	"github.com/frankmutethia/Aurora-sub000/internal/logger"
	"github.com/frankmutethia/Aurora-sub000/internal/payment"
	"github.com/frankmutethia/Aurora-sub000/internal/repository"
	"github.com/frankmutethia/Aurora-sub000/internal/service/booking"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
)

func main() {
	log := logger.New("aurora-worker")

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Error("load config", logger.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("connect postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	vehicleRepo := repository.NewVehicleRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	bookingService := booking.NewBookingService(
		bookingRepo,
		vehicleRepo,
		nil,
		producer,
		payment.NewSimulatedGateway(),
		log,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.VehicleLockTTLSeconds)*time.Second,
		time.Duration(cfg.Booking.InvoiceDueDays)*24*time.Hour,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender(log)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Warn("decode event", logger.Error(err))
				return nil
			}
			return sender.Send(ctx, event)
		}); err != nil {
			log.Warn("consumer stopped", logger.Error(err))
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.OverdueSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			overdue, err := bookingService.MarkOverdueInvoices(ctx)
			if err != nil {
				log.Error("overdue sweep", logger.Error(err))
				continue
			}
			if len(overdue) > 0 {
				log.Info("marked invoices overdue", logger.Int("count", len(overdue)))
			}
		case s := <-sig:
			log.Info("received signal, shutting down", logger.Any("signal", s))
			return
		}
	}
}
