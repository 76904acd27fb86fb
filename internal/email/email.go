package email

import (
	"context"

	"github.com/frankmutethia/Aurora-sub000/internal/kafka"
	"github.com/frankmutethia/Aurora-sub000/internal/logger"
)

// Sender delivers booking and invoice notifications. Delivery is simulated;
// failures are logged and never surfaced to the booking flow.
type Sender struct {
	log logger.Logger
}

func NewSender(log logger.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.log.Info("sending notification",
		logger.String("type", event.Type),
		logger.String("booking_id", event.BookingID),
		logger.String("user_id", event.UserID),
		logger.String("payment_status", event.PaymentStatus),
	)
	return nil
}
