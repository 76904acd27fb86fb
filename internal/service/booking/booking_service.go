package booking

import (
	"context"
	"strings"
	"time"

	"github.com/frankmutethia/Aurora-sub000/internal/domain"
	"github.com/frankmutethia/Aurora-sub000/internal/kafka"
	"github.com/frankmutethia/Aurora-sub000/internal/logger"
	"github.com/frankmutethia/Aurora-sub000/internal/payment"
	"github.com/frankmutethia/Aurora-sub000/internal/pricing"
	"github.com/frankmutethia/Aurora-sub000/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	Quote(ctx context.Context, vehicleID string, start, end time.Time, extras pricing.Extras) (pricing.Quote, error)
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error)
	ApplyStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
	ApplyPayment(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Booking, error)
	MarkOverdueInvoices(ctx context.Context) ([]domain.Booking, error)
}

type Cache interface {
	AcquireVehicleLock(ctx context.Context, vehicleID string, ttl time.Duration) (bool, error)
	ReleaseVehicleLock(ctx context.Context, vehicleID string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// SessionContext identifies the acting customer. It is always passed in
// explicitly; the service never reads ambient session state.
type SessionContext struct {
	UserID string
}

// DriverDetails are collected out-of-band in the driver-detail booking
// variant and denormalized into the booking's admin notes.
type DriverDetails struct {
	DateOfBirth   string `json:"date_of_birth"`
	LicenceNumber string `json:"licence_number"`
	Address       string `json:"address"`
}

type CreateBookingInput struct {
	Session         SessionContext
	VehicleID       string
	StartDate       time.Time
	EndDate         time.Time
	PickupLocation  string
	ReturnLocation  string
	Phone           string
	SpecialRequests string
	PromoCode       string
	Extras          pricing.Extras
	DriverDetails   *DriverDetails
	// PayNow selects the immediate-payment path; otherwise an invoice is
	// issued and payment is collected out-of-band.
	PayNow        bool
	PaymentMethod string
}

type BookingService struct {
	bookings       repository.BookingRepository
	vehicles       repository.VehicleRepository
	cache          Cache
	producer       Producer
	gateway        payment.Gateway
	log            logger.Logger
	bookingTopic   string
	notifTopic     string
	vehicleLockTTL time.Duration
	invoiceDue     time.Duration
	now            func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notifTopic = topic
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	vehicles repository.VehicleRepository,
	cache Cache,
	producer Producer,
	gateway payment.Gateway,
	log logger.Logger,
	bookingTopic string,
	vehicleLockTTL, invoiceDue time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:       bookings,
		vehicles:       vehicles,
		cache:          cache,
		producer:       producer,
		gateway:        gateway,
		log:            log,
		bookingTopic:   bookingTopic,
		vehicleLockTTL: vehicleLockTTL,
		invoiceDue:     invoiceDue,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Quote prices a prospective booking against the vehicle's current daily
// rate. Nothing is written.
func (s *BookingService) Quote(ctx context.Context, vehicleID string, start, end time.Time, extras pricing.Extras) (pricing.Quote, error) {
	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return pricing.Quote{}, err
	}
	return pricing.ComputeQuote(start, end, vehicle.DailyRate, extras)
}

// CreateBooking validates the input, prices the rental and appends exactly
// one booking record. The invoice path creates the booking as
// pending/invoice_sent; the immediate path collects payment first and
// creates it confirmed/paid. On any failure nothing is written.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.GetByID(ctx, input.VehicleID)
	if err != nil {
		return nil, err
	}

	quote, err := pricing.ComputeQuote(input.StartDate, input.EndDate, vehicle.DailyRate, input.Extras)
	if err != nil {
		return nil, err
	}

	locked := false
	if s.cache != nil {
		ok, err := s.cache.AcquireVehicleLock(ctx, input.VehicleID, s.vehicleLockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrVehicleUnavailable
		}
		locked = true
		defer func() {
			if locked {
				_ = s.cache.ReleaseVehicleLock(ctx, input.VehicleID)
			}
		}()
	}

	now := s.now()
	booking := &domain.Booking{
		ID:              uuid.NewString(),
		VehicleID:       input.VehicleID,
		UserID:          input.Session.UserID,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		PickupLocation:  input.PickupLocation,
		ReturnLocation:  input.ReturnLocation,
		Phone:           input.Phone,
		SpecialRequests: input.SpecialRequests,
		PromoCode:       input.PromoCode,
		TotalCost:       quote.Total,
		AdminNotes:      driverNotes(input.DriverDetails),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	eventType := "invoice_sent"
	if input.PayNow {
		result, err := s.gateway.SubmitPayment(ctx, input.PaymentMethod, quote.Total)
		if err != nil {
			return nil, err
		}
		if !result.Success {
			return nil, domain.ErrPaymentDeclined
		}
		booking.Status = domain.BookingStatusConfirmed
		booking.PaymentStatus = domain.PaymentStatusPaid
		eventType = "booking_confirmed"
	} else {
		booking.Status = domain.BookingStatusPending
		booking.PaymentStatus = domain.PaymentStatusInvoiceSent
		booking.InvoiceDueAt = now.Add(s.invoiceDue)
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_created", booking)
	if eventType != "booking_created" {
		s.publish(ctx, eventType, booking)
	}
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// ApplyStatus validates the move against the lifecycle graph before
// persisting it.
func (s *BookingService) ApplyStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := current.ApplyStatus(status, s.now()); err != nil {
		return nil, err
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	switch status {
	case domain.BookingStatusConfirmed:
		s.publish(ctx, "booking_confirmed", updated)
	case domain.BookingStatusCancelled:
		s.publish(ctx, "booking_cancelled", updated)
	}
	return updated, nil
}

// ApplyPayment validates the move against the payment graph before
// persisting it.
func (s *BookingService) ApplyPayment(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := current.ApplyPayment(status, s.now()); err != nil {
		return nil, err
	}

	updated, err := s.bookings.UpdatePayment(ctx, id, status)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MarkOverdueInvoices flips unpaid invoices past their due date to overdue
// and publishes a notification for each.
func (s *BookingService) MarkOverdueInvoices(ctx context.Context) ([]domain.Booking, error) {
	overdue, err := s.bookings.MarkOverdueBefore(ctx, s.now())
	if err != nil {
		return nil, err
	}
	for i := range overdue {
		s.publish(ctx, "invoice_overdue", &overdue[i])
	}
	return overdue, nil
}

func validateInput(input CreateBookingInput) error {
	if input.Session.UserID == "" || input.VehicleID == "" {
		return domain.ErrIncompleteBooking
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return domain.ErrIncompleteBooking
	}
	if strings.TrimSpace(input.Phone) == "" {
		return domain.ErrIncompleteBooking
	}
	if d := input.DriverDetails; d != nil {
		if d.DateOfBirth == "" || d.LicenceNumber == "" || d.Address == "" {
			return domain.ErrIncompleteBooking
		}
	}
	return nil
}

func driverNotes(d *DriverDetails) string {
	if d == nil {
		return ""
	}
	return "Driver details: DOB " + d.DateOfBirth + ", licence " + d.LicenceNumber + ", address " + d.Address
}

// publish is fire-and-forget: event delivery failures are logged, never
// surfaced to the booking flow.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:          eventType,
		BookingID:     booking.ID,
		VehicleID:     booking.VehicleID,
		UserID:        booking.UserID,
		Status:        string(booking.Status),
		PaymentStatus: string(booking.PaymentStatus),
		TotalCost:     booking.TotalCost,
		OccurredAt:    s.now(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		s.log.Warn("failed to publish booking event",
			logger.String("type", eventType),
			logger.String("booking_id", booking.ID),
			logger.Error(err),
		)
		return
	}
	if s.notifTopic != "" {
		if err := s.producer.Publish(ctx, s.notifTopic, booking.ID, event); err != nil {
			s.log.Warn("failed to publish notification event",
				logger.String("type", eventType),
				logger.String("booking_id", booking.ID),
				logger.Error(err),
			)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
