package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/frankmutethia/Aurora-sub000/internal/domain"
	"github.com/frankmutethia/Aurora-sub000/internal/logger"
	"github.com/frankmutethia/Aurora-sub000/internal/payment"
	"github.com/frankmutethia/Aurora-sub000/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdatePayment(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) MarkOverdueBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, deadline)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) List(ctx context.Context) ([]domain.Vehicle, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockVehicleRepository) UpdateOdometer(ctx context.Context, id string, km int64) error {
	args := m.Called(ctx, id, km)
	return args.Error(0)
}

func (m *MockVehicleRepository) MarkServiced(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) AcquireVehicleLock(ctx context.Context, vehicleID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, vehicleID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) ReleaseVehicleLock(ctx context.Context, vehicleID string) error {
	args := m.Called(ctx, vehicleID)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) SubmitPayment(ctx context.Context, method string, amount float64) (payment.Result, error) {
	args := m.Called(ctx, method, amount)
	return args.Get(0).(payment.Result), args.Error(1)
}

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(bookings *MockBookingRepository, vehicles *MockVehicleRepository, cache Cache, producer Producer, gateway payment.Gateway) *BookingService {
	return NewBookingService(
		bookings,
		vehicles,
		cache,
		producer,
		gateway,
		logger.Nop(),
		"booking_events",
		time.Minute,
		14*24*time.Hour,
		WithClock(func() time.Time { return testNow }),
	)
}

func testVehicle() *domain.Vehicle {
	return &domain.Vehicle{
		ID:        "veh-1",
		Make:      "Toyota",
		Model:     "Corolla",
		Category:  domain.CategorySedan,
		Seats:     5,
		DailyRate: 100,
		Status:    domain.VehicleStatusAvailable,
	}
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		Session:        SessionContext{UserID: "user-1"},
		VehicleID:      "veh-1",
		StartDate:      time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC),
		PickupLocation: "Airport",
		ReturnLocation: "Downtown",
		Phone:          "+254700000001",
	}
}

func TestBookingService_CreateBooking_InvoicePath(t *testing.T) {
	bookings := &MockBookingRepository{}
	vehicles := &MockVehicleRepository{}
	cache := &MockCache{}
	producer := &MockProducer{}
	gateway := &MockGateway{}

	service := newTestService(bookings, vehicles, cache, producer, gateway)
	ctx := context.Background()

	vehicles.On("GetByID", ctx, "veh-1").Return(testVehicle(), nil).Once()
	cache.On("AcquireVehicleLock", ctx, "veh-1", time.Minute).Return(true, nil).Once()
	cache.On("ReleaseVehicleLock", ctx, "veh-1").Return(nil).Once()
	bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	producer.On("Publish", ctx, "booking_events", mock.Anything, mock.Anything).Return(nil)

	booking, err := service.CreateBooking(ctx, validInput())

	assert.NoError(t, err)
	assert.NotNil(t, booking)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, domain.BookingStatusPending, booking.Status)
	assert.Equal(t, domain.PaymentStatusInvoiceSent, booking.PaymentStatus)
	assert.Equal(t, 300.0, booking.TotalCost)
	assert.Equal(t, testNow.Add(14*24*time.Hour), booking.InvoiceDueAt)
	assert.Equal(t, testNow, booking.CreatedAt)
	assert.Equal(t, testNow, booking.UpdatedAt)

	bookings.AssertExpectations(t)
	cache.AssertExpectations(t)
	gateway.AssertNotCalled(t, "SubmitPayment")
}

func TestBookingService_CreateBooking_ImmediatePaymentPath(t *testing.T) {
	bookings := &MockBookingRepository{}
	vehicles := &MockVehicleRepository{}
	cache := &MockCache{}
	producer := &MockProducer{}
	gateway := &MockGateway{}

	service := newTestService(bookings, vehicles, cache, producer, gateway)
	ctx := context.Background()

	input := validInput()
	input.PayNow = true
	input.PaymentMethod = "card"
	input.Extras = pricing.Extras{GPS: true}

	vehicles.On("GetByID", ctx, "veh-1").Return(testVehicle(), nil).Once()
	cache.On("AcquireVehicleLock", ctx, "veh-1", time.Minute).Return(true, nil).Once()
	cache.On("ReleaseVehicleLock", ctx, "veh-1").Return(nil).Once()
	gateway.On("SubmitPayment", ctx, "card", 330.0).Return(payment.Result{Success: true, Reference: "pay-1"}, nil).Once()
	bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	producer.On("Publish", ctx, "booking_events", mock.Anything, mock.Anything).Return(nil)

	booking, err := service.CreateBooking(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, domain.PaymentStatusPaid, booking.PaymentStatus)
	assert.Equal(t, 330.0, booking.TotalCost)
	assert.True(t, booking.InvoiceDueAt.IsZero())

	gateway.AssertExpectations(t)
	bookings.AssertExpectations(t)
}

func TestBookingService_CreateBooking_PaymentDeclined(t *testing.T) {
	bookings := &MockBookingRepository{}
	vehicles := &MockVehicleRepository{}
	cache := &MockCache{}
	producer := &MockProducer{}
	gateway := &MockGateway{}

	service := newTestService(bookings, vehicles, cache, producer, gateway)
	ctx := context.Background()

	input := validInput()
	input.PayNow = true
	input.PaymentMethod = "card"

	vehicles.On("GetByID", ctx, "veh-1").Return(testVehicle(), nil).Once()
	cache.On("AcquireVehicleLock", ctx, "veh-1", time.Minute).Return(true, nil).Once()
	cache.On("ReleaseVehicleLock", ctx, "veh-1").Return(nil).Once()
	gateway.On("SubmitPayment", ctx, "card", 300.0).Return(payment.Result{Success: false}, nil).Once()

	booking, err := service.CreateBooking(ctx, input)

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrPaymentDeclined)
	bookings.AssertNotCalled(t, "Create")
}

func TestBookingService_CreateBooking_RequiredFields(t *testing.T) {
	service := newTestService(&MockBookingRepository{}, &MockVehicleRepository{}, nil, nil, &MockGateway{})
	ctx := context.Background()

	testCases := []struct {
		name   string
		mutate func(*CreateBookingInput)
	}{
		{"missing user", func(i *CreateBookingInput) { i.Session.UserID = "" }},
		{"missing vehicle", func(i *CreateBookingInput) { i.VehicleID = "" }},
		{"missing start date", func(i *CreateBookingInput) { i.StartDate = time.Time{} }},
		{"missing end date", func(i *CreateBookingInput) { i.EndDate = time.Time{} }},
		{"missing phone", func(i *CreateBookingInput) { i.Phone = "  " }},
		{"driver details without licence", func(i *CreateBookingInput) {
			i.DriverDetails = &DriverDetails{DateOfBirth: "1990-05-01", Address: "12 Moi Ave"}
		}},
		{"driver details without address", func(i *CreateBookingInput) {
			i.DriverDetails = &DriverDetails{DateOfBirth: "1990-05-01", LicenceNumber: "DL-884"}
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)

			booking, err := service.CreateBooking(ctx, input)

			assert.Nil(t, booking)
			assert.ErrorIs(t, err, domain.ErrIncompleteBooking)
		})
	}
}

func TestBookingService_CreateBooking_InvalidDateRange(t *testing.T) {
	bookings := &MockBookingRepository{}
	vehicles := &MockVehicleRepository{}

	service := newTestService(bookings, vehicles, nil, nil, &MockGateway{})
	ctx := context.Background()

	input := validInput()
	input.EndDate = input.StartDate

	vehicles.On("GetByID", ctx, "veh-1").Return(testVehicle(), nil).Once()

	booking, err := service.CreateBooking(ctx, input)

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
	bookings.AssertNotCalled(t, "Create")
}

func TestBookingService_CreateBooking_VehicleLocked(t *testing.T) {
	bookings := &MockBookingRepository{}
	vehicles := &MockVehicleRepository{}
	cache := &MockCache{}

	service := newTestService(bookings, vehicles, cache, nil, &MockGateway{})
	ctx := context.Background()

	vehicles.On("GetByID", ctx, "veh-1").Return(testVehicle(), nil).Once()
	cache.On("AcquireVehicleLock", ctx, "veh-1", time.Minute).Return(false, nil).Once()

	booking, err := service.CreateBooking(ctx, validInput())

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrVehicleUnavailable)
	bookings.AssertNotCalled(t, "Create")
}

func TestBookingService_CreateBooking_OverlapRejected(t *testing.T) {
	bookings := &MockBookingRepository{}
	vehicles := &MockVehicleRepository{}

	service := newTestService(bookings, vehicles, nil, nil, &MockGateway{})
	ctx := context.Background()

	vehicles.On("GetByID", ctx, "veh-1").Return(testVehicle(), nil).Once()
	bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(domain.ErrVehicleUnavailable).Once()

	booking, err := service.CreateBooking(ctx, validInput())

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrVehicleUnavailable)
}

func TestBookingService_CreateBooking_DriverDetailsDenormalized(t *testing.T) {
	bookings := &MockBookingRepository{}
	vehicles := &MockVehicleRepository{}

	service := newTestService(bookings, vehicles, nil, nil, &MockGateway{})
	ctx := context.Background()

	input := validInput()
	input.DriverDetails = &DriverDetails{
		DateOfBirth:   "1990-05-01",
		LicenceNumber: "DL-884",
		Address:       "12 Moi Ave",
	}

	vehicles.On("GetByID", ctx, "veh-1").Return(testVehicle(), nil).Once()
	bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()

	booking, err := service.CreateBooking(ctx, input)

	assert.NoError(t, err)
	assert.Contains(t, booking.AdminNotes, "DL-884")
	assert.Contains(t, booking.AdminNotes, "1990-05-01")
	assert.Contains(t, booking.AdminNotes, "12 Moi Ave")
}

func TestBookingService_CreateBooking_PublishFailureDoesNotFail(t *testing.T) {
	bookings := &MockBookingRepository{}
	vehicles := &MockVehicleRepository{}
	producer := &MockProducer{}

	service := newTestService(bookings, vehicles, nil, producer, &MockGateway{})
	ctx := context.Background()

	vehicles.On("GetByID", ctx, "veh-1").Return(testVehicle(), nil).Once()
	bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	producer.On("Publish", ctx, "booking_events", mock.Anything, mock.Anything).Return(errors.New("kafka down"))

	booking, err := service.CreateBooking(ctx, validInput())

	assert.NoError(t, err)
	assert.NotNil(t, booking)
}

func TestBookingService_ApplyStatus_ValidMove(t *testing.T) {
	bookings := &MockBookingRepository{}

	service := newTestService(bookings, &MockVehicleRepository{}, nil, nil, &MockGateway{})
	ctx := context.Background()

	current := &domain.Booking{ID: "bk-1", Status: domain.BookingStatusPending, PaymentStatus: domain.PaymentStatusInvoiceSent}
	updated := &domain.Booking{ID: "bk-1", Status: domain.BookingStatusConfirmed, PaymentStatus: domain.PaymentStatusInvoiceSent}

	bookings.On("GetByID", ctx, "bk-1").Return(current, nil).Once()
	bookings.On("UpdateStatus", ctx, "bk-1", domain.BookingStatusConfirmed).Return(updated, nil).Once()

	result, err := service.ApplyStatus(ctx, "bk-1", domain.BookingStatusConfirmed)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, result.Status)
	bookings.AssertExpectations(t)
}

func TestBookingService_ApplyStatus_PendingToCompletedRejected(t *testing.T) {
	bookings := &MockBookingRepository{}

	service := newTestService(bookings, &MockVehicleRepository{}, nil, nil, &MockGateway{})
	ctx := context.Background()

	current := &domain.Booking{ID: "bk-1", Status: domain.BookingStatusPending}
	bookings.On("GetByID", ctx, "bk-1").Return(current, nil).Once()

	result, err := service.ApplyStatus(ctx, "bk-1", domain.BookingStatusCompleted)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	bookings.AssertNotCalled(t, "UpdateStatus")
}

func TestBookingService_ApplyPayment_InvoiceToPaid(t *testing.T) {
	bookings := &MockBookingRepository{}

	service := newTestService(bookings, &MockVehicleRepository{}, nil, nil, &MockGateway{})
	ctx := context.Background()

	current := &domain.Booking{ID: "bk-1", Status: domain.BookingStatusPending, PaymentStatus: domain.PaymentStatusInvoiceSent}
	updated := &domain.Booking{ID: "bk-1", Status: domain.BookingStatusPending, PaymentStatus: domain.PaymentStatusPaid}

	bookings.On("GetByID", ctx, "bk-1").Return(current, nil).Once()
	bookings.On("UpdatePayment", ctx, "bk-1", domain.PaymentStatusPaid).Return(updated, nil).Once()

	result, err := service.ApplyPayment(ctx, "bk-1", domain.PaymentStatusPaid)

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, result.PaymentStatus)
}

func TestBookingService_ApplyPayment_PaidBackToInvoiceRejected(t *testing.T) {
	bookings := &MockBookingRepository{}

	service := newTestService(bookings, &MockVehicleRepository{}, nil, nil, &MockGateway{})
	ctx := context.Background()

	current := &domain.Booking{ID: "bk-1", PaymentStatus: domain.PaymentStatusPaid}
	bookings.On("GetByID", ctx, "bk-1").Return(current, nil).Once()

	result, err := service.ApplyPayment(ctx, "bk-1", domain.PaymentStatusInvoiceSent)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	bookings.AssertNotCalled(t, "UpdatePayment")
}

func TestBookingService_MarkOverdueInvoices(t *testing.T) {
	bookings := &MockBookingRepository{}
	producer := &MockProducer{}

	service := newTestService(bookings, &MockVehicleRepository{}, nil, producer, &MockGateway{})
	ctx := context.Background()

	overdue := []domain.Booking{
		{ID: "bk-1", PaymentStatus: domain.PaymentStatusOverdue},
		{ID: "bk-2", PaymentStatus: domain.PaymentStatusOverdue},
	}

	bookings.On("MarkOverdueBefore", ctx, testNow).Return(overdue, nil).Once()
	producer.On("Publish", ctx, "booking_events", mock.Anything, mock.Anything).Return(nil)

	result, err := service.MarkOverdueInvoices(ctx)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	producer.AssertNumberOfCalls(t, "Publish", 2)
}

func TestBookingService_Quote(t *testing.T) {
	vehicles := &MockVehicleRepository{}

	service := newTestService(&MockBookingRepository{}, vehicles, nil, nil, &MockGateway{})
	ctx := context.Background()

	vehicles.On("GetByID", ctx, "veh-1").Return(testVehicle(), nil).Once()

	q, err := service.Quote(ctx, "veh-1",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
		pricing.Extras{GPS: true})

	assert.NoError(t, err)
	assert.Equal(t, 3, q.Days)
	assert.Equal(t, 330.0, q.Total)
}
