package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending     PaymentStatus = "payment_pending"
	PaymentStatusInvoiceSent PaymentStatus = "invoice_sent"
	PaymentStatusPaid        PaymentStatus = "paid"
	PaymentStatusOverdue     PaymentStatus = "overdue"
	PaymentStatusRefunded    PaymentStatus = "refunded"
)

// statusTransitions is the allowed booking status graph. completed and
// cancelled are terminal.
var statusTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:  {BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusInProgress: {BookingStatusCompleted},
	BookingStatusCompleted:  {},
	BookingStatusCancelled:  {},
}

// paymentTransitions is the allowed payment status graph. An overdue invoice
// can still be settled; refunded is terminal.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:     {PaymentStatusInvoiceSent},
	PaymentStatusInvoiceSent: {PaymentStatusPaid, PaymentStatusOverdue},
	PaymentStatusOverdue:     {PaymentStatusPaid},
	PaymentStatusPaid:        {PaymentStatusRefunded},
	PaymentStatusRefunded:    {},
}

func CanTransitionStatus(from, to BookingStatus) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func CanTransitionPayment(from, to PaymentStatus) bool {
	for _, s := range paymentTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Booking struct {
	ID              string        `json:"id"`
	VehicleID       string        `json:"vehicle_id"`
	UserID          string        `json:"user_id"`
	StartDate       time.Time     `json:"start_date"`
	EndDate         time.Time     `json:"end_date"`
	PickupLocation  string        `json:"pickup_location"`
	ReturnLocation  string        `json:"return_location"`
	Phone           string        `json:"phone"`
	SpecialRequests string        `json:"special_requests,omitempty"`
	PromoCode       string        `json:"promo_code,omitempty"`
	Status          BookingStatus `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	TotalCost       float64       `json:"total_cost"`
	AdminNotes      string        `json:"admin_notes,omitempty"`
	InvoiceDueAt    time.Time     `json:"invoice_due_at"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// ApplyStatus moves the booking to a new status, validating the move against
// the status graph. On success only updated_at is touched.
func (b *Booking) ApplyStatus(to BookingStatus, now time.Time) error {
	if !CanTransitionStatus(b.Status, to) {
		return &TransitionError{From: string(b.Status), To: string(to)}
	}
	b.Status = to
	b.UpdatedAt = now
	return nil
}

// ApplyPayment moves the booking to a new payment status, validating the move
// against the payment graph.
func (b *Booking) ApplyPayment(to PaymentStatus, now time.Time) error {
	if !CanTransitionPayment(b.PaymentStatus, to) {
		return &TransitionError{From: string(b.PaymentStatus), To: string(to)}
	}
	b.PaymentStatus = to
	b.UpdatedAt = now
	return nil
}
