package repository

import (
	"context"
	"errors"
	"time"

	"github.com/frankmutethia/Aurora-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
	UpdatePayment(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Booking, error)
	MarkOverdueBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, vehicle_id, user_id, start_date, end_date, pickup_location, return_location, phone, special_requests, promo_code, status, payment_status, total_cost, admin_notes, invoice_due_at, created_at, updated_at`

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.VehicleID, &b.UserID, &b.StartDate, &b.EndDate, &b.PickupLocation, &b.ReturnLocation, &b.Phone, &b.SpecialRequests, &b.PromoCode, &b.Status, &b.PaymentStatus, &b.TotalCost, &b.AdminNotes, &b.InvoiceDueAt, &b.CreatedAt, &b.UpdatedAt)
}

// Create appends the booking record. Inside the same transaction it rejects
// date ranges overlapping a live booking for the vehicle, so no partial
// write can double-book.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return &domain.PersistenceError{Op: "bookings.create", Err: err}
	}
	defer tx.Rollback(ctx)

	var overlapping int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM bookings
		WHERE vehicle_id=$1
		  AND status NOT IN ($2, $3)
		  AND start_date < $4 AND end_date > $5`,
		booking.VehicleID, domain.BookingStatusCancelled, domain.BookingStatusCompleted,
		booking.EndDate, booking.StartDate).Scan(&overlapping); err != nil {
		return &domain.PersistenceError{Op: "bookings.create", Err: err}
	}
	if overlapping > 0 {
		return domain.ErrVehicleUnavailable
	}

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (id, vehicle_id, user_id, start_date, end_date, pickup_location, return_location, phone, special_requests, promo_code, status, payment_status, total_cost, admin_notes, invoice_due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`,
		booking.ID, booking.VehicleID, booking.UserID, booking.StartDate, booking.EndDate,
		booking.PickupLocation, booking.ReturnLocation, booking.Phone, booking.SpecialRequests,
		booking.PromoCode, booking.Status, booking.PaymentStatus, booking.TotalCost,
		booking.AdminNotes, booking.InvoiceDueAt).
		Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return &domain.PersistenceError{Op: "bookings.create", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return &domain.PersistenceError{Op: "bookings.create", Err: err}
	}
	return nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.PersistenceError{Op: "bookings.get", Err: err}
	}
	return &b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "bookings.list_by_user", Err: err}
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, &domain.PersistenceError{Op: "bookings.list_by_user", Err: err}
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "bookings.list_by_user", Err: err}
	}
	return bookings, nil
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2 RETURNING `+bookingColumns, status, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.PersistenceError{Op: "bookings.update_status", Err: err}
	}
	return &b, nil
}

func (r *PGBookingRepository) UpdatePayment(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET payment_status=$1, updated_at=now() WHERE id=$2 RETURNING `+bookingColumns, status, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.PersistenceError{Op: "bookings.update_payment", Err: err}
	}
	return &b, nil
}

// MarkOverdueBefore flips invoice_sent bookings whose invoice due date has
// passed to overdue and returns them for notification.
func (r *PGBookingRepository) MarkOverdueBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET payment_status=$1, updated_at=now()
		WHERE payment_status=$2 AND invoice_due_at <= $3
		RETURNING `+bookingColumns,
		domain.PaymentStatusOverdue, domain.PaymentStatusInvoiceSent, deadline)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "bookings.mark_overdue", Err: err}
	}
	defer rows.Close()

	var overdue []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, &domain.PersistenceError{Op: "bookings.mark_overdue", Err: err}
		}
		overdue = append(overdue, b)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "bookings.mark_overdue", Err: err}
	}
	return overdue, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
