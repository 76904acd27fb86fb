package repository

import (
	"context"
	"errors"

	"github.com/frankmutethia/Aurora-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VehicleRepository interface {
	List(ctx context.Context) ([]domain.Vehicle, error)
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)
	UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error
	UpdateOdometer(ctx context.Context, id string, km int64) error
	MarkServiced(ctx context.Context, id string) error
}

type PGVehicleRepository struct {
	db *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) VehicleRepository {
	return &PGVehicleRepository{db: db}
}

const vehicleColumns = `id, make, model, year, category, transmission, fuel_type, seats, daily_rate, status, current_odometer, last_service_odometer, service_threshold_km, created_at, updated_at`

func scanVehicle(row pgx.Row, v *domain.Vehicle) error {
	return row.Scan(&v.ID, &v.Make, &v.Model, &v.Year, &v.Category, &v.Transmission, &v.FuelType, &v.Seats, &v.DailyRate, &v.Status, &v.CurrentOdometer, &v.LastServiceOdometer, &v.ServiceThresholdKm, &v.CreatedAt, &v.UpdatedAt)
}

func (r *PGVehicleRepository) List(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := r.db.Query(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY make, model`)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "vehicles.list", Err: err}
	}
	defer rows.Close()

	vehicles := make([]domain.Vehicle, 0)
	for rows.Next() {
		var v domain.Vehicle
		if err := scanVehicle(rows, &v); err != nil {
			return nil, &domain.PersistenceError{Op: "vehicles.list", Err: err}
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "vehicles.list", Err: err}
	}
	return vehicles, nil
}

func (r *PGVehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	row := r.db.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id=$1`, id)
	var v domain.Vehicle
	if err := scanVehicle(row, &v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.PersistenceError{Op: "vehicles.get", Err: err}
	}
	return &v, nil
}

func (r *PGVehicleRepository) UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error {
	cmd, err := r.db.Exec(ctx, `UPDATE vehicles SET status=$1, updated_at=now() WHERE id=$2`, status, id)
	if err != nil {
		return &domain.PersistenceError{Op: "vehicles.update_status", Err: err}
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGVehicleRepository) UpdateOdometer(ctx context.Context, id string, km int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE vehicles SET current_odometer=$1, updated_at=now() WHERE id=$2 AND current_odometer <= $1`, km, id)
	if err != nil {
		return &domain.PersistenceError{Op: "vehicles.update_odometer", Err: err}
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGVehicleRepository) MarkServiced(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE vehicles SET last_service_odometer=current_odometer, status=$1, updated_at=now() WHERE id=$2`, domain.VehicleStatusAvailable, id)
	if err != nil {
		return &domain.PersistenceError{Op: "vehicles.mark_serviced", Err: err}
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ VehicleRepository = (*PGVehicleRepository)(nil)
