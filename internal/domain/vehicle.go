package domain

import "time"

type VehicleCategory string

const (
	CategorySUV       VehicleCategory = "SUV"
	CategorySedan     VehicleCategory = "Sedan"
	CategoryHatchback VehicleCategory = "Hatchback"
	CategoryVan       VehicleCategory = "Van"
)

type Transmission string

const (
	TransmissionAutomatic Transmission = "Automatic"
	TransmissionManual    Transmission = "Manual"
	TransmissionCVT       Transmission = "CVT"
)

type FuelType string

const (
	FuelPetrol   FuelType = "Petrol"
	FuelDiesel   FuelType = "Diesel"
	FuelHybrid   FuelType = "Hybrid"
	FuelElectric FuelType = "Electric"
)

type VehicleStatus string

const (
	VehicleStatusAvailable        VehicleStatus = "Available"
	VehicleStatusBooked           VehicleStatus = "Booked"
	VehicleStatusInUse            VehicleStatus = "InUse"
	VehicleStatusUnderMaintenance VehicleStatus = "UnderMaintenance"
	VehicleStatusDisabled         VehicleStatus = "Disabled"
)

func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleStatusAvailable, VehicleStatusBooked, VehicleStatusInUse,
		VehicleStatusUnderMaintenance, VehicleStatusDisabled:
		return true
	}
	return false
}

type Vehicle struct {
	ID                  string          `json:"id"`
	Make                string          `json:"make"`
	Model               string          `json:"model"`
	Year                int             `json:"year"`
	Category            VehicleCategory `json:"category"`
	Transmission        Transmission    `json:"transmission"`
	FuelType            FuelType        `json:"fuel_type"`
	Seats               int             `json:"seats"`
	DailyRate           float64         `json:"daily_rate"`
	Status              VehicleStatus   `json:"status"`
	CurrentOdometer     int64           `json:"current_odometer"`
	LastServiceOdometer int64           `json:"last_service_odometer"`
	ServiceThresholdKm  int64           `json:"service_threshold_km"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ServiceDue reports whether the vehicle has run past its service interval.
func (v Vehicle) ServiceDue() bool {
	return v.CurrentOdometer-v.LastServiceOdometer >= v.ServiceThresholdKm
}
