// Package pricing computes rental quotes from dates, daily rate and extras.
package pricing

import (
	"math"
	"time"

	"github.com/frankmutethia/Aurora-sub000/internal/domain"
)

// Per-rental-day and per-rental-week surcharges.
const (
	GPSRatePerDay        = 10
	ChildSeatRatePerDay  = 8
	AddDriverRatePerWeek = 20
)

type Extras struct {
	GPS       bool `json:"gps"`
	ChildSeat bool `json:"child_seat"`
	AddDriver bool `json:"add_driver"`
}

type Quote struct {
	Days        int     `json:"days"`
	Base        float64 `json:"base"`
	ExtrasTotal float64 `json:"extras_total"`
	Total       float64 `json:"total"`
}

// ComputeQuote derives the rental price for the given period.
//
// When either timestamp is unset the quote is simply zero (the "not yet
// filled in" state), not an error. When both are set, the end must be
// strictly after the start or ErrInvalidRange is returned. Days are billed
// per started 24h block; the additional-driver surcharge is billed per
// started week.
func ComputeQuote(start, end time.Time, dailyRate float64, extras Extras) (Quote, error) {
	if start.IsZero() || end.IsZero() {
		return Quote{}, nil
	}
	if !end.After(start) {
		return Quote{}, domain.ErrInvalidRange
	}

	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	weeks := int(math.Ceil(float64(days) / 7))

	perDay := 0.0
	if extras.GPS {
		perDay += GPSRatePerDay
	}
	if extras.ChildSeat {
		perDay += ChildSeatRatePerDay
	}
	perWeek := 0.0
	if extras.AddDriver {
		perWeek = AddDriverRatePerWeek
	}

	base := float64(days) * dailyRate
	extrasTotal := perDay*float64(days) + perWeek*float64(weeks)

	return Quote{
		Days:        days,
		Base:        base,
		ExtrasTotal: extrasTotal,
		Total:       base + extrasTotal,
	}, nil
}
