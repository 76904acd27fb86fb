// Package catalog implements catalog filtering and pagination over an
// in-memory vehicle collection.
package catalog

import (
	"math"
	"strings"

	"github.com/frankmutethia/Aurora-sub000/internal/domain"
)

const (
	DefaultPageSize = 12
	// MaxPrice is the open-upper-bound sentinel for the daily rate filter.
	MaxPrice = 100000
)

// Criteria holds the optional catalog predicates. Zero values mean "no
// filter"; the sentinel "Any" on the enum fields is treated the same way.
type Criteria struct {
	Query        string  `form:"q" json:"q"`
	Category     string  `form:"category" json:"category"`
	Transmission string  `form:"transmission" json:"transmission"`
	FuelType     string  `form:"fuel_type" json:"fuel_type"`
	MinSeats     int     `form:"min_seats" json:"min_seats"`
	PriceMin     float64 `form:"price_min" json:"price_min"`
	PriceMax     float64 `form:"price_max" json:"price_max"`
	Page         int     `form:"page" json:"page"`
	PageSize     int     `form:"page_size" json:"page_size"`
}

type Result struct {
	Items      []domain.Vehicle `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
}

// Filter applies every active predicate conjunctively, then paginates.
// The requested page is clamped to [1, TotalPages]. Pure, no side effects.
func Filter(vehicles []domain.Vehicle, c Criteria) Result {
	matches := make([]domain.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if Matches(v, c) {
			matches = append(matches, v)
		}
	}

	pageSize := c.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(matches)
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	if totalPages < 1 {
		totalPages = 1
	}

	page := c.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Result{
		Items:      matches[start:end],
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Matches reports whether a single vehicle satisfies every active predicate.
func Matches(v domain.Vehicle, c Criteria) bool {
	if q := strings.TrimSpace(c.Query); q != "" {
		name := strings.ToLower(v.Make + " " + v.Model)
		if !strings.Contains(name, strings.ToLower(q)) {
			return false
		}
	}
	if active(c.Category) && string(v.Category) != c.Category {
		return false
	}
	if active(c.Transmission) && string(v.Transmission) != c.Transmission {
		return false
	}
	if active(c.FuelType) && string(v.FuelType) != c.FuelType {
		return false
	}
	if c.MinSeats > 0 && v.Seats < c.MinSeats {
		return false
	}
	if v.DailyRate < c.PriceMin {
		return false
	}
	upper := c.PriceMax
	if upper <= 0 {
		upper = MaxPrice
	}
	return v.DailyRate <= upper
}

func active(field string) bool {
	return field != "" && field != "Any"
}
