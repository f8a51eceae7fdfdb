package models

import (
	"time"

	"github.com/magicdayconcierge/booking-backend/pkg/datekey"
)

// BlackoutDate represents a calendar date excluded from new bookings.
// Rows are created explicitly by an admin or implicitly by the intake
// auto-blackout rule, and only ever removed by an admin. The date column
// carries a unique constraint: at most one row per date.
type BlackoutDate struct {
	ID        int         `json:"id" db:"id"`
	Date      datekey.Key `json:"date" db:"date"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// BlackoutSortField is a sortable column of the blackout listing
type BlackoutSortField string

const (
	BlackoutSortDate BlackoutSortField = "date"
	BlackoutSortID   BlackoutSortField = "id"
)

// BlackoutFilters narrows the admin blackout listing
type BlackoutFilters struct {
	DateFrom datekey.Key // inclusive
	DateTo   datekey.Key // inclusive
	Year     int         // expands to a closed year interval when set
	Month    int         // with Year, narrows to a closed month interval
}

// BlackoutSort describes the requested ordering
type BlackoutSort struct {
	Field     BlackoutSortField
	Ascending bool
}

// CreateBlackoutDateRequest represents the admin create request
type CreateBlackoutDateRequest struct {
	Date string `json:"date" binding:"required"`
}
