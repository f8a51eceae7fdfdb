package models

import (
	"time"

	"github.com/magicdayconcierge/booking-backend/pkg/datekey"
)

// Appointment represents one confirmed booking day from a paid order.
// Rows are written only by the checkout webhook and never updated or
// deleted; they are the historical record of money already collected.
// Park holds a comma-joined list when one line item books multiple parks
// for the same day.
type Appointment struct {
	ID             int         `json:"id" db:"id"`
	ShopifyOrderID string      `json:"shopify_order_id" db:"shopify_order_id"`
	LineItemID     string      `json:"line_item_id" db:"line_item_id"`
	Date           datekey.Key `json:"date" db:"date"`
	Park           string      `json:"park" db:"park"`
	Attraction     *string     `json:"attraction,omitempty" db:"attraction"`
	Type           *string     `json:"type,omitempty" db:"type"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
}

// AppointmentSortField is a sortable column of the appointment listing
type AppointmentSortField string

const (
	AppointmentSortDate AppointmentSortField = "date"
	AppointmentSortPark AppointmentSortField = "park"
	AppointmentSortType AppointmentSortField = "type"
	AppointmentSortID   AppointmentSortField = "id"
)

// AppointmentFilters narrows the admin appointment listing
type AppointmentFilters struct {
	Park     string      // case-insensitive exact match
	Type     string      // case-insensitive exact match
	DateFrom datekey.Key // inclusive
	DateTo   datekey.Key // inclusive
	Search   string      // case-insensitive substring, OR'd across text columns
}

// AppointmentSort describes the requested ordering
type AppointmentSort struct {
	Field     AppointmentSortField
	Ascending bool
}
