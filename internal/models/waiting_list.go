package models

import (
	"time"

	"github.com/magicdayconcierge/booking-backend/pkg/datekey"
)

// WaitingListEntry is one (date, park) pair a blocked visitor asked to be
// notified about. Entries are created by the public form and managed by
// admins; they carry no foreign keys, the date value is the only link to
// blackout and appointment records.
type WaitingListEntry struct {
	ID        int         `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Email     string      `json:"email" db:"email"`
	Date      datekey.Key `json:"date" db:"date"`
	Park      string      `json:"park" db:"park"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// WaitingListDay is one requested day/park pair in the signup form
type WaitingListDay struct {
	Date string `json:"date" binding:"required"`
	Park string `json:"park" binding:"required"`
}

// CreateWaitingListRequest represents the public signup form submission
type CreateWaitingListRequest struct {
	Name  string           `json:"name" binding:"required"`
	Email string           `json:"email" binding:"required,email"`
	Days  []WaitingListDay `json:"days" binding:"required,min=1,dive"`
}
