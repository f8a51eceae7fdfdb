package database

import (
	"fmt"
	"strings"

	"github.com/magicdayconcierge/booking-backend/internal/models"
	"github.com/magicdayconcierge/booking-backend/pkg/datekey"
)

// WaitingListRepository handles database operations for the
// waiting_list_entries table
type WaitingListRepository struct {
	db DB
}

// NewWaitingListRepository creates a new WaitingListRepository
func NewWaitingListRepository(db DB) *WaitingListRepository {
	return &WaitingListRepository{db: db}
}

// WaitingListDay is one (date, park) pair to insert for a signup
type WaitingListDay struct {
	Date datekey.Key
	Park string
}

// CreateBatch inserts one entry per requested day/park pair in a single
// statement.
func (r *WaitingListRepository) CreateBatch(name, email string, days []WaitingListDay) error {
	if len(days) == 0 {
		return fmt.Errorf("no waiting list days provided")
	}

	var placeholders []string
	var args []interface{}
	for _, day := range days {
		args = append(args, name, email, day.Date.Time(), day.Park)
		n := len(args)
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d)", n-3, n-2, n-1, n))
	}

	query := `
		INSERT INTO waiting_list_entries (name, email, date, park)
		VALUES ` + strings.Join(placeholders, ", ")

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to create waiting list entries: %w", err)
	}

	return nil
}

// List retrieves every waiting list entry, newest signup first
func (r *WaitingListRepository) List() ([]models.WaitingListEntry, error) {
	query := `
		SELECT id, name, email, date, park, created_at
		FROM waiting_list_entries
		ORDER BY id DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch waiting list: %w", err)
	}
	defer rows.Close()

	entries := []models.WaitingListEntry{}
	for rows.Next() {
		var entry models.WaitingListEntry
		err := rows.Scan(&entry.ID, &entry.Name, &entry.Email, &entry.Date, &entry.Park, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan waiting list entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Delete removes a waiting list entry by id
func (r *WaitingListRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM waiting_list_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete waiting list entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete waiting list entry: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("waiting list entry %d: %w", id, ErrNotFound)
	}

	return nil
}
