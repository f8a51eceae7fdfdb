package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/magicdayconcierge/booking-backend/internal/models"
	"github.com/magicdayconcierge/booking-backend/pkg/datekey"
)

// BlackoutRepository handles database operations for the blackout_dates table
type BlackoutRepository struct {
	db DB
}

// NewBlackoutRepository creates a new BlackoutRepository
func NewBlackoutRepository(db DB) *BlackoutRepository {
	return &BlackoutRepository{db: db}
}

// ListAll retrieves every blackout date, ordered by date ascending. This
// feeds the public calendar; the working set is small so there is no
// pagination.
func (r *BlackoutRepository) ListAll() ([]models.BlackoutDate, error) {
	query := `
		SELECT id, date, created_at
		FROM blackout_dates
		ORDER BY date
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blackout dates: %w", err)
	}
	defer rows.Close()

	return r.scanBlackoutDates(rows)
}

// ListPaginated retrieves one page of blackout dates with filters and sort
// applied, plus the total row count across all pages.
func (r *BlackoutRepository) ListPaginated(page, pageSize int, filters models.BlackoutFilters, sort models.BlackoutSort) ([]models.BlackoutDate, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 25
	}

	where, args := buildBlackoutWhere(filters)

	var total int64
	countQuery := `SELECT COUNT(*) FROM blackout_dates` + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count blackout dates: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, date, created_at
		FROM blackout_dates%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, where, blackoutOrderBy(sort), len(args)+1, len(args)+2)

	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch blackout dates: %w", err)
	}
	defer rows.Close()

	dates, err := r.scanBlackoutDates(rows)
	if err != nil {
		return nil, 0, err
	}

	return dates, total, nil
}

// Create inserts a blackout date. Creation is idempotent: inserting a date
// that already exists is a no-op and returns the existing record, which is
// race-free under concurrent writers (ON CONFLICT, not check-then-insert).
func (r *BlackoutRepository) Create(date datekey.Key) (*models.BlackoutDate, error) {
	insert := `
		INSERT INTO blackout_dates (date)
		VALUES ($1)
		ON CONFLICT (date) DO NOTHING
		RETURNING id, date, created_at
	`

	bd := &models.BlackoutDate{}
	err := r.db.QueryRow(insert, date.Time()).Scan(&bd.ID, &bd.Date, &bd.CreatedAt)
	if err == nil {
		return bd, nil
	}
	if err != sql.ErrNoRows {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("blackout date %s: %w", date, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create blackout date: %w", err)
	}

	// No row returned: the date was already present. Read it back.
	existing, err := r.GetByDate(date)
	if err != nil {
		return nil, fmt.Errorf("failed to read existing blackout date: %w", err)
	}
	return existing, nil
}

// GetByDate retrieves the blackout record for an exact date
func (r *BlackoutRepository) GetByDate(date datekey.Key) (*models.BlackoutDate, error) {
	query := `
		SELECT id, date, created_at
		FROM blackout_dates
		WHERE date = $1
	`

	bd := &models.BlackoutDate{}
	err := r.db.QueryRow(query, date.Time()).Scan(&bd.ID, &bd.Date, &bd.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("blackout date %s: %w", date, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch blackout date: %w", err)
	}
	return bd, nil
}

// Delete removes a blackout date by id
func (r *BlackoutRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM blackout_dates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blackout date: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete blackout date: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("blackout date %d: %w", id, ErrNotFound)
	}

	return nil
}

// buildBlackoutWhere translates filters into a WHERE clause. An explicit
// year (optionally narrowed by month) expands to a closed date interval and
// takes precedence over the raw from/to bounds.
func buildBlackoutWhere(filters models.BlackoutFilters) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	dateFrom, dateTo := filters.DateFrom, filters.DateTo
	if filters.Year != 0 {
		dateFrom, dateTo = datekey.MonthInterval(filters.Year, filters.Month)
	}

	if dateFrom != "" {
		args = append(args, dateFrom.Time())
		clauses = append(clauses, fmt.Sprintf("date >= $%d", len(args)))
	}
	if dateTo != "" {
		args = append(args, dateTo.Time())
		clauses = append(clauses, fmt.Sprintf("date <= $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// blackoutOrderBy returns a safe ORDER BY expression. Sort input is an
// enum, never raw user text, but default on anything unexpected anyway.
func blackoutOrderBy(sort models.BlackoutSort) string {
	field := "date"
	if sort.Field == models.BlackoutSortID {
		field = "id"
	}
	if sort.Ascending {
		return field + " ASC"
	}
	return field + " DESC"
}

// scanBlackoutDates scans multiple blackout dates from rows
func (r *BlackoutRepository) scanBlackoutDates(rows *sql.Rows) ([]models.BlackoutDate, error) {
	dates := []models.BlackoutDate{}

	for rows.Next() {
		var bd models.BlackoutDate
		if err := rows.Scan(&bd.ID, &bd.Date, &bd.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan blackout date: %w", err)
		}
		dates = append(dates, bd)
	}

	return dates, rows.Err()
}
