package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/magicdayconcierge/booking-backend/internal/models"
	"github.com/magicdayconcierge/booking-backend/pkg/datekey"
)

// AppointmentRepository handles database operations for the appointments
// table. Appointments are append-only: there are no update or delete
// queries here, rows are the permanent record of paid bookings.
type AppointmentRepository struct {
	db DB
}

// NewAppointmentRepository creates a new AppointmentRepository
func NewAppointmentRepository(db DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create inserts one appointment. Errors propagate to the caller: a failed
// appointment write must abort the enclosing webhook step for that day,
// since it represents money already collected.
func (r *AppointmentRepository) Create(orderID, lineItemID string, date datekey.Key, park, productType string) (*models.Appointment, error) {
	query := `
		INSERT INTO appointments (shopify_order_id, line_item_id, date, park, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	appt := &models.Appointment{
		ShopifyOrderID: orderID,
		LineItemID:     lineItemID,
		Date:           date,
		Park:           park,
	}
	if productType != "" {
		appt.Type = &productType
	}

	err := r.db.QueryRow(query, orderID, lineItemID, date.Time(), park, appt.Type).
		Scan(&appt.ID, &appt.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", translateError(err))
	}

	return appt, nil
}

// ListPaginated retrieves one page of appointments with filters and sort
// applied, plus the total row count across all pages.
func (r *AppointmentRepository) ListPaginated(page, pageSize int, filters models.AppointmentFilters, sort models.AppointmentSort) ([]models.Appointment, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 25
	}

	where, args := buildAppointmentWhere(filters)

	var total int64
	countQuery := `SELECT COUNT(*) FROM appointments` + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, shopify_order_id, line_item_id, date, park, attraction, type, created_at
		FROM appointments%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, where, appointmentOrderBy(sort), len(args)+1, len(args)+2)

	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch appointments: %w", err)
	}
	defer rows.Close()

	appointments, err := r.scanAppointments(rows)
	if err != nil {
		return nil, 0, err
	}

	return appointments, total, nil
}

// CountByDate returns the number of appointments on an exact date across
// all orders. Used only by the auto-blackout rule.
func (r *AppointmentRepository) CountByDate(date datekey.Key) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM appointments WHERE date = $1`, date.Time()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments for %s: %w", date, err)
	}
	return count, nil
}

// DistinctParks returns the sorted, de-duplicated park values present in
// the ledger, for the admin filter dropdown.
func (r *AppointmentRepository) DistinctParks() ([]string, error) {
	return r.distinctColumn("park")
}

// DistinctTypes returns the sorted, de-duplicated product types present in
// the ledger, for the admin filter dropdown.
func (r *AppointmentRepository) DistinctTypes() ([]string, error) {
	return r.distinctColumn("type")
}

func (r *AppointmentRepository) distinctColumn(column string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT %s
		FROM appointments
		WHERE %s IS NOT NULL AND %s != ''
		ORDER BY %s
	`, column, column, column, column)

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch distinct %s values: %w", column, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s value: %w", column, err)
		}
		values = append(values, v)
	}

	return values, rows.Err()
}

// buildAppointmentWhere translates filters into a WHERE clause. The search
// term is OR'd across every text column; the remaining filters AND.
func buildAppointmentWhere(filters models.AppointmentFilters) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if filters.Park != "" {
		args = append(args, filters.Park)
		clauses = append(clauses, fmt.Sprintf("LOWER(park) = LOWER($%d)", len(args)))
	}
	if filters.Type != "" {
		args = append(args, filters.Type)
		clauses = append(clauses, fmt.Sprintf("LOWER(type) = LOWER($%d)", len(args)))
	}
	if filters.DateFrom != "" {
		args = append(args, filters.DateFrom.Time())
		clauses = append(clauses, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filters.DateTo != "" {
		args = append(args, filters.DateTo.Time())
		clauses = append(clauses, fmt.Sprintf("date <= $%d", len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(shopify_order_id ILIKE $%d OR line_item_id ILIKE $%d OR park ILIKE $%d OR attraction ILIKE $%d OR type ILIKE $%d)",
			n, n, n, n, n))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// appointmentOrderBy returns a safe ORDER BY expression; default is most
// recent booking date first.
func appointmentOrderBy(sort models.AppointmentSort) string {
	field := "date"
	switch sort.Field {
	case models.AppointmentSortPark:
		field = "park"
	case models.AppointmentSortType:
		field = "type"
	case models.AppointmentSortID:
		field = "id"
	}
	if sort.Ascending {
		return field + " ASC"
	}
	return field + " DESC"
}

// scanAppointments scans multiple appointments from rows
func (r *AppointmentRepository) scanAppointments(rows *sql.Rows) ([]models.Appointment, error) {
	appointments := []models.Appointment{}

	for rows.Next() {
		var appt models.Appointment
		var attraction sql.NullString
		var productType sql.NullString

		err := rows.Scan(
			&appt.ID, &appt.ShopifyOrderID, &appt.LineItemID, &appt.Date,
			&appt.Park, &attraction, &productType, &appt.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}

		if attraction.Valid {
			appt.Attraction = &attraction.String
		}
		if productType.Valid {
			appt.Type = &productType.String
		}

		appointments = append(appointments, appt)
	}

	return appointments, rows.Err()
}
