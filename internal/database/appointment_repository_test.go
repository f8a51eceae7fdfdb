package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magicdayconcierge/booking-backend/internal/models"
)

func TestAppointmentCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	date := mustKey(t, "2026-03-15")
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs("4210", "li-1", date.Time(), "magic-kingdom,epcot", "Standard").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(12, time.Now()))

	appt, err := repo.Create("4210", "li-1", date, "magic-kingdom,epcot", "Standard")
	require.NoError(t, err)

	assert.Equal(t, 12, appt.ID)
	assert.Equal(t, "4210", appt.ShopifyOrderID)
	assert.Equal(t, date, appt.Date)
	require.NotNil(t, appt.Type)
	assert.Equal(t, "Standard", *appt.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentCreate_EmptyTypeStoresNull(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	date := mustKey(t, "2026-03-15")
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs("4210", "li-1", date.Time(), "epcot", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(13, time.Now()))

	appt, err := repo.Create("4210", "li-1", date, "epcot", "")
	require.NoError(t, err)

	assert.Nil(t, appt.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentCreate_PropagatesError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	date := mustKey(t, "2026-03-15")
	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnError(assert.AnError)

	_, err := repo.Create("4210", "li-1", date, "epcot", "")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentListPaginated_Filters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments WHERE LOWER\(park\) = LOWER\(\$1\)`).
		WithArgs("epcot").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT id, shopify_order_id, line_item_id, date, park, attraction, type, created_at").
		WithArgs("epcot", 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "shopify_order_id", "line_item_id", "date", "park", "attraction", "type", "created_at",
		}).AddRow(1, "4210", "li-1", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), "epcot", nil, nil, time.Now()))

	appointments, total, err := repo.ListPaginated(1, 10,
		models.AppointmentFilters{Park: "epcot"}, models.AppointmentSort{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, appointments, 1)
	assert.Equal(t, "epcot", appointments[0].Park)
	assert.Nil(t, appointments[0].Attraction)
	assert.Nil(t, appointments[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentCountByDate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	date := mustKey(t, "2026-03-15")
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments WHERE date`).
		WithArgs(date.Time()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByDate(date)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentDistinctParks(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery("SELECT DISTINCT park").
		WillReturnRows(sqlmock.NewRows([]string{"park"}).
			AddRow("animal-kingdom").
			AddRow("epcot").
			AddRow("magic-kingdom"))

	parks, err := repo.DistinctParks()
	require.NoError(t, err)
	assert.Equal(t, []string{"animal-kingdom", "epcot", "magic-kingdom"}, parks)
	assert.NoError(t, mock.ExpectationsWereMet())
}
