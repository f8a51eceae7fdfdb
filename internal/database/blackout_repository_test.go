package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magicdayconcierge/booking-backend/internal/models"
	"github.com/magicdayconcierge/booking-backend/pkg/datekey"
)

func mustKey(t *testing.T, value string) datekey.Key {
	t.Helper()
	key, err := datekey.Parse(value)
	require.NoError(t, err)
	return key
}

func TestBlackoutListAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlackoutRepository(db)

	mock.ExpectQuery("SELECT id, date, created_at").
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "created_at"}).
			AddRow(1, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), time.Now()).
			AddRow(2, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), time.Now()))

	dates, err := repo.ListAll()
	require.NoError(t, err)

	require.Len(t, dates, 2)
	assert.Equal(t, mustKey(t, "2026-03-15"), dates[0].Date)
	assert.Equal(t, mustKey(t, "2026-04-01"), dates[1].Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlackoutListPaginated(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlackoutRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM blackout_dates`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(60))
	mock.ExpectQuery("SELECT id, date, created_at").
		WithArgs(25, 25).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "created_at"}).
			AddRow(30, time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), time.Now()))

	dates, total, err := repo.ListPaginated(2, 25, models.BlackoutFilters{}, models.BlackoutSort{})
	require.NoError(t, err)

	assert.Equal(t, int64(60), total)
	require.Len(t, dates, 1)
	assert.Equal(t, 30, dates[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlackoutListPaginated_YearMonthFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlackoutRepository(db)

	// year=2026 month=2 expands to the closed interval [02-01, 02-28]
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM blackout_dates WHERE date >= \$1 AND date <= \$2`).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT id, date, created_at").
		WithArgs(from, to, 25, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "created_at"}).
			AddRow(3, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), time.Now()))

	dates, total, err := repo.ListPaginated(1, 25,
		models.BlackoutFilters{Year: 2026, Month: 2}, models.BlackoutSort{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, dates, 1)
	assert.Equal(t, mustKey(t, "2026-02-14"), dates[0].Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlackoutCreate_New(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlackoutRepository(db)

	date := mustKey(t, "2026-03-15")
	mock.ExpectQuery("INSERT INTO blackout_dates").
		WithArgs(date.Time()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "created_at"}).
			AddRow(5, date.Time(), time.Now()))

	bd, err := repo.Create(date)
	require.NoError(t, err)

	assert.Equal(t, 5, bd.ID)
	assert.Equal(t, date, bd.Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlackoutCreate_ExistingReadsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlackoutRepository(db)

	date := mustKey(t, "2026-03-15")

	// ON CONFLICT DO NOTHING returns no row for an existing date
	mock.ExpectQuery("INSERT INTO blackout_dates").
		WithArgs(date.Time()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "created_at"}))
	mock.ExpectQuery("SELECT id, date, created_at").
		WithArgs(date.Time()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "created_at"}).
			AddRow(5, date.Time(), time.Now()))

	bd, err := repo.Create(date)
	require.NoError(t, err)

	assert.Equal(t, 5, bd.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlackoutGetByDate_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlackoutRepository(db)

	date := mustKey(t, "2026-03-15")
	mock.ExpectQuery("SELECT id, date, created_at").
		WithArgs(date.Time()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "created_at"}))

	bd, err := repo.GetByDate(date)
	assert.Nil(t, bd)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlackoutDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlackoutRepository(db)

	mock.ExpectExec("DELETE FROM blackout_dates").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlackoutDelete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlackoutRepository(db)

	mock.ExpectExec("DELETE FROM blackout_dates").
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(99), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
