package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magicdayconcierge/booking-backend/internal/database"
	"github.com/magicdayconcierge/booking-backend/internal/middleware"
	"github.com/magicdayconcierge/booking-backend/pkg/jwt"
)

func setupAppointmentRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock := newMockDB(t)
	handler := NewAppointmentHandler(database.NewAppointmentRepository(db), testLogger())
	jwtService := jwt.NewService("test-secret", time.Hour)

	router := gin.New()
	admin := router.Group("/api/v1", middleware.AuthMiddleware(jwtService))
	admin.GET("/appointments", handler.List)

	return router, mock, jwtService
}

func TestAppointmentList_RequiresAdmin(t *testing.T) {
	router, mock, _ := setupAppointmentRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentList(t *testing.T) {
	router, mock, jwtService := setupAppointmentRouter(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT id, shopify_order_id, line_item_id, date, park, attraction, type, created_at").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "shopify_order_id", "line_item_id", "date", "park", "attraction", "type", "created_at",
		}).AddRow(1, "4210", "li-1", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), "epcot", nil, "Standard", time.Now()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments?park=epcot", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, jwtService))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Appointments []struct {
			Date string `json:"date"`
			Park string `json:"park"`
			Type string `json:"type"`
		} `json:"appointments"`
		Pagination Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, "2026-03-15", resp.Appointments[0].Date)
	assert.Equal(t, "Standard", resp.Appointments[0].Type)
	assert.Equal(t, int64(1), resp.Pagination.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentList_BadPageParamsFallBack(t *testing.T) {
	router, mock, jwtService := setupAppointmentRouter(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT id, shopify_order_id, line_item_id, date, park, attraction, type, created_at").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "shopify_order_id", "line_item_id", "date", "park", "attraction", "type", "created_at",
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments?page=0&page_size=lots", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, jwtService))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Pagination Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, 25, resp.Pagination.PageSize)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentList_DegradesOnStoreFailure(t *testing.T) {
	router, mock, jwtService := setupAppointmentRouter(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments`).
		WillReturnError(assert.AnError)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, jwtService))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"appointments":[],"pagination":{"page":1,"page_size":25,"total":0,"total_pages":0}}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentList_Metadata(t *testing.T) {
	router, mock, jwtService := setupAppointmentRouter(t)

	mock.ExpectQuery("SELECT DISTINCT park").
		WillReturnRows(sqlmock.NewRows([]string{"park"}).AddRow("epcot").AddRow("magic-kingdom"))
	mock.ExpectQuery("SELECT DISTINCT type").
		WillReturnRows(sqlmock.NewRows([]string{"type"}).AddRow("Multi-Pass").AddRow("Standard"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments?metadata=true", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, jwtService))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"parks":["epcot","magic-kingdom"],"types":["Multi-Pass","Standard"]}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentList_BadDateFilter(t *testing.T) {
	router, mock, jwtService := setupAppointmentRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments?date_from=nope", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, jwtService))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
