package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
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
	"github.com/magicdayconcierge/booking-backend/internal/services"
)

const testWebhookSecret = "test-webhook-secret"

func setupWebhookRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock := newMockDB(t)
	logger := testLogger()

	intake := services.NewBookingIntakeService(
		database.NewAppointmentRepository(db),
		database.NewBlackoutRepository(db),
		3,
		"Multi-Pass",
		logger,
	)
	handler := NewWebhookHandler(intake, testWebhookSecret, logger)

	router := gin.New()
	router.POST("/api/v1/checkout/hook", handler.CheckoutHook)
	return router, mock
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func webhookBody(t *testing.T, bookingDates string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"id": 4210,
		"line_items": []map[string]interface{}{{
			"properties": []map[string]string{
				{"name": "bookingDates", "value": bookingDates},
				{"name": "lineItemID", "value": "li-1"},
				{"name": "productType", "value": "Standard"},
			},
		}},
	})
	require.NoError(t, err)
	return body
}

func TestCheckoutHook_InvalidSignature(t *testing.T) {
	router, mock := setupWebhookRouter(t)

	body := webhookBody(t, "2026-03-15,epcot")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/hook", bytes.NewReader(body))
	req.Header.Set("X-Shopify-Hmac-Sha256", "bogus")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_signature", resp.Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutHook_MissingSignature(t *testing.T) {
	router, mock := setupWebhookRouter(t)

	body := webhookBody(t, "2026-03-15,epcot")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/hook", bytes.NewReader(body))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutHook_Success(t *testing.T) {
	router, mock := setupWebhookRouter(t)

	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments WHERE date`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	body := webhookBody(t, "2026-03-15,magic-kingdom,epcot")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/hook", bytes.NewReader(body))
	req.Header.Set("X-Shopify-Hmac-Sha256", sign(body))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutHook_MissingProperties(t *testing.T) {
	router, mock := setupWebhookRouter(t)

	body, err := json.Marshal(map[string]interface{}{
		"id":         4210,
		"line_items": []map[string]interface{}{{"properties": []map[string]string{{"name": "other", "value": "x"}}}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/hook", bytes.NewReader(body))
	req.Header.Set("X-Shopify-Hmac-Sha256", sign(body))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutHook_DayFailureStillReturns200(t *testing.T) {
	router, mock := setupWebhookRouter(t)

	// First day insert fails, second succeeds; the platform still gets 200
	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnError(assert.AnError)
	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(2, time.Now()))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments WHERE date`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	body := webhookBody(t, "2026-03-15,epcot|2026-03-16,epcot")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/hook", bytes.NewReader(body))
	req.Header.Set("X-Shopify-Hmac-Sha256", sign(body))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
