package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magicdayconcierge/booking-backend/internal/config"
	"github.com/magicdayconcierge/booking-backend/internal/services"
	"github.com/magicdayconcierge/booking-backend/pkg/jwt"
)

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("open sesame"), bcrypt.MinCost)
	require.NoError(t, err)

	jwtService := jwt.NewService("test-secret", time.Hour)
	authService := services.NewAdminAuthService(config.AuthConfig{
		JWTSecret:         "test-secret",
		TokenExpiry:       time.Hour,
		AdminEmail:        "admin@example.com",
		AdminPasswordHash: string(hash),
	}, jwtService, testLogger())
	handler := NewAuthHandler(authService, testLogger())

	router := gin.New()
	router.POST("/api/v1/auth/login", handler.Login)
	return router
}

func TestLogin_Success(t *testing.T) {
	router := setupAuthRouter(t)

	body := bytes.NewBufferString(`{"email":"admin@example.com","password":"open sesame"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var session services.AdminSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, "admin@example.com", session.Email)
	assert.NotEmpty(t, session.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	router := setupAuthRouter(t)

	body := bytes.NewBufferString(`{"email":"admin@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_credentials", resp.Error)
}

func TestLogin_Validation(t *testing.T) {
	router := setupAuthRouter(t)

	for _, body := range []string{
		`{}`,
		`{"email":"not-an-email","password":"x"}`,
		`{"email":"admin@example.com"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}
