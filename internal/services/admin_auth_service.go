package services

import (
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/magicdayconcierge/booking-backend/internal/config"
	"github.com/magicdayconcierge/booking-backend/pkg/jwt"
)

// ErrInvalidCredentials is returned for any failed login attempt. The
// message never says whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AdminSession is a successful login result
type AdminSession struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminAuthService exchanges the configured admin credentials for a
// signed session token. The portal has exactly one admin identity, held
// in configuration as an email and a bcrypt password hash.
type AdminAuthService struct {
	cfg        config.AuthConfig
	jwtService *jwt.Service
	logger     *logrus.Logger
}

// NewAdminAuthService creates the auth service
func NewAdminAuthService(cfg config.AuthConfig, jwtService *jwt.Service, logger *logrus.Logger) *AdminAuthService {
	return &AdminAuthService{
		cfg:        cfg,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login validates the credentials and issues a session token
func (s *AdminAuthService) Login(email, password string) (*AdminSession, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if s.cfg.AdminEmail == "" || s.cfg.AdminPasswordHash == "" {
		s.logger.Error("Admin credentials are not configured")
		return nil, ErrInvalidCredentials
	}

	if email != strings.ToLower(s.cfg.AdminEmail) {
		// Burn a bcrypt comparison so a wrong email costs the same
		// time as a wrong password.
		_ = bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)); err != nil {
		s.logger.WithField("email", email).Warn("Failed admin login attempt")
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(email)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("email", email).Info("Admin logged in")

	return &AdminSession{
		Token:     token,
		Email:     email,
		ExpiresAt: time.Now().Add(s.cfg.TokenExpiry),
	}, nil
}
