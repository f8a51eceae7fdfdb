package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Shopify  ShopifyConfig
	Email    EmailConfig
	Booking  BookingConfig
	CORS     CORSConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// AuthConfig holds the admin session gate configuration. The portal has a
// single admin identity: a bcrypt hash of its password is configured here
// and login exchanges the password for a signed access token.
type AuthConfig struct {
	JWTSecret         string
	TokenExpiry       time.Duration
	AdminEmail        string
	AdminPasswordHash string
}

// ShopifyConfig holds commerce platform configuration
type ShopifyConfig struct {
	StoreDomain     string // e.g. my-store.myshopify.com
	StorefrontToken string
	WebhookSecret   string // shared HMAC secret for the checkout webhook
	APIVersion      string
}

// EmailConfig holds the outbound email provider configuration.
// In dev mode no mail is sent; messages are logged instead.
type EmailConfig struct {
	Mode        string // "dev" or "production"
	APIURL      string
	APIKey      string
	FromAddress string
}

// BookingConfig holds the booking business rules
type BookingConfig struct {
	HorizonDays           int    // selectable window beyond today
	AutoBlackoutThreshold int    // same-day appointments that trigger a blackout
	ExemptProductType     string // product type excluded from the auto-blackout rule
	MaxParksPerDay        int    // parks selectable per booked day
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", ""),
			TokenExpiry:       time.Duration(getEnvAsInt("JWT_TOKEN_EXPIRY", 3600)) * time.Second,
			AdminEmail:        getEnv("ADMIN_EMAIL", ""),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Shopify: ShopifyConfig{
			StoreDomain:     getEnv("SHOPIFY_STORE_DOMAIN", ""),
			StorefrontToken: getEnv("SHOPIFY_STOREFRONT_ACCESS_TOKEN", ""),
			WebhookSecret:   getEnv("SHOPIFY_HOOK_HMAC", ""),
			APIVersion:      getEnv("SHOPIFY_API_VERSION", "2024-10"),
		},
		Email: EmailConfig{
			Mode:        getEnv("EMAIL_MODE", "dev"),
			APIURL:      getEnv("EMAIL_API_URL", "https://api.resend.com/emails"),
			APIKey:      getEnv("EMAIL_API_KEY", ""),
			FromAddress: getEnv("EMAIL_FROM_ADDRESS", "concierge@example.com"),
		},
		Booking: BookingConfig{
			HorizonDays:           getEnvAsInt("BOOKING_HORIZON_DAYS", 180),
			AutoBlackoutThreshold: getEnvAsInt("AUTO_BLACKOUT_THRESHOLD", 3),
			ExemptProductType:     getEnv("AUTO_BLACKOUT_EXEMPT_TYPE", "Multi-Pass"),
			MaxParksPerDay:        getEnvAsInt("MAX_PARKS_PER_DAY", 2),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Shopify.WebhookSecret == "" {
		return fmt.Errorf("SHOPIFY_HOOK_HMAC is required")
	}

	if c.Server.Environment == "production" {
		if c.Auth.AdminPasswordHash == "" {
			return fmt.Errorf("ADMIN_PASSWORD_HASH is required in production")
		}
		if c.Shopify.StoreDomain == "" || c.Shopify.StorefrontToken == "" {
			return fmt.Errorf("SHOPIFY_STORE_DOMAIN and SHOPIFY_STOREFRONT_ACCESS_TOKEN are required in production")
		}
	}

	if c.Email.Mode == "production" && c.Email.APIKey == "" {
		return fmt.Errorf("EMAIL_API_KEY is required when EMAIL_MODE is production")
	}

	if c.Booking.HorizonDays <= 0 {
		return fmt.Errorf("BOOKING_HORIZON_DAYS must be positive")
	}
	if c.Booking.AutoBlackoutThreshold <= 0 {
		return fmt.Errorf("AUTO_BLACKOUT_THRESHOLD must be positive")
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
