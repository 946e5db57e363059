package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config is the application configuration, loaded from the environment
// with optional .env files.
type Config struct {
	Environment string
	Port        string

	// Database. Empty DSN selects the in-memory store (development only).
	PostgresDSN string

	// JWT
	JWTSecret string

	// Workflow tunables
	InviteValidity    time.Duration // how long an application invite stays live
	PresenceThreshold time.Duration // heartbeat age below which a user counts as online

	// External collaborators
	DocumentServiceURL   string
	PaymentServiceURL    string
	CreditCheckURL       string
	NotificationURL      string
	PaymentWebhookSecret string
	CreditWebhookSecret  string

	// Lease document storage (S3-compatible)
	S3Region       string
	S3Bucket       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	DocumentURLTTL time.Duration

	// CORS
	AllowedOrigins []string

	Debug bool
}

// Load reads configuration from the environment. A .env file matching
// the environment is loaded first if present; real env vars win.
func Load() *Config {
	env := getEnv("ENVIRONMENT", "development")
	switch env {
	case "production":
		_ = godotenv.Load(".env.production")
	default:
		_ = godotenv.Load(".env.local", ".env")
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "3000"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-in-production"),

		InviteValidity:    getEnvDuration("INVITE_VALIDITY", 72*time.Hour),
		PresenceThreshold: getEnvDuration("PRESENCE_THRESHOLD", 90*time.Second),

		DocumentServiceURL:   strings.TrimSpace(os.Getenv("DOCUMENT_SERVICE_URL")),
		PaymentServiceURL:    strings.TrimSpace(os.Getenv("PAYMENT_SERVICE_URL")),
		CreditCheckURL:       strings.TrimSpace(os.Getenv("CREDIT_CHECK_URL")),
		NotificationURL:      strings.TrimSpace(os.Getenv("NOTIFICATION_URL")),
		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		CreditWebhookSecret:  os.Getenv("CREDIT_WEBHOOK_SECRET"),

		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		DocumentURLTTL: getEnvDuration("DOCUMENT_URL_TTL", 15*time.Minute),

		Debug: getEnvBool("DEBUG", false),
	}

	origins := getEnv("ALLOWED_ORIGINS", "*")
	if origins == "*" {
		cfg.AllowedOrigins = []string{"*"}
	} else {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	}

	if cfg.IsProduction() {
		cfg.Debug = false
	}
	return cfg
}

var (
	cached *Config
	once   sync.Once
)

// GetCached returns the process-wide cached Config.
func GetCached() *Config {
	once.Do(func() { cached = Load() })
	return cached
}

// Validate checks the configuration for fatal misconfiguration.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.IsProduction() {
		if c.JWTSecret == "" || c.JWTSecret == "dev-secret-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN must be set in production")
		}
	}
	if c.InviteValidity <= 0 {
		return fmt.Errorf("INVITE_VALIDITY must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool  { return c.Environment == "production" }
func (c *Config) IsDevelopment() bool { return c.Environment == "development" }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}
