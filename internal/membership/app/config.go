package app

import (
	"os"
	"strconv"
	"time"

	"github.com/simplereimbursement/membership/internal/membership/domain"
	"github.com/simplereimbursement/membership/pkg/jwtx"
)

type Config struct {
	Issuer         string // Optional: issuer claim for session tokens (default: membership)
	SessionKeyFile string // Optional: path to Ed25519 PKCS#8 PEM; empty generates an ephemeral key
	SessionTTL     time.Duration

	DatabaseFile string // Optional: path to SQLite database file (default: ./membership.db)

	AppURL        string        // Public frontend base URL used in invitation links
	InvitationTTL time.Duration // How long invitations stay acceptable (default: 7 days)

	// SMTP delivery. Leaving Host empty disables email entirely.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// Billing provider. Leaving APIKey empty switches to the noop provider,
	// for self-hosted installs that manage licensing out of band.
	BillingAPIKey        string
	BillingWebhookSecret string
	BillingAdminPriceID  string
	BillingUserPriceID   string

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Seat reclamation interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("MEMBERSHIP_ISSUER", "membership"),
		SessionKeyFile: os.Getenv("MEMBERSHIP_SESSION_KEY_FILE"),
		SessionTTL:     getEnvDurationOrDefault("MEMBERSHIP_SESSION_TTL", jwtx.DefaultSessionTTL),

		DatabaseFile: getEnvOrDefault("MEMBERSHIP_DATABASE_FILE", "membership.db"),

		AppURL:        getEnvOrDefault("APP_URL", "http://localhost:3000"),
		InvitationTTL: getEnvDurationOrDefault("INVITATION_TTL", domain.DefaultInvitationTTL),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", "no-reply@simplereimbursement.example"),
		SMTPFromName: getEnvOrDefault("SMTP_FROM_NAME", "SimpleReimbursement"),

		BillingAPIKey:        os.Getenv("BILLING_API_KEY"),
		BillingWebhookSecret: os.Getenv("BILLING_WEBHOOK_SECRET"),
		BillingAdminPriceID:  os.Getenv("BILLING_ADMIN_PRICE_ID"),
		BillingUserPriceID:   os.Getenv("BILLING_USER_PRICE_ID"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
