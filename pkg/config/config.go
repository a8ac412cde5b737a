package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	apperrors "shipping-system/pkg/errors"
)

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
	// TrackingBaseURL is the public tracking page linked from shipment emails.
	TrackingBaseURL string
}

type PostgresConfig struct {
	DSN string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type EmailConfig struct {
	ResendAPIKey string
	ResendURL    string
	From         string
	Timeout      time.Duration
}

type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	APIURL        string
	Timeout       time.Duration
}

// StorageConfig places uploaded photos and documents on local disk. PublicURL
// is the prefix of the links stored with their metadata.
type StorageConfig struct {
	Path          string
	PublicURL     string
	MaxUploadSize string
}

type BrokerConfig struct {
	AMQPURL  string
	Exchange string
}

type AuthConfig struct {
	// JWTSecret of the hosted auth provider. Empty disables token checks.
	JWTSecret string
}

type DispatcherConfig struct {
	PollInterval time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration
}

type CacheConfig struct {
	IdempotencyTTL time.Duration
	// IdempotencyPendingTTL caps how long an unfinished request holds its key.
	IdempotencyPendingTTL time.Duration
	InsightsTTL           time.Duration
}

type Config struct {
	Server     ServerConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Email      EmailConfig
	WhatsApp   WhatsAppConfig
	Storage    StorageConfig
	Broker     BrokerConfig
	Auth       AuthConfig
	Dispatcher DispatcherConfig
	Cache      CacheConfig
	LogLevel   string
}

func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded.")
	}

	return &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ShutdownTimeout: getDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			TrackingBaseURL: getEnv("TRACKING_BASE_URL", "https://chrisdanenterprises.com/tracking"),
		},
		Postgres: PostgresConfig{
			DSN: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			ResendURL:    getEnv("RESEND_API_URL", "https://api.resend.com/emails"),
			From:         getEnv("EMAIL_FROM", "Chrisdan Enterprises <noreply@chrisdanenterprises.com>"),
			Timeout:      getDuration("EMAIL_TIMEOUT", 15*time.Second),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   getEnv("WHATSAPP_ACCESS_TOKEN", ""),
			PhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			APIURL:        getEnv("WHATSAPP_API_URL", "https://graph.facebook.com/v18.0"),
			Timeout:       getDuration("WHATSAPP_TIMEOUT", 15*time.Second),
		},
		Storage: StorageConfig{
			Path:          getEnv("STORAGE_PATH", "./uploads"),
			PublicURL:     getEnv("STORAGE_PUBLIC_URL", "/uploads"),
			MaxUploadSize: getEnv("MAX_UPLOAD_SIZE", "10M"),
		},
		Broker: BrokerConfig{
			AMQPURL:  getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "notifications_fanout"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
		Dispatcher: DispatcherConfig{
			PollInterval: getDuration("DISPATCHER_POLL_INTERVAL", 5*time.Second),
			MaxAttempts:  getInt("DISPATCHER_MAX_ATTEMPTS", 5),
			RetryBackoff: getDuration("DISPATCHER_RETRY_BACKOFF", 30*time.Second),
		},
		Cache: CacheConfig{
			IdempotencyTTL:        getDuration("IDEMPOTENCY_TTL", 24*time.Hour),
			IdempotencyPendingTTL: getDuration("IDEMPOTENCY_PENDING_TTL", 30*time.Second),
			InsightsTTL:           getDuration("INSIGHTS_CACHE_TTL", time.Minute),
		},
		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}
}

// Validate reports missing backend credentials as a configuration error.
func (c *Config) Validate() error {
	if c.Postgres.DSN == "" {
		return apperrors.NewConfigurationError("database configuration missing: DATABASE_URL is not set")
	}
	if c.Dispatcher.MaxAttempts < 1 {
		return apperrors.NewConfigurationError("DISPATCHER_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: %s=%q is not an integer, using %d", key, raw, fallback)
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: %s=%q is not a duration, using %s", key, raw, fallback)
		return fallback
	}
	return v
}
