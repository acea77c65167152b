package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "dev-secret"

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Tickets      TicketsConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values. An empty DSN selects the
// in-memory store.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig locates the revoked token store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
}

// TicketsConfig tunes ticket listing.
type TicketsConfig struct {
	PageSize int
}

// NotificationConfig holds SMTP settings for outgoing mail. Mail is disabled
// when SMTPHost is empty.
type NotificationConfig struct {
	EmailFrom    string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	AppBaseURL   string
}

// Load reads configuration from the environment, after merging a .env file
// when one exists. Malformed numbers and booleans are reported, not ignored.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := &envReader{}
	cfg := &Config{
		App: AppConfig{
			Name:                  env.str("APP_NAME", "support-desk"),
			Env:                   env.str("APP_ENV", "development"),
			Host:                  env.str("APP_HOST", "0.0.0.0"),
			Port:                  env.str("APP_PORT", "8080"),
			Version:               env.str("APP_VERSION", "dev"),
			RequestTimeoutSeconds: env.int("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            env.str("POSTGRES_DSN", ""),
			MaxConns:       int32(env.int("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(env.int("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  env.bool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(env.int("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(env.int("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     env.str("REDIS_ADDR", "127.0.0.1:6379"),
			Password: env.str("REDIS_PASSWORD", ""),
			DB:       env.int("REDIS_DB", 0),
		},
		Logger: LoggerConfig{
			Level: env.str("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             env.str("AUTH_JWT_SECRET", defaultJWTSecret),
			AccessTokenTTLMinutes: env.int("AUTH_ACCESS_TOKEN_TTL_MINUTES", 24*60),
		},
		Tickets: TicketsConfig{
			PageSize: env.int("TICKETS_PAGE_SIZE", 10),
		},
		Notification: NotificationConfig{
			EmailFrom:    env.str("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			SMTPHost:     env.str("NOTIFY_SMTP_HOST", ""),
			SMTPPort:     env.int("NOTIFY_SMTP_PORT", 587),
			SMTPUsername: env.str("NOTIFY_SMTP_USERNAME", ""),
			SMTPPassword: env.str("NOTIFY_SMTP_PASSWORD", ""),
			AppBaseURL:   env.str("APP_BASE_URL", "http://localhost:3000"),
		},
	}
	if env.err != nil {
		return nil, env.err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.App.Env == "production" && c.Auth.JWTSecret == defaultJWTSecret {
		return errors.New("AUTH_JWT_SECRET must be set in production")
	}
	if c.Tickets.PageSize <= 0 {
		return fmt.Errorf("TICKETS_PAGE_SIZE must be positive, got %d", c.Tickets.PageSize)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return a.Host + ":" + a.Port
}

// RequestTimeout returns the per-request deadline, zero for none.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the bearer token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	if a.AccessTokenTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// MailEnabled reports whether SMTP delivery is configured.
func (n NotificationConfig) MailEnabled() bool {
	return n.SMTPHost != ""
}

// envReader reads typed variables and keeps the first parse error.
type envReader struct {
	err error
}

func (r *envReader) str(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func (r *envReader) int(key string, fallback int) int {
	raw := r.str(key, "")
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(key, raw, err)
		return fallback
	}
	return val
}

func (r *envReader) bool(key string, fallback bool) bool {
	raw := r.str(key, "")
	if raw == "" {
		return fallback
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		r.fail(key, raw, err)
		return fallback
	}
	return val
}

func (r *envReader) fail(key, raw string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
}
