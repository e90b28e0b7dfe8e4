package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	SLA          SLAConfig
	Cache        CacheConfig
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

// PostgresConfig holds DB connection values. An empty DSN selects the in-memory store.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr keeps sessions in memory.
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
	JWTSecret                   string
	AccessTokenTTLMinutes       int
	PasswordResetTTLMinutes     int
	EmailVerificationTTLMinutes int
	BcryptCost                  int
	RequireEmailVerification    bool
}

// SLAConfig holds response and resolution targets in hours per priority.
type SLAConfig struct {
	HighResponseHours     int
	HighResolutionHours   int
	MediumResponseHours   int
	MediumResolutionHours int
	LowResponseHours      int
	LowResolutionHours    int
}

// CacheConfig tunes the ticket list cache.
type CacheConfig struct {
	TicketListTTLSeconds int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

var defaults = map[string]any{
	"APP_NAME":                            "ict-helpdesk",
	"APP_ENV":                             "development",
	"APP_HOST":                            "0.0.0.0",
	"APP_PORT":                            "8080",
	"APP_VERSION":                         "dev",
	"HTTP_REQUEST_TIMEOUT_SECONDS":        30,
	"POSTGRES_DSN":                        "",
	"POSTGRES_MAX_CONNS":                  10,
	"POSTGRES_MIN_CONNS":                  2,
	"POSTGRES_RUN_MIGRATIONS":             true,
	"POSTGRES_CONN_MAX_IDLE_SECONDS":      30,
	"POSTGRES_CONN_MAX_LIFE_SECONDS":      300,
	"REDIS_ADDR":                          "",
	"REDIS_PASSWORD":                      "",
	"REDIS_DB":                            0,
	"LOG_LEVEL":                           "info",
	"AUTH_JWT_SECRET":                     "dev-secret",
	"AUTH_ACCESS_TOKEN_TTL_MINUTES":       60,
	"AUTH_PASSWORD_RESET_TTL_MINUTES":     30,
	"AUTH_EMAIL_VERIFICATION_TTL_MINUTES": 1440,
	"AUTH_BCRYPT_COST":                    12,
	"AUTH_REQUIRE_EMAIL_VERIFICATION":     true,
	"SLA_HIGH_RESPONSE_HOURS":             1,
	"SLA_HIGH_RESOLUTION_HOURS":           4,
	"SLA_MEDIUM_RESPONSE_HOURS":           4,
	"SLA_MEDIUM_RESOLUTION_HOURS":         24,
	"SLA_LOW_RESPONSE_HOURS":              8,
	"SLA_LOW_RESOLUTION_HOURS":            48,
	"CACHE_TICKET_LIST_TTL_SECONDS":       60,
	"NOTIFY_EMAIL_FROM":                   "helpdesk@wajir.go.ke",
	"NOTIFY_WEBHOOK_URL":                  "",
}

// Load reads configuration from a .env file and environment variables, applying defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  v.GetString("APP_NAME"),
			Env:                   v.GetString("APP_ENV"),
			Host:                  v.GetString("APP_HOST"),
			Port:                  v.GetString("APP_PORT"),
			Version:               v.GetString("APP_VERSION"),
			RequestTimeoutSeconds: v.GetInt("HTTP_REQUEST_TIMEOUT_SECONDS"),
		},
		Postgres: PostgresConfig{
			DSN:            v.GetString("POSTGRES_DSN"),
			MaxConns:       v.GetInt32("POSTGRES_MAX_CONNS"),
			MinConns:       v.GetInt32("POSTGRES_MIN_CONNS"),
			RunMigrations:  v.GetBool("POSTGRES_RUN_MIGRATIONS"),
			ConnMaxIdleSec: v.GetInt32("POSTGRES_CONN_MAX_IDLE_SECONDS"),
			ConnMaxLifeSec: v.GetInt32("POSTGRES_CONN_MAX_LIFE_SECONDS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Auth: AuthConfig{
			JWTSecret:                   v.GetString("AUTH_JWT_SECRET"),
			AccessTokenTTLMinutes:       v.GetInt("AUTH_ACCESS_TOKEN_TTL_MINUTES"),
			PasswordResetTTLMinutes:     v.GetInt("AUTH_PASSWORD_RESET_TTL_MINUTES"),
			EmailVerificationTTLMinutes: v.GetInt("AUTH_EMAIL_VERIFICATION_TTL_MINUTES"),
			BcryptCost:                  v.GetInt("AUTH_BCRYPT_COST"),
			RequireEmailVerification:    v.GetBool("AUTH_REQUIRE_EMAIL_VERIFICATION"),
		},
		SLA: SLAConfig{
			HighResponseHours:     v.GetInt("SLA_HIGH_RESPONSE_HOURS"),
			HighResolutionHours:   v.GetInt("SLA_HIGH_RESOLUTION_HOURS"),
			MediumResponseHours:   v.GetInt("SLA_MEDIUM_RESPONSE_HOURS"),
			MediumResolutionHours: v.GetInt("SLA_MEDIUM_RESOLUTION_HOURS"),
			LowResponseHours:      v.GetInt("SLA_LOW_RESPONSE_HOURS"),
			LowResolutionHours:    v.GetInt("SLA_LOW_RESOLUTION_HOURS"),
		},
		Cache: CacheConfig{
			TicketListTTLSeconds: v.GetInt("CACHE_TICKET_LIST_TTL_SECONDS"),
		},
		Notification: NotificationConfig{
			EmailFrom:  v.GetString("NOTIFY_EMAIL_FROM"),
			WebhookURL: v.GetString("NOTIFY_WEBHOOK_URL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must not be empty"))
	}
	if c.App.Env == "production" && c.Auth.JWTSecret == "dev-secret" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must be changed in production"))
	}
	if c.Auth.AccessTokenTTLMinutes <= 0 {
		errs = append(errs, errors.New("AUTH_ACCESS_TOKEN_TTL_MINUTES must be positive"))
	}
	if c.Postgres.MinConns > c.Postgres.MaxConns {
		errs = append(errs, errors.New("POSTGRES_MIN_CONNS must not exceed POSTGRES_MAX_CONNS"))
	}
	for name, hours := range map[string][2]int{
		"HIGH":   {c.SLA.HighResponseHours, c.SLA.HighResolutionHours},
		"MEDIUM": {c.SLA.MediumResponseHours, c.SLA.MediumResolutionHours},
		"LOW":    {c.SLA.LowResponseHours, c.SLA.LowResolutionHours},
	} {
		if hours[0] <= 0 || hours[1] < hours[0] {
			errs = append(errs, fmt.Errorf("SLA_%s hours must be positive with resolution >= response", name))
		}
	}
	return errors.Join(errs...)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// PasswordResetTTL returns how long reset tokens stay valid.
func (a AuthConfig) PasswordResetTTL() time.Duration {
	return time.Duration(a.PasswordResetTTLMinutes) * time.Minute
}

// EmailVerificationTTL returns how long verification tokens stay valid.
func (a AuthConfig) EmailVerificationTTL() time.Duration {
	return time.Duration(a.EmailVerificationTTLMinutes) * time.Minute
}

// TicketListTTL returns the ticket list cache lifetime.
func (c CacheConfig) TicketListTTL() time.Duration {
	return time.Duration(c.TicketListTTLSeconds) * time.Second
}
