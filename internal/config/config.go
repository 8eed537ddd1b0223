package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultPrintingKeywords mark issues that belong in the printing digest.
var DefaultPrintingKeywords = []string{"Printed", "Complimentary", "Proof"}

// Config aggregates runtime configuration for the reminder job and dashboard.
type Config struct {
	App      AppConfig
	Notion   NotionConfig
	Slack    SlackConfig
	Reminder ReminderConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	Timezone              string
}

// NotionConfig points the ticket store client at a database.
type NotionConfig struct {
	Token      string
	DatabaseID string
	BaseURL    string
	Version    string
	PageSize   int
}

// SlackConfig holds chat API credentials.
type SlackConfig struct {
	BotToken string
	BaseURL  string
}

// ReminderConfig drives aggregation and dispatch.
type ReminderConfig struct {
	AdminEmail                 string
	AdminName                  string
	RosterFile                 string
	RosterJSON                 string
	RouteDelegatedThroughAdmin bool
	IncludePersonalDigest      bool
	PrintingKeywords           []string
	// ScheduleMinutes runs reminders periodically from the dashboard; 0 disables it.
	ScheduleMinutes int
}

// PostgresConfig holds DB connection values for the optional run log.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values for the identity cache.
type RedisConfig struct {
	Addr               string
	Password           string
	DB                 int
	IdentityTTLMinutes int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines the dashboard admin gate.
type AuthConfig struct {
	AdminPassword         string
	AdminPasswordHash     string
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-reminder"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			Timezone:              getEnv("APP_TIMEZONE", "Asia/Karachi"),
		},
		Notion: NotionConfig{
			Token:      os.Getenv("NOTION_TOKEN"),
			DatabaseID: os.Getenv("NOTION_DATABASE_ID"),
			BaseURL:    getEnv("NOTION_API_URL", "https://api.notion.com"),
			Version:    getEnv("NOTION_VERSION", "2022-06-28"),
			PageSize:   getEnvAsInt("NOTION_PAGE_SIZE", 100),
		},
		Slack: SlackConfig{
			BotToken: os.Getenv("SLACK_BOT_TOKEN"),
			BaseURL:  getEnv("SLACK_API_URL", "https://slack.com/api"),
		},
		Reminder: ReminderConfig{
			AdminEmail:                 os.Getenv("ADMIN_EMAIL"),
			AdminName:                  os.Getenv("ADMIN_NAME"),
			RosterFile:                 os.Getenv("ROSTER_FILE"),
			RosterJSON:                 os.Getenv("NAMES"),
			RouteDelegatedThroughAdmin: getEnvAsBool("REMINDER_ROUTE_THROUGH_ADMIN", true),
			IncludePersonalDigest:      getEnvAsBool("REMINDER_PERSONAL_DIGEST", true),
			PrintingKeywords:           getEnvAsList("REMINDER_PRINTING_KEYWORDS", DefaultPrintingKeywords),
			ScheduleMinutes:            getEnvAsInt("REMINDER_SCHEDULE_MINUTES", 0),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 4)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 1)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:               os.Getenv("REDIS_ADDR"),
			Password:           os.Getenv("REDIS_PASSWORD"),
			DB:                 redisDB,
			IdentityTTLMinutes: getEnvAsInt("IDENTITY_CACHE_TTL_MINUTES", 24*60),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			AdminPassword:         os.Getenv("ADMIN_PASSWORD"),
			AdminPasswordHash:     os.Getenv("ADMIN_PASSWORD_HASH"),
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
	}

	return cfg, nil
}

// ValidateReminder reports settings the reminder job cannot run without.
func (c *Config) ValidateReminder() error {
	var errs []error
	if c.Notion.Token == "" {
		errs = append(errs, errors.New("NOTION_TOKEN is required"))
	}
	if c.Notion.DatabaseID == "" {
		errs = append(errs, errors.New("NOTION_DATABASE_ID is required"))
	}
	if c.Slack.BotToken == "" {
		errs = append(errs, errors.New("SLACK_BOT_TOKEN is required"))
	}
	if c.Reminder.AdminEmail == "" {
		errs = append(errs, errors.New("ADMIN_EMAIL is required"))
	}
	if c.Reminder.RosterFile == "" && c.Reminder.RosterJSON == "" {
		errs = append(errs, errors.New("ROSTER_FILE or NAMES is required"))
	}
	return errors.Join(errs...)
}

// ValidateDashboard reports settings the dashboard cannot serve without.
func (c *Config) ValidateDashboard() error {
	var errs []error
	if c.Notion.Token == "" {
		errs = append(errs, errors.New("NOTION_TOKEN is required"))
	}
	if c.Notion.DatabaseID == "" {
		errs = append(errs, errors.New("NOTION_DATABASE_ID is required"))
	}
	if c.Auth.AdminPassword == "" && c.Auth.AdminPasswordHash == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required"))
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

// Location resolves the timezone used for submission and resolution stamps.
// Unknown zones fall back to UTC.
func (a AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Schedule returns the dashboard's reminder interval, or 0 when disabled.
func (r ReminderConfig) Schedule() time.Duration {
	if r.ScheduleMinutes <= 0 {
		return 0
	}
	return time.Duration(r.ScheduleMinutes) * time.Minute
}

// IdentityTTL returns how long resolved chat identities stay cached.
func (r RedisConfig) IdentityTTL() time.Duration {
	if r.IdentityTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(r.IdentityTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return append([]string(nil), fallback...)
	}
	items := []string{}
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
