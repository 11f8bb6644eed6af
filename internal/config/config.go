package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Storage drivers selectable through STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMongoDB  = "mongodb"
	DriverMemory   = "memory"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Database DatabaseConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Ledger   LedgerConfig
	CORS     CORSConfig
	Seed     SeedConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Name     string
}

type StorageConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// SMTPConfig holds outgoing mail configuration. An empty Host disables sending.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// LedgerConfig holds the attendance rules.
type LedgerConfig struct {
	Timezone     string
	Location     *time.Location
	HalfDayHours float64
	// LateAfter is the offset from local midnight after which a check-in is
	// late. Zero disables late marking.
	LateAfter time.Duration
	// ReminderInterval spaces the open-session reminder job. Zero disables it.
	ReminderInterval time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// SeedConfig points at an optional JSON staff list loaded at startup.
type SeedConfig struct {
	StaffFile string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		slog.Debug("No .env file found, using process environment")
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Name:     getEnv("APP_NAME", "Staff Ledger"),
	}

	config.Storage = StorageConfig{
		Driver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverPostgres)),
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "staff_ledger"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		AutoMigrate: autoMigrate,
	}

	config.MongoDB = MongoDBConfig{
		URI:      getEnv("MONGODB_URI", ""),
		Database: getEnv("MONGODB_DATABASE", "staff_ledger"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", ""),
		FromName: getEnv("SMTP_FROM_NAME", "Staff Ledger"),
	}

	// Ledger rules
	timezone := getEnv("LEDGER_TIMEZONE", "Africa/Kampala")
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_TIMEZONE: %w", err)
	}
	halfDayHours, err := strconv.ParseFloat(getEnv("LEDGER_HALF_DAY_HOURS", "4"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_HALF_DAY_HOURS: %w", err)
	}
	lateAfter, err := ParseTimeOfDay(getEnv("LEDGER_LATE_AFTER", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_LATE_AFTER: %w", err)
	}

	reminderInterval, err := time.ParseDuration(getEnv("LEDGER_REMINDER_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_REMINDER_INTERVAL: %w", err)
	}

	config.Ledger = LedgerConfig{
		Timezone:         timezone,
		Location:         location,
		HalfDayHours:     halfDayHours,
		LateAfter:        lateAfter,
		ReminderInterval: reminderInterval,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	config.Seed = SeedConfig{
		StaffFile: getEnv("STAFF_SEED_FILE", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverMongoDB:
		if c.MongoDB.URI == "" {
			return fmt.Errorf("MONGODB_URI is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Ledger.HalfDayHours <= 0 {
		return fmt.Errorf("LEDGER_HALF_DAY_HOURS must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ParseTimeOfDay parses "HH:MM" into an offset from midnight. Empty input
// yields zero.
func ParseTimeOfDay(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q", value)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
