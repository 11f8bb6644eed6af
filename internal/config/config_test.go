package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "Africa/Kampala", cfg.Ledger.Location.String())
	assert.Equal(t, 4.0, cfg.Ledger.HalfDayHours)
	assert.Zero(t, cfg.Ledger.LateAfter)
	assert.Equal(t, 24*time.Hour, cfg.Ledger.ReminderInterval)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
}

func TestLoad_LedgerOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LEDGER_TIMEZONE", "UTC")
	t.Setenv("LEDGER_HALF_DAY_HOURS", "3.5")
	t.Setenv("LEDGER_LATE_AFTER", "08:30")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.UTC, cfg.Ledger.Location)
	assert.Equal(t, 3.5, cfg.Ledger.HalfDayHours)
	assert.Equal(t, 8*time.Hour+30*time.Minute, cfg.Ledger.LateAfter)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "APP_PORT", "eighty"},
		{"bad timezone", "LEDGER_TIMEZONE", "Mars/Olympus"},
		{"bad late cutoff", "LEDGER_LATE_AFTER", "8am"},
		{"bad half day", "LEDGER_HALF_DAY_HOURS", "half"},
		{"unknown driver", "STORAGE_DRIVER", "sqlite"},
		{"bad reminder interval", "LEDGER_REMINDER_INTERVAL", "daily"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_DriverRequirements(t *testing.T) {
	base := Config{
		JWT:    JWTConfig{Secret: "s", AccessExpiration: "1h"},
		Ledger: LedgerConfig{HalfDayHours: 4},
	}

	pg := base
	pg.Storage.Driver = DriverPostgres
	assert.EqualError(t, pg.Validate(), "DB_PASSWORD is required")
	pg.Database.Password = "secret"
	assert.NoError(t, pg.Validate())

	mg := base
	mg.Storage.Driver = DriverMongoDB
	assert.EqualError(t, mg.Validate(), "MONGODB_URI is required")
	mg.MongoDB.URI = "mongodb://localhost:27017"
	assert.NoError(t, mg.Validate())

	noSecret := base
	noSecret.Storage.Driver = DriverMemory
	noSecret.JWT.Secret = ""
	assert.EqualError(t, noSecret.Validate(), "JWT_SECRET_KEY is required")
}

func TestDatabaseURL(t *testing.T) {
	cfg := Config{Database: DatabaseConfig{
		Host: "db", Port: 5433, User: "ledger", Password: "pw", Name: "staff", SSLMode: "require",
	}}
	assert.Equal(t, "postgres://ledger:pw@db:5433/staff?sslmode=require", cfg.DatabaseURL())
}

func TestParseTimeOfDay(t *testing.T) {
	d, err := ParseTimeOfDay("")
	require.NoError(t, err)
	assert.Zero(t, d)

	d, err = ParseTimeOfDay("09:15")
	require.NoError(t, err)
	assert.Equal(t, 9*time.Hour+15*time.Minute, d)

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}
