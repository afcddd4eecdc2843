package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LabBookingService/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const baseConfig = `
[server]
http_port = 9090

[database]
driver = "memory"

[auth]
jwt_secret = "file-secret"

[slots]
default_capacity = 6
shifts = ["morning"]
generation_cron = "30 2 * * 0"
timezone = "Asia/Ho_Chi_Minh"
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, baseConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 30, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 6, cfg.Slots.DefaultCapacity)
	assert.Equal(t, []domain.Shift{domain.ShiftMorning}, cfg.Slots.DomainShifts())
	assert.Equal(t, domain.DefaultGenerationDays, cfg.Slots.GenerationDays)

	loc, err := cfg.Slots.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Ho_Chi_Minh", loc.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("HTTP_PORT", "7070")

	cfg, err := Load(writeConfig(t, baseConfig))
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, 7070, cfg.Server.HTTPPort)
	assert.Contains(t, cfg.Database.DSN(), "password=s3cret")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no secret", `[database]
driver = "memory"`},
		{"unknown driver", `[database]
driver = "mysql"
[auth]
jwt_secret = "x"`},
		{"unknown shift", `[auth]
jwt_secret = "x"
[slots]
shifts = ["night"]`},
		{"bad cron", `[auth]
jwt_secret = "x"
[slots]
generation_cron = "every sunday"`},
		{"bad timezone", `[auth]
jwt_secret = "x"
[slots]
timezone = "Mars/Olympus"`},
		{"zero capacity", `[auth]
jwt_secret = "x"
[slots]
default_capacity = 0`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
