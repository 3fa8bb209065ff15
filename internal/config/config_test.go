package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		ConfigFileEnv, "SECRET", "HTTP_PORT", "DATABASE_DRIVER", "DATABASE_DSN",
		"EXPIRY_HORIZON_DAYS", "LOG_LEVEL", "LOG_FORMAT", "SEED_BATCHES_CSV",
		"SEED_PHARMACY_ID", "DB_HOST",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, DefaultExpiryHorizonDays, cfg.ExpiryHorizonDays)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "medstock.toml")
	content := `
secret = "from-file"
http_port = "9000"
expiry_horizon_days = 45

[database]
driver = "sqlite"
dsn = "file:test.db"

[log]
level = "debug"
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv(ConfigFileEnv, path)
	t.Setenv("HTTP_PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Secret)
	assert.Equal(t, "9100", cfg.HTTPPort, "env overrides file")
	assert.Equal(t, 45, cfg.ExpiryHorizonDays)
	assert.Equal(t, "file:test.db", cfg.Database.DSN)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_PostgresFromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://postgres:pw@db.internal:5432/medstock?sslmode=disable", cfg.Database.DSN)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad horizon", map[string]string{"EXPIRY_HORIZON_DAYS": "soon"}},
		{"zero horizon", map[string]string{"EXPIRY_HORIZON_DAYS": "0"}},
		{"bad port", map[string]string{"HTTP_PORT": "http"}},
		{"unknown driver", map[string]string{"DATABASE_DRIVER": "mysql"}},
		{"seed without pharmacy", map[string]string{"SEED_BATCHES_CSV": "batches.csv"}},
		{"missing file", map[string]string{ConfigFileEnv: "/nonexistent/medstock.toml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
