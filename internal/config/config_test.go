package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"mercearia/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/mercearia")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.AppPort)
	assert.Equal(t, config.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5500"}, cfg.AllowedOrigins)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "file:mercearia.db")
	t.Setenv("ALLOWED_ORIGINS", "https://mercearia.example, https://admin.mercearia.example ,")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
	t.Setenv("DATABASE_LOG_SQL", "true")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.True(t, cfg.Database.LogSQL)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, []string{"https://mercearia.example", "https://admin.mercearia.example"}, cfg.AllowedOrigins)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DATABASE_DRIVER=memory\nAPP_PORT=:9090\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, config.DriverMemory, cfg.Database.Driver)
	assert.Equal(t, ":9090", cfg.AppPort)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "memory")

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := config.Load("")
		assert.ErrorContains(t, err, "DATABASE_URL is required")
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "mysql")
		_, err := config.Load("")
		assert.ErrorContains(t, err, "unsupported DATABASE_DRIVER")
	})
}
