// Package config loads the service settings with viper from the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported values of DATABASE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds every setting of the service.
type Config struct {
	AppPort        string
	AppEnv         string
	LogLevel       string
	AllowedOrigins []string
	RabbitMQURL    string
	Database       Database
}

// Database holds the store connection settings.
type Database struct {
	Driver          string
	URL             string
	LogSQL          bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5500",
}

// Load reads the configuration. envFile may be empty; a missing file is not
// an error.
func Load(envFile string) (Config, error) {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATABASE_LOG_SQL", false)
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("failed to read config file %s: %w", envFile, err)
			}
		}
	}

	cfg := Config{
		AppPort:        v.GetString("APP_PORT"),
		AppEnv:         v.GetString("APP_ENV"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		AllowedOrigins: splitOrigins(v.GetString("ALLOWED_ORIGINS")),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		Database: Database{
			Driver:          strings.ToLower(v.GetString("DATABASE_DRIVER")),
			URL:             v.GetString("DATABASE_URL"),
			LogSQL:          v.GetBool("DATABASE_LOG_SQL"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for driver %q", c.Database.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	return nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return append([]string(nil), defaultOrigins...)
	}
	return origins
}
