package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"API_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
}

type DatabaseConfig struct {
	Host           string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port           int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User           string `envconfig:"POSTGRES_USER" default:"ferbflix"`
	Password       string `envconfig:"POSTGRES_PASSWORD" default:"ferbflix"`
	DBName         string `envconfig:"POSTGRES_DB" default:"ferbflix"`
	SSLMode        string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	MigrationsPath string `envconfig:"POSTGRES_MIGRATIONS_PATH" default:"migrations"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CacheConfig struct {
	// ListTTL bounds staleness of the cached unfiltered film listing.
	ListTTL time.Duration `envconfig:"CACHE_LIST_TTL" default:"1m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
