package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Бэкенды блокировки слота
const (
	LockLocal = "local"
	LockRedis = "redis"
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Clinic    ClinicConfig    `toml:"clinic"`
	Lock      LockConfig      `toml:"lock"`
	Directory DirectoryConfig `toml:"directory"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Reconcile ReconcileConfig `toml:"reconcile"`
}

// ServerConfig HTTP сервер, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig подключение к хранилищу
type DatabaseConfig struct {
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	Path            string `toml:"path"` // Файл SQLite
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для выбранного драйвера
func (c DatabaseConfig) DSN() string {
	switch c.Driver {
	case DriverSQLite:
		return c.Path
	default:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	}
}

// LogsConfig логирование
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig метрики Prometheus
type MetricsConfig struct {
	Enabled        bool   `toml:"enabled"`
	Path           string `toml:"path"`
	ServiceName    string `toml:"service_name"`
	PoolStatsEvery int    `toml:"pool_stats_every"` // секунды
}

// ClinicConfig правила записи
type ClinicConfig struct {
	Timezone           string `toml:"timezone"`
	DemoSlots          bool   `toml:"demo_slots"`
	LockTimeoutSeconds int    `toml:"lock_timeout_seconds"`
}

// Location часовой пояс клиники
func (c ClinicConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// LockTimeout ожидание блокировки слота
func (c ClinicConfig) LockTimeout() time.Duration {
	return time.Duration(c.LockTimeoutSeconds) * time.Second
}

// LockConfig блокировка слота
type LockConfig struct {
	Backend         string `toml:"backend"`
	RedisAddr       string `toml:"redis_addr"`
	RedisPassword   string `toml:"redis_password"`
	RedisDB         int    `toml:"redis_db"`
	LeaseTTLSeconds int    `toml:"lease_ttl_seconds"`
}

// DirectoryConfig защита справочника врачей
type DirectoryConfig struct {
	FailureThreshold   uint32 `toml:"failure_threshold"`
	OpenTimeoutSeconds int    `toml:"open_timeout_seconds"`
	HalfOpenRequests   uint32 `toml:"half_open_requests"`
}

// RateLimitConfig ограничение запросов с одного IP
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// ReconcileConfig сверка леджера
type ReconcileConfig struct {
	OrphanGraceSeconds int `toml:"orphan_grace_seconds"`
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию и проверяет ее
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:           "/metrics",
			ServiceName:    "clinic_scheduler",
			PoolStatsEvery: 15,
		},
		Clinic: ClinicConfig{
			Timezone:           "Asia/Tokyo",
			LockTimeoutSeconds: 5,
		},
		Lock: LockConfig{
			Backend:         LockLocal,
			RedisAddr:       "localhost:6379",
			LeaseTTLSeconds: 30,
		},
		Directory: DirectoryConfig{
			FailureThreshold:   5,
			OpenTimeoutSeconds: 30,
			HalfOpenRequests:   1,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Reconcile: ReconcileConfig{OrphanGraceSeconds: 600},
	}
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("server.http_port %d out of range", c.Server.HTTPPort))
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			problems = append(problems, "database.host and database.dbname are required for postgres")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			problems = append(problems, "database.path is required for sqlite")
		}
	case DriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("database.driver %q is not one of postgres, sqlite, memory", c.Database.Driver))
	}

	if _, err := c.Clinic.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("clinic.timezone %q: %v", c.Clinic.Timezone, err))
	}
	if c.Clinic.LockTimeoutSeconds <= 0 {
		problems = append(problems, "clinic.lock_timeout_seconds must be positive")
	}

	switch c.Lock.Backend {
	case LockLocal:
	case LockRedis:
		if c.Lock.RedisAddr == "" {
			problems = append(problems, "lock.redis_addr is required for redis backend")
		}
		if c.Lock.LeaseTTLSeconds <= c.Clinic.LockTimeoutSeconds {
			problems = append(problems, "lock.lease_ttl_seconds must exceed clinic.lock_timeout_seconds")
		}
	default:
		problems = append(problems, fmt.Sprintf("lock.backend %q is not one of local, redis", c.Lock.Backend))
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		problems = append(problems, "rate_limit.requests_per_second and rate_limit.burst must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
