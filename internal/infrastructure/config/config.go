package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Security SecurityConfig `mapstructure:"security"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Sync     SyncConfig     `mapstructure:"sync"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Timezone    string `mapstructure:"timezone"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig selects and configures the durable slot backend
type StorageConfig struct {
	Backend  string         `mapstructure:"backend"`
	Key      string         `mapstructure:"key"`
	Dir      string         `mapstructure:"dir"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// SQLiteConfig holds SQLite slot configuration
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig holds PostgreSQL slot configuration
type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig holds Redis slot configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
	RateLimitRequests  int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SyncConfig holds the timings of the simulated sync control
type SyncConfig struct {
	SyncingDuration time.Duration `mapstructure:"syncing_duration"`
	SyncedDuration  time.Duration `mapstructure:"synced_duration"`
}

// Storage backends
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Load loads configuration from .env, an optional config file and the environment.
func Load(configFile string) (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Todo")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.timezone", "Local")

	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Storage defaults
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.key", "interactive-todo-app-tasks")
	v.SetDefault("storage.dir", filepath.Join(".", "data"))
	v.SetDefault("storage.sqlite.path", filepath.Join(".", "data", "todo.db"))
	v.SetDefault("storage.postgres.host", "localhost")
	v.SetDefault("storage.postgres.port", 5432)
	v.SetDefault("storage.postgres.name", "todo")
	v.SetDefault("storage.postgres.user", "postgres")
	v.SetDefault("storage.postgres.password", "")
	v.SetDefault("storage.postgres.ssl_mode", "disable")
	v.SetDefault("storage.postgres.max_open_conns", 5)
	v.SetDefault("storage.postgres.max_idle_conns", 2)
	v.SetDefault("storage.postgres.conn_max_lifetime", "5m")
	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", 6379)
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.filename", "")

	// Security defaults
	v.SetDefault("security.cors_allowed_origins", "http://localhost:8080,http://127.0.0.1:8080")
	v.SetDefault("security.rate_limit_requests", 50)
	v.SetDefault("security.rate_limit_window", "1m")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)

	// Sync defaults
	v.SetDefault("sync.syncing_duration", "1500ms")
	v.SetDefault("sync.synced_duration", "2s")
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "APP_NAME")
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("app.timezone", "APP_TIMEZONE")

	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.host", "SERVER_HOST")
	v.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	v.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")
	v.BindEnv("server.idle_timeout", "SERVER_IDLE_TIMEOUT")

	// Storage
	v.BindEnv("storage.backend", "TODO_STORAGE_BACKEND")
	v.BindEnv("storage.key", "TODO_STORAGE_KEY")
	v.BindEnv("storage.dir", "TODO_DATA_DIR")
	v.BindEnv("storage.sqlite.path", "TODO_SQLITE_PATH")
	v.BindEnv("storage.postgres.host", "DB_HOST")
	v.BindEnv("storage.postgres.port", "DB_PORT")
	v.BindEnv("storage.postgres.name", "DB_NAME")
	v.BindEnv("storage.postgres.user", "DB_USER")
	v.BindEnv("storage.postgres.password", "DB_PASSWORD")
	v.BindEnv("storage.postgres.ssl_mode", "DB_SSL_MODE")
	v.BindEnv("storage.redis.host", "REDIS_HOST")
	v.BindEnv("storage.redis.port", "REDIS_PORT")
	v.BindEnv("storage.redis.password", "REDIS_PASSWORD")
	v.BindEnv("storage.redis.db", "REDIS_DB")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.format", "LOG_FORMAT")
	v.BindEnv("logger.output", "LOG_OUTPUT")
	v.BindEnv("logger.filename", "LOG_FILENAME")

	// Security
	v.BindEnv("security.cors_allowed_origins", "CORS_ALLOWED_ORIGINS")
	v.BindEnv("security.rate_limit_requests", "RATE_LIMIT_REQUESTS")
	v.BindEnv("security.rate_limit_window", "RATE_LIMIT_WINDOW")

	// Metrics
	v.BindEnv("metrics.enabled", "ENABLE_METRICS")

	// Sync
	v.BindEnv("sync.syncing_duration", "SYNC_SYNCING_DURATION")
	v.BindEnv("sync.synced_duration", "SYNC_SYNCED_DURATION")
}

func validateConfig(cfg *Config) error {
	switch cfg.Storage.Backend {
	case BackendFile:
		if cfg.Storage.Dir == "" {
			return fmt.Errorf("storage dir is required for the file backend")
		}
	case BackendSQLite:
		if cfg.Storage.SQLite.Path == "" {
			return fmt.Errorf("sqlite path is required for the sqlite backend")
		}
	case BackendPostgres:
		if cfg.Storage.Postgres.Host == "" || cfg.Storage.Postgres.Name == "" {
			return fmt.Errorf("postgres host and name are required for the postgres backend")
		}
	case BackendRedis:
		if cfg.Storage.Redis.Host == "" {
			return fmt.Errorf("redis host is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}

	if strings.TrimSpace(cfg.Storage.Key) == "" {
		return fmt.Errorf("storage key is required")
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	if cfg.Sync.SyncingDuration < 0 || cfg.Sync.SyncedDuration < 0 {
		return fmt.Errorf("sync durations must not be negative")
	}

	if _, err := cfg.App.Location(); err != nil {
		return err
	}

	return nil
}

// GetDSN returns the PostgreSQL connection string
func (cfg *PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}

// GetAddr returns the Redis address
func (cfg *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// GetAddr returns the HTTP listen address
func (cfg *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// Location resolves the timezone used to read and render due dates
func (cfg *AppConfig) Location() (*time.Location, error) {
	if cfg.Timezone == "" || cfg.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	return loc, nil
}

// IsDevelopment returns true if the environment is development
func (cfg *AppConfig) IsDevelopment() bool {
	return cfg.Environment == "development"
}
