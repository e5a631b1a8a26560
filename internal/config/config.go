package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Store    StoreConfig
	Engine   EngineConfig
	Reminder ReminderConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// DatabaseConfig holds database configuration. DSN wins over the
// individual postgres fields when set; a non-postgres DSN selects sqlite.
type DatabaseConfig struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the postgres connection URL built from the individual fields
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// ConnectionString returns DSN if set, otherwise URL.
func (c DatabaseConfig) ConnectionString() string {
	if c.DSN != "" {
		return c.DSN
	}
	return c.URL()
}

// IsPostgres reports whether the connection string targets postgres.
func (c DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(c.ConnectionString(), "postgres")
}

// RedisConfig holds Redis configuration. An empty URL disables Redis and
// falls back to in-process team locks.
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// StoreConfig holds record store limits
type StoreConfig struct {
	MaxBatchOps int
	MaxInFilter int
	OpTimeout   time.Duration
	// LockTTL bounds a team lease left by a crashed holder; live holders renew it.
	LockTTL     time.Duration
}

// EngineConfig tunes review aggregation
type EngineConfig struct {
	AggregationConcurrency int
}

// ReminderConfig controls the review reminder job
type ReminderConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     getEnv("SERVER_PORT", "8080"),
			Env:      getEnv("SERVER_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", ""),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DATABASE_DSN", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "sprint_review"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRY", time.Hour),
		},
		Store: StoreConfig{
			MaxBatchOps: getEnvAsInt("STORE_MAX_BATCH_OPS", 500),
			MaxInFilter: getEnvAsInt("STORE_MAX_IN_FILTER", 30),
			OpTimeout:   getEnvAsDuration("STORE_OP_TIMEOUT", 10*time.Second),
			LockTTL:     getEnvAsDuration("LOCK_TTL", 15*time.Second),
		},
		Engine: EngineConfig{
			AggregationConcurrency: getEnvAsInt("AGGREGATION_CONCURRENCY", 8),
		},
		Reminder: ReminderConfig{
			Enabled:  getEnvAsBool("REMINDER_ENABLED", false),
			Interval: getEnvAsDuration("REMINDER_INTERVAL", 24*time.Hour),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
