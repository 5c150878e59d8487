// Package config provides configuration management for the BaseGenesis service.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Explorer  ExplorerConfig
	Genesis   GenesisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Postgres   PostgresConfig
	ClickHouse ClickHouseConfig
	Redis      RedisConfig
}

// PostgresConfig holds Postgres configuration
type PostgresConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
}

// ClickHouseConfig holds ClickHouse configuration
type ClickHouseConfig struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	Enabled  bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
	Enabled        bool
}

// ExplorerConfig holds block-explorer API configuration
type ExplorerConfig struct {
	BaseURL     string
	APIKey      string
	PageSize    int
	MaxPages    int
	PageTimeout time.Duration
	MaxRetries  int // retries per page, on top of the initial attempt
}

// GenesisConfig holds rank classification configuration
type GenesisConfig struct {
	LaunchDate   time.Time
	OGDays       int
	PioneerDays  int
	SettlerDays  int
	OGAllowList  []string // addresses always classified OG_LEGEND
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	LeaderboardTTL time.Duration
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	FreeTierRPS int
	PaidTierRPS int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// defaultLaunchDate is the Base public mainnet launch.
var defaultLaunchDate = time.Date(2023, 8, 9, 0, 0, 0, 0, time.UTC)

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// Load .env file (optional in production)
	if err := godotenv.Load(); err != nil {
		// .env file is optional - environment variables can be set directly
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				Host:           getEnv("POSTGRES_HOST", "localhost"),
				Port:           getEnv("POSTGRES_PORT", "5432"),
				Database:       getEnv("POSTGRES_DB", "base_genesis"),
				User:           getEnv("POSTGRES_USER", "genesis"),
				Password:       getEnv("POSTGRES_PASSWORD", ""),
				MaxConnections: getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 50),
			},
			ClickHouse: ClickHouseConfig{
				Host:     getEnv("CLICKHOUSE_HOST", "localhost"),
				Port:     getEnv("CLICKHOUSE_PORT", "9000"),
				Database: getEnv("CLICKHOUSE_DB", "base_genesis"),
				User:     getEnv("CLICKHOUSE_USER", "default"),
				Password: getEnv("CLICKHOUSE_PASSWORD", ""),
				Enabled:  getEnvAsBool("CLICKHOUSE_ENABLED", true),
			},
			Redis: RedisConfig{
				Host:           getEnv("REDIS_HOST", "localhost"),
				Port:           getEnv("REDIS_PORT", "6379"),
				Password:       getEnv("REDIS_PASSWORD", ""),
				DB:             getEnvAsInt("REDIS_DB", 0),
				MaxConnections: getEnvAsInt("REDIS_MAX_CONNECTIONS", 20),
				Enabled:        getEnvAsBool("REDIS_ENABLED", true),
			},
		},
		Explorer: ExplorerConfig{
			BaseURL:     getEnv("EXPLORER_BASE_URL", "https://api.basescan.org/api"),
			APIKey:      getEnv("EXPLORER_API_KEY", ""),
			PageSize:    getEnvAsInt("EXPLORER_PAGE_SIZE", 1000),
			MaxPages:    getEnvAsInt("EXPLORER_MAX_PAGES", 10),
			PageTimeout: getEnvAsDuration("EXPLORER_PAGE_TIMEOUT", 15*time.Second),
			MaxRetries:  getEnvAsInt("EXPLORER_MAX_RETRIES", 2),
		},
		Genesis: GenesisConfig{
			LaunchDate:  getEnvAsTime("GENESIS_LAUNCH_DATE", defaultLaunchDate),
			OGDays:      getEnvAsInt("GENESIS_OG_DAYS", 30),
			PioneerDays: getEnvAsInt("GENESIS_PIONEER_DAYS", 180),
			SettlerDays: getEnvAsInt("GENESIS_SETTLER_DAYS", 365),
			OGAllowList: getEnvAsList("GENESIS_OG_ALLOWLIST"),
		},
		Cache: CacheConfig{
			LeaderboardTTL: getEnvAsDuration("LEADERBOARD_CACHE_TTL", 5*time.Minute),
		},
		RateLimit: RateLimitConfig{
			FreeTierRPS: getEnvAsInt("RATE_LIMIT_FREE_TIER", 10),
			PaidTierRPS: getEnvAsInt("RATE_LIMIT_PAID_TIER", 100),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks invariants that would otherwise surface as runtime bugs.
func (c *Config) validate() error {
	if c.Explorer.PageSize <= 0 {
		return fmt.Errorf("explorer page size must be positive, got %d", c.Explorer.PageSize)
	}
	if c.Explorer.MaxPages <= 0 {
		return fmt.Errorf("explorer max pages must be positive, got %d", c.Explorer.MaxPages)
	}
	if c.Genesis.OGDays > c.Genesis.PioneerDays || c.Genesis.PioneerDays > c.Genesis.SettlerDays {
		return fmt.Errorf("genesis thresholds must be ascending: og=%d pioneer=%d settler=%d",
			c.Genesis.OGDays, c.Genesis.PioneerDays, c.Genesis.SettlerDays)
	}
	return nil
}

// PostgresURL builds a connection URL for migrations.
func (c *PostgresConfig) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a boolean with a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsTime gets an environment variable as an RFC3339 timestamp with a default value
func getEnvAsTime(key string, defaultValue time.Time) time.Time {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.Parse(time.RFC3339, valueStr)
	if err != nil {
		return defaultValue
	}
	return value.UTC()
}

// getEnvAsList gets a comma-separated environment variable as a lowercased list
func getEnvAsList(key string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return nil
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}
