package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Stock summary dataset
	Stocks StocksConfig

	// External API passthrough (/api/external_proxy, /api/auto_data)
	ExternalAPI ExternalAPIConfig

	// Watchlist file store
	WatchlistPath string

	// FII/DII scrape
	FIIDII FIIDIIConfig

	// Historical price downloader
	History HistoryConfig

	// Database (optional, history persistence only)
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// CORS
	CORSAllowedOrigins []string

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// StocksConfig holds the CSV snapshot settings
type StocksConfig struct {
	CSVPath        string
	ReloadSchedule string // cron expression, empty = load once at startup
}

// ExternalAPIConfig holds the upstream API used by the proxy endpoints
type ExternalAPIConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// FIIDIIConfig holds the FII/DII flow scrape configuration
type FIIDIIConfig struct {
	URL             string
	CacheTTL        time.Duration
	RefreshSchedule string
}

// HistoryConfig holds the OHLCV downloader configuration
type HistoryConfig struct {
	BaseURL      string
	OutputPath   string
	Workers      int
	RatePerSec   int
	UniverseFile string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// LoadFile loads an explicit env file before reading the environment.
// Variables already set in the process win over the file.
func LoadFile(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", path, err)
		}
	}
	return Load()
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "4000"),
		Env:  getEnv("ENV", "development"),

		Stocks: StocksConfig{
			CSVPath:        getEnv("STOCKS_CSV_PATH", "data/stocks.csv"),
			ReloadSchedule: getEnv("STOCKS_RELOAD_SCHEDULE", ""),
		},

		ExternalAPI: ExternalAPIConfig{
			URL:     getEnv("NEW_API_URL", ""),
			APIKey:  getEnv("NEW_API_KEY", ""),
			Timeout: getEnvAsDuration("NEW_API_TIMEOUT", "10s"),
		},

		WatchlistPath: getEnv("WATCHLIST_PATH", "data/watchlist.json"),

		FIIDII: FIIDIIConfig{
			URL:             getEnv("FIIDII_URL", "https://www.moneycontrol.com/stocks/marketstats/fii_dii_activity/index.php"),
			CacheTTL:        getEnvAsDuration("FIIDII_CACHE_TTL", "5m"),
			RefreshSchedule: getEnv("FIIDII_REFRESH_SCHEDULE", ""),
		},

		History: HistoryConfig{
			BaseURL:      getEnv("HISTORY_BASE_URL", "https://query1.finance.yahoo.com"),
			OutputPath:   getEnv("HISTORY_OUTPUT_PATH", "data/history.csv"),
			Workers:      getEnvAsInt("HISTORY_WORKERS", 4),
			RatePerSec:   getEnvAsInt("HISTORY_RATE_PER_SEC", 2),
			UniverseFile: getEnv("HISTORY_UNIVERSE_FILE", ""),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", "*"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 {
		return fmt.Errorf("PORT must be a positive integer, got %q", c.Port)
	}

	if c.FIIDII.CacheTTL <= 0 {
		return fmt.Errorf("FIIDII_CACHE_TTL must be positive")
	}

	if c.History.Workers <= 0 {
		return fmt.Errorf("HISTORY_WORKERS must be positive")
	}

	return nil
}

// HasDatabase reports whether history bars should be persisted to Postgres
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma-separated value, dropping blanks
func getEnvAsList(key string, defaultValue string) []string {
	raw := getEnv(key, defaultValue)

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
