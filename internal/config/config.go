package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Service
	Port                int
	APIKey              string // API key for authentication
	LogLevel            string
	LogFormat           string
	LogDir              string // empty logs to stdout only
	ServiceName         string
	Version             string
	Environment         string
	MaxRequestBodyBytes int64
	ShutdownTimeout     time.Duration

	// Store
	StoreDriver       string
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration
	DBAutoMigrate     bool
	SQLitePath        string

	// Catalog and economy
	CatalogPath         string
	CatalogSchemaPath   string
	CatalogCacheTTL     time.Duration
	StartingStars       int64
	CaseMaxMultiplier   int
	TxMaxAttempts       int
	TxRetryBackoff      time.Duration
	UpgradeHouseEdge    float64
	FeedCapacity        int
	LeaderboardSize     int
	LeaderboardCacheTTL time.Duration

	// Events
	EventMaxRetries     int
	EventRetryDelay     time.Duration
	EventDeadLetterPath string

	// Integrations
	TelegramBotToken        string
	TelegramNotifyChatID    int64
	TelegramNotifyMinRarity string
	TelegramBotEnabled      bool
	WeeklyResetSchedule     string
}

// Load loads the configuration from the environment and validates it
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", strconv.Itoa(DefaultPort)))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}

	cfg := &Config{
		Port:                port,
		APIKey:              getEnv("API_KEY", ""),
		LogLevel:            strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:           strings.ToLower(getEnv("LOG_FORMAT", "text")),
		LogDir:              getEnv("LOG_DIR", ""),
		ServiceName:         getEnv("SERVICE_NAME", DefaultServiceName),
		Version:             getEnv("VERSION", "dev"),
		Environment:         getEnv("ENVIRONMENT", "dev"),
		MaxRequestBodyBytes: getEnvAsInt64("MAX_REQUEST_BODY_BYTES", DefaultMaxRequestBodyBytes),
		ShutdownTimeout:     getEnvAsDuration("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout),

		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "starcase"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),
		DBAutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", true),
		SQLitePath:        getEnv("SQLITE_PATH", DefaultSQLitePath),

		CatalogPath:         getEnv("CATALOG_PATH", ConfigPathCatalog),
		CatalogSchemaPath:   getEnv("CATALOG_SCHEMA_PATH", ConfigPathCatalogSchema),
		CatalogCacheTTL:     getEnvAsDuration("CATALOG_CACHE_TTL", DefaultCatalogCacheTTL),
		StartingStars:       getEnvAsInt64("STARTING_STARS", DefaultStartingStars),
		CaseMaxMultiplier:   getEnvAsInt("CASE_MAX_MULTIPLIER", DefaultCaseMaxMultiplier),
		TxMaxAttempts:       getEnvAsInt("TX_MAX_ATTEMPTS", DefaultTxMaxAttempts),
		TxRetryBackoff:      getEnvAsDuration("TX_RETRY_BACKOFF", DefaultTxRetryBackoff),
		UpgradeHouseEdge:    getEnvAsFloat("UPGRADE_HOUSE_EDGE", DefaultUpgradeHouseEdge),
		FeedCapacity:        getEnvAsInt("FEED_CAPACITY", DefaultFeedCapacity),
		LeaderboardSize:     getEnvAsInt("LEADERBOARD_SIZE", DefaultLeaderboardSize),
		LeaderboardCacheTTL: getEnvAsDuration("LEADERBOARD_CACHE_TTL", DefaultLeaderboardCacheTTL),

		EventMaxRetries:     getEnvAsInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries),
		EventRetryDelay:     getEnvAsDuration("EVENT_RETRY_DELAY", DefaultEventRetryDelay),
		EventDeadLetterPath: getEnv("EVENT_DEADLETTER_PATH", DefaultDeadLetterPath),

		TelegramBotToken:        getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramNotifyChatID:    getEnvAsInt64("TELEGRAM_NOTIFY_CHAT_ID", 0),
		TelegramNotifyMinRarity: getEnv("TELEGRAM_NOTIFY_MIN_RARITY", DefaultNotifyMinRarity),
		TelegramBotEnabled:      getEnvAsBool("TELEGRAM_BOT_ENABLED", true),
		WeeklyResetSchedule:     getEnv("WEEKLY_RESET_SCHEDULE", DefaultWeeklyResetSchedule),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TelegramEnabled reports whether a bot token is configured
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != ""
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to the default on absence or error
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses a Go duration string such as "30s" or "5m"
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
