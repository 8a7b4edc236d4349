package config

import "time"

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMemory   = "memory"
)

// Configuration file paths
const (
	ConfigPathCatalog       = "configs/catalog.json"
	ConfigPathCatalogSchema = "configs/schemas/catalog.schema.json"
)

// Defaults
const (
	DefaultPort                = 8080
	DefaultServiceName         = "starcase"
	DefaultDBMaxConns          = 20
	DefaultDBMaxConnIdleTime   = 5 * time.Minute
	DefaultDBMaxConnLifetime   = 30 * time.Minute
	DefaultSQLitePath          = "data/starcase.db"
	DefaultStartingStars       = 100
	DefaultCaseMaxMultiplier   = 10
	DefaultTxMaxAttempts       = 3
	DefaultTxRetryBackoff      = 25 * time.Millisecond
	DefaultUpgradeHouseEdge    = 0.10
	DefaultFeedCapacity        = 50
	DefaultLeaderboardSize     = 10
	DefaultLeaderboardCacheTTL = 30 * time.Second
	DefaultCatalogCacheTTL     = 5 * time.Minute
	DefaultNotifyMinRarity     = "Legendary"
	DefaultWeeklyResetSchedule = "0 0 * * 1"
	DefaultEventMaxRetries     = 5
	DefaultEventRetryDelay     = 2 * time.Second
	DefaultDeadLetterPath      = "logs/event_deadletter.jsonl"
	DefaultShutdownTimeout     = 15 * time.Second
	DefaultMaxRequestBodyBytes = 1 << 20

	MaxCaseMultiplier = 100
	MaxTxAttempts     = 10
)

// Insecure example values shipped in .env.example
const (
	ExampleDBPassword = "change_this_secure_password"
	ExampleAPIKey     = "generate_with_openssl_rand_hex_32"
)
