package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/osse101/StarCase_Go/internal/domain"
)

// Validate checks that the configuration is usable. Every problem is
// reported, not only the first.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.APIKey == "" {
		fail("API_KEY environment variable must be set for security")
	}
	if c.Port < 1 || c.Port > 65535 {
		fail("PORT must be between 1 and 65535, got %d", c.Port)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		fail("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}

	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DBMaxConns < 1 {
			fail("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns)
		}
		var missing []string
		for key, value := range map[string]string{"DB_USER": c.DBUser, "DB_HOST": c.DBHost, "DB_PORT": c.DBPort, "DB_NAME": c.DBName} {
			if value == "" {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			slices.Sort(missing)
			fail("missing required database variables: %s", strings.Join(missing, ", "))
		}
	case StoreDriverSQLite:
		if c.SQLitePath == "" {
			fail("SQLITE_PATH must be set when STORE_DRIVER=sqlite")
		}
	case StoreDriverMemory:
	default:
		fail("STORE_DRIVER must be one of postgres, sqlite, memory; got %q", c.StoreDriver)
	}

	if c.StartingStars < 0 {
		fail("STARTING_STARS must not be negative, got %d", c.StartingStars)
	}
	if c.CaseMaxMultiplier < 1 || c.CaseMaxMultiplier > MaxCaseMultiplier {
		fail("CASE_MAX_MULTIPLIER must be between 1 and %d, got %d", MaxCaseMultiplier, c.CaseMaxMultiplier)
	}
	if c.TxMaxAttempts < 1 || c.TxMaxAttempts > MaxTxAttempts {
		fail("TX_MAX_ATTEMPTS must be between 1 and %d, got %d", MaxTxAttempts, c.TxMaxAttempts)
	}
	if c.UpgradeHouseEdge < 0 || c.UpgradeHouseEdge >= 1 {
		fail("UPGRADE_HOUSE_EDGE must be in [0, 1), got %v", c.UpgradeHouseEdge)
	}
	if c.FeedCapacity < 1 {
		fail("FEED_CAPACITY must be positive, got %d", c.FeedCapacity)
	}
	if c.LeaderboardSize < 1 || c.LeaderboardSize > 100 {
		fail("LEADERBOARD_SIZE must be between 1 and 100, got %d", c.LeaderboardSize)
	}

	if _, err := domain.ParseRarity(c.TelegramNotifyMinRarity); err != nil {
		fail("TELEGRAM_NOTIFY_MIN_RARITY: %w", err)
	}
	if c.TelegramEnabled() && c.TelegramNotifyChatID == 0 && !c.TelegramBotEnabled {
		fail("TELEGRAM_BOT_TOKEN is set but neither TELEGRAM_NOTIFY_CHAT_ID nor TELEGRAM_BOT_ENABLED is")
	}
	if _, err := cron.ParseStandard(c.WeeklyResetSchedule); err != nil {
		fail("WEEKLY_RESET_SCHEDULE %q is invalid: %w", c.WeeklyResetSchedule, err)
	}

	return errors.Join(errs...)
}

// Warnings returns non-fatal findings such as example secrets left in place
func (c *Config) Warnings() []string {
	var warnings []string
	if c.DBPassword == ExampleDBPassword {
		warnings = append(warnings, "DB_PASSWORD appears to be using the example value - please use a secure password")
	}
	if c.APIKey == ExampleAPIKey {
		warnings = append(warnings, "API_KEY appears to be using the example value - generate a secure key with: openssl rand -hex 32")
	}
	if c.StoreDriver == StoreDriverMemory {
		warnings = append(warnings, "STORE_DRIVER=memory keeps all balances in process memory; they are lost on restart")
	}
	if c.TelegramEnabled() && c.TelegramNotifyChatID == 0 {
		warnings = append(warnings, "TELEGRAM_NOTIFY_CHAT_ID is not set; drop notifications are disabled")
	}
	return warnings
}
