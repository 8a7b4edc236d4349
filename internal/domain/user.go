package domain

import "time"

// Balance holds a user's currencies. Both fields are never negative.
type Balance struct {
	Stars    int64 `json:"stars" db:"stars"`
	Diamonds int64 `json:"diamonds" db:"diamonds"`
}

// User represents a registered Telegram user
type User struct {
	ID             string    `json:"user_id" db:"user_id"`
	TelegramID     int64     `json:"telegram_id" db:"telegram_id"`
	Username       string    `json:"username" db:"username"`
	Balance        Balance   `json:"balance"`
	WeeklySpending int64     `json:"weekly_spending" db:"weekly_spending"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// LeaderboardEntry is one row of the weekly spending ranking
type LeaderboardEntry struct {
	Rank           int    `json:"rank"`
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	WeeklySpending int64  `json:"weekly_spending"`
}
