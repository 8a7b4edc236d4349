package repository

import "context"

// Store is implemented by every storage driver (postgres, sqlite, memory)
type Store interface {
	Economy
	Catalog
	User
	Leaderboard

	Ping(ctx context.Context) error
	Close()
}
