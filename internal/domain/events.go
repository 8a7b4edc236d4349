package domain

// Event type constants used across the application for event bus subscriptions.
//
// Event types follow the pattern: <entity>.<action> (e.g., "item.sold")
const (
	// EventTypeCaseOpened is published after a case-opening transaction commits
	EventTypeCaseOpened = "case.opened"

	// EventTypeItemUpgraded is published after an upgrade attempt commits, win or lose
	EventTypeItemUpgraded = "item.upgraded"

	// EventTypeItemSold is published after an inventory item is sold for stars
	EventTypeItemSold = "item.sold"

	// EventTypeItemWithdrawn is published after an NFT withdrawal is queued
	EventTypeItemWithdrawn = "item.withdrawn"

	// EventTypeLeaderboardReset is published when weekly spending is zeroed
	EventTypeLeaderboardReset = "leaderboard.reset"
)
