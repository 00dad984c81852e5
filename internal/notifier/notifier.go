package notifier

import (
	"github.com/Fandor1in/padel-miniapp/internal/league"
)

// RatingChange describes how one player's or pair's rating moved when a
// match result was applied.
type RatingChange struct {
	Name   string
	Before int
	After  int
}

// Notifier defines a high-level interface for announcing business events.
// This decouples the rest of the application from the specific notification
// provider (e.g., Slack).
type Notifier interface {
	// A freshly reported match awaiting opponent confirmation.
	SendMatchReported(match *league.ExpandedMatch, dryRun bool) error
	// A confirmed match, including the rating movements it caused.
	SendMatchConfirmed(match *league.ExpandedMatch, changes []RatingChange, dryRun bool) error
	// A rejected result.
	SendMatchRejected(match *league.ExpandedMatch, dryRun bool) error
	// A disputed result, flagged for manual review.
	SendMatchDisputed(match *league.ExpandedMatch, reason string, dryRun bool) error
	// The current standings.
	SendLeaderboard(players []league.Player, dryRun bool) error
}
