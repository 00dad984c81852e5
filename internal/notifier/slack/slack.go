package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Fandor1in/padel-miniapp/internal/league"
	"github.com/Fandor1in/padel-miniapp/internal/metrics"
	"github.com/Fandor1in/padel-miniapp/internal/notifier"
	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client
// that we use. This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendMatchReported announces a newly reported match awaiting confirmation.
func (s *Notifier) SendMatchReported(match *league.ExpandedMatch, dryRun bool) error {
	msg := s.formatMatchReported(match)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendMatchConfirmed announces a confirmed result and the rating movements.
func (s *Notifier) SendMatchConfirmed(match *league.ExpandedMatch, changes []notifier.RatingChange, dryRun bool) error {
	msg := s.formatMatchConfirmed(match, changes)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendMatchRejected announces a rejected result.
func (s *Notifier) SendMatchRejected(match *league.ExpandedMatch, dryRun bool) error {
	msg := s.formatMatchRejected(match)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendMatchDisputed flags a disputed result for manual review.
func (s *Notifier) SendMatchDisputed(match *league.ExpandedMatch, reason string, dryRun bool) error {
	msg := s.formatMatchDisputed(match, reason)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendLeaderboard posts the current standings.
func (s *Notifier) SendLeaderboard(players []league.Player, dryRun bool) error {
	msg := s.formatLeaderboard(players)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// pairName renders a pair as "Alice & Bob", falling back to record ids for
// dangling references.
func pairName(pair *league.ExpandedPair) string {
	if pair == nil {
		return "unknown pair"
	}
	names := make([]string, 0, 2)
	for _, player := range []*league.Player{pair.Player1, pair.Player2} {
		if player != nil && player.Name != "" {
			names = append(names, player.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("%s & %s", pair.Pair.Player1, pair.Pair.Player2)
	}
	return strings.Join(names, " & ")
}

func matchDetails(match *league.ExpandedMatch) string {
	details := fmt.Sprintf("%s vs %s", pairName(match.Pair1), pairName(match.Pair2))
	if match.Match.Date != "" {
		when := match.Match.Date
		if match.Match.Time != "" {
			when += " " + match.Match.Time
		}
		details += "\nPlayed: " + when
	}
	if match.Match.Score != "" {
		details += "\nScore: " + match.Match.Score
	}
	return details
}

// formatMatchReported creates the Slack message for a newly reported match
// using Block Kit.
func (s *Notifier) formatMatchReported(match *league.ExpandedMatch) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎾 Match reported! 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", matchDetails(match), true, false), nil, nil))

	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject("plain_text", "Waiting for an opponent to confirm the result.", true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatMatchConfirmed creates the Slack message for a confirmed result.
func (s *Notifier) formatMatchConfirmed(match *league.ExpandedMatch, changes []notifier.RatingChange) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "✅ Match confirmed! ✅", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", matchDetails(match), true, false), nil, nil))

	if len(changes) > 0 {
		lines := make([]string, 0, len(changes))
		for _, change := range changes {
			delta := change.After - change.Before
			sign := "+"
			if delta < 0 {
				sign = ""
			}
			lines = append(lines, fmt.Sprintf("• %s: %d → %d (%s%d)", change.Name, change.Before, change.After, sign, delta))
		}
		ratingsText := "Ratings:\n" + strings.Join(lines, "\n")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", ratingsText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatMatchRejected creates the Slack message for a rejected result.
func (s *Notifier) formatMatchRejected(match *league.ExpandedMatch) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "❌ Match rejected", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", matchDetails(match), true, false), nil, nil))

	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject("plain_text", "The reported result was rejected by an opponent. Ratings are unchanged.", true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatMatchDisputed creates the Slack message for a disputed result.
func (s *Notifier) formatMatchDisputed(match *league.ExpandedMatch, reason string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⚠️ Match disputed ⚠️", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", matchDetails(match), true, false), nil, nil))

	if reason != "" {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Reason: "+reason, true, false), nil, nil))
	}

	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject("plain_text", "This match needs manual review.", true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the standings.
func (s *Notifier) formatLeaderboard(players []league.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 League Standings 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(players) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, player := range players {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		playerText := fmt.Sprintf("%d. %s %s\n> Rating: %d | Played: %d | W/L: %d/%d",
			rank,
			medal,
			player.Name,
			player.Rating,
			player.GamesPlayed,
			player.Wins,
			player.Losses,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
