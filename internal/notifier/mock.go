package notifier

import (
	"sync"

	"github.com/Fandor1in/padel-miniapp/internal/league"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for error injection
	SendMatchReportedFunc  func(match *league.ExpandedMatch, dryRun bool) error
	SendMatchConfirmedFunc func(match *league.ExpandedMatch, changes []RatingChange, dryRun bool) error
	SendMatchRejectedFunc  func(match *league.ExpandedMatch, dryRun bool) error
	SendMatchDisputedFunc  func(match *league.ExpandedMatch, reason string, dryRun bool) error
	SendLeaderboardFunc    func(players []league.Player, dryRun bool) error

	// Call records
	SendMatchReportedCalls  []*league.ExpandedMatch
	SendMatchConfirmedCalls []SendMatchConfirmedCall
	SendMatchRejectedCalls  []*league.ExpandedMatch
	SendMatchDisputedCalls  []SendMatchDisputedCall
	SendLeaderboardCalls    [][]league.Player
}

// SendMatchConfirmedCall holds the arguments for a call to SendMatchConfirmed.
type SendMatchConfirmedCall struct {
	Match   *league.ExpandedMatch
	Changes []RatingChange
}

// SendMatchDisputedCall holds the arguments for a call to SendMatchDisputed.
type SendMatchDisputedCall struct {
	Match  *league.ExpandedMatch
	Reason string
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchReportedCalls = nil
	m.SendMatchConfirmedCalls = nil
	m.SendMatchRejectedCalls = nil
	m.SendMatchDisputedCalls = nil
	m.SendLeaderboardCalls = nil
}

func (m *Mock) SendMatchReported(match *league.ExpandedMatch, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchReportedCalls = append(m.SendMatchReportedCalls, match)
	if m.SendMatchReportedFunc != nil {
		return m.SendMatchReportedFunc(match, dryRun)
	}
	return nil
}

func (m *Mock) SendMatchConfirmed(match *league.ExpandedMatch, changes []RatingChange, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchConfirmedCalls = append(m.SendMatchConfirmedCalls, SendMatchConfirmedCall{Match: match, Changes: changes})
	if m.SendMatchConfirmedFunc != nil {
		return m.SendMatchConfirmedFunc(match, changes, dryRun)
	}
	return nil
}

func (m *Mock) SendMatchRejected(match *league.ExpandedMatch, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchRejectedCalls = append(m.SendMatchRejectedCalls, match)
	if m.SendMatchRejectedFunc != nil {
		return m.SendMatchRejectedFunc(match, dryRun)
	}
	return nil
}

func (m *Mock) SendMatchDisputed(match *league.ExpandedMatch, reason string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchDisputedCalls = append(m.SendMatchDisputedCalls, SendMatchDisputedCall{Match: match, Reason: reason})
	if m.SendMatchDisputedFunc != nil {
		return m.SendMatchDisputedFunc(match, reason, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(players []league.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, players)
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(players, dryRun)
	}
	return nil
}
