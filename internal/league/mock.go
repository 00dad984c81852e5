package league

import (
	"context"
	"fmt"
	"sync"
)

// MockStore is an in-memory implementation of the Store interface for
// testing. It behaves like the real store (assigned ids, unordered pair
// search) and every method can be overridden with a Func field to inject
// errors. It is safe for concurrent use.
type MockStore struct {
	mu      sync.Mutex
	nextID  int
	Players map[string]*Player
	Pairs   map[string]*Pair
	Matches map[string]*Match
	Sets    map[string]*SetScore

	GetPlayerFunc             func(ctx context.Context, id string) (*Player, error)
	GetPlayerByTelegramIDFunc func(ctx context.Context, telegramID int64) (*Player, error)
	CreatePlayerFunc          func(ctx context.Context, player *Player) (*Player, error)
	UpdatePlayerRecordFunc    func(ctx context.Context, id string, update RecordUpdate) error
	GetPairFunc               func(ctx context.Context, id string) (*Pair, error)
	FindPairFunc              func(ctx context.Context, playerA, playerB string) (*Pair, error)
	CreatePairFunc            func(ctx context.Context, pair *Pair) (*Pair, error)
	GetMatchFunc              func(ctx context.Context, id string) (*Match, error)
	CreateMatchFunc           func(ctx context.Context, match *Match) (*Match, error)
	UpdateMatchFunc           func(ctx context.Context, id string, update MatchUpdate) error
	CreateSetScoresFunc       func(ctx context.Context, sets []SetScore) ([]SetScore, error)
	ListSetScoresFunc         func(ctx context.Context, matchID string) ([]SetScore, error)

	// Call records
	CreatePairCalls  []Pair
	UpdateMatchCalls []struct {
		ID     string
		Update MatchUpdate
	}
	UpdatePlayerRecordCalls []struct {
		ID     string
		Update RecordUpdate
	}
	UpdatePairRecordCalls []struct {
		ID     string
		Update RecordUpdate
	}
}

var _ Store = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{
		Players: make(map[string]*Player),
		Pairs:   make(map[string]*Pair),
		Matches: make(map[string]*Match),
		Sets:    make(map[string]*SetScore),
	}
}

func (m *MockStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s%d", prefix, m.nextID)
}

// AddPlayer seeds a player and returns its assigned id.
func (m *MockStore) AddPlayer(p Player) *Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = m.id("recPlayer")
	}
	m.Players[p.ID] = &p
	return &p
}

func (m *MockStore) GetPlayer(ctx context.Context, id string) (*Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.Players[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, nil
}

func (m *MockStore) GetPlayerByTelegramID(ctx context.Context, telegramID int64) (*Player, error) {
	if m.GetPlayerByTelegramIDFunc != nil {
		return m.GetPlayerByTelegramIDFunc(ctx, telegramID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Players {
		if p.TelegramID == telegramID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *MockStore) CreatePlayer(ctx context.Context, player *Player) (*Player, error) {
	if m.CreatePlayerFunc != nil {
		return m.CreatePlayerFunc(ctx, player)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *player
	clone.ID = m.id("recPlayer")
	m.Players[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (m *MockStore) UpdatePlayerIdentity(ctx context.Context, id, name, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.Players[id]; ok {
		p.Name = name
		p.Username = username
	}
	return nil
}

func (m *MockStore) UpdatePlayerRecord(ctx context.Context, id string, update RecordUpdate) error {
	m.mu.Lock()
	m.UpdatePlayerRecordCalls = append(m.UpdatePlayerRecordCalls, struct {
		ID     string
		Update RecordUpdate
	}{id, update})
	m.mu.Unlock()
	if m.UpdatePlayerRecordFunc != nil {
		return m.UpdatePlayerRecordFunc(ctx, id, update)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.Players[id]; ok {
		p.Rating = update.Rating
		p.GamesPlayed = update.GamesPlayed
		p.Wins = update.Wins
		p.Losses = update.Losses
	}
	return nil
}

func (m *MockStore) ListPlayers(ctx context.Context) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	players := make([]Player, 0, len(m.Players))
	for _, p := range m.Players {
		players = append(players, *p)
	}
	return players, nil
}

func (m *MockStore) GetPair(ctx context.Context, id string) (*Pair, error) {
	if m.GetPairFunc != nil {
		return m.GetPairFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.Pairs[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, nil
}

func (m *MockStore) FindPair(ctx context.Context, playerA, playerB string) (*Pair, error) {
	if m.FindPairFunc != nil {
		return m.FindPairFunc(ctx, playerA, playerB)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Pairs {
		if (p.Player1 == playerA && p.Player2 == playerB) || (p.Player1 == playerB && p.Player2 == playerA) {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *MockStore) CreatePair(ctx context.Context, pair *Pair) (*Pair, error) {
	m.mu.Lock()
	m.CreatePairCalls = append(m.CreatePairCalls, *pair)
	m.mu.Unlock()
	if m.CreatePairFunc != nil {
		return m.CreatePairFunc(ctx, pair)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *pair
	clone.ID = m.id("recPair")
	m.Pairs[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (m *MockStore) UpdatePairRecord(ctx context.Context, id string, update RecordUpdate) error {
	m.mu.Lock()
	m.UpdatePairRecordCalls = append(m.UpdatePairRecordCalls, struct {
		ID     string
		Update RecordUpdate
	}{id, update})
	defer m.mu.Unlock()
	if p, ok := m.Pairs[id]; ok {
		p.Rating = update.Rating
		p.GamesPlayed = update.GamesPlayed
		p.Wins = update.Wins
		p.Losses = update.Losses
	}
	return nil
}

func (m *MockStore) ListPairs(ctx context.Context) ([]Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pairs := make([]Pair, 0, len(m.Pairs))
	for _, p := range m.Pairs {
		pairs = append(pairs, *p)
	}
	return pairs, nil
}

func (m *MockStore) GetMatch(ctx context.Context, id string) (*Match, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if match, ok := m.Matches[id]; ok {
		clone := *match
		clone.ConfirmedBy = append([]string(nil), match.ConfirmedBy...)
		return &clone, nil
	}
	return nil, nil
}

func (m *MockStore) CreateMatch(ctx context.Context, match *Match) (*Match, error) {
	if m.CreateMatchFunc != nil {
		return m.CreateMatchFunc(ctx, match)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *match
	clone.ID = m.id("recMatch")
	m.Matches[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (m *MockStore) UpdateMatch(ctx context.Context, id string, update MatchUpdate) error {
	m.mu.Lock()
	m.UpdateMatchCalls = append(m.UpdateMatchCalls, struct {
		ID     string
		Update MatchUpdate
	}{id, update})
	m.mu.Unlock()
	if m.UpdateMatchFunc != nil {
		return m.UpdateMatchFunc(ctx, id, update)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	match, ok := m.Matches[id]
	if !ok {
		return fmt.Errorf("match %s not found", id)
	}
	if update.Status != nil {
		match.Status = *update.Status
	}
	if update.ConfirmedBy != nil {
		match.ConfirmedBy = append([]string(nil), update.ConfirmedBy...)
	}
	if update.DisputeReason != nil {
		match.DisputeReason = *update.DisputeReason
	}
	return nil
}

func (m *MockStore) ListMatches(ctx context.Context, limit int) ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matches := make([]Match, 0, len(m.Matches))
	for _, match := range m.Matches {
		matches = append(matches, *match)
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (m *MockStore) CreateSetScores(ctx context.Context, sets []SetScore) ([]SetScore, error) {
	if m.CreateSetScoresFunc != nil {
		return m.CreateSetScoresFunc(ctx, sets)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	created := make([]SetScore, 0, len(sets))
	for _, set := range sets {
		clone := set
		clone.ID = m.id("recSet")
		m.Sets[clone.ID] = &clone
		created = append(created, clone)
	}
	return created, nil
}

func (m *MockStore) ListSetScores(ctx context.Context, matchID string) ([]SetScore, error) {
	if m.ListSetScoresFunc != nil {
		return m.ListSetScoresFunc(ctx, matchID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var sets []SetScore
	for _, set := range m.Sets {
		if set.MatchID == matchID {
			sets = append(sets, *set)
		}
	}
	return sets, nil
}
