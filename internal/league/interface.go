package league

import "context"

// Store defines the persistence operations for the league's data. Lookups
// that find nothing return (nil, nil); errors are reserved for failed store
// calls.
type Store interface {
	GetPlayer(ctx context.Context, id string) (*Player, error)
	GetPlayerByTelegramID(ctx context.Context, telegramID int64) (*Player, error)
	CreatePlayer(ctx context.Context, player *Player) (*Player, error)
	UpdatePlayerIdentity(ctx context.Context, id, name, username string) error
	UpdatePlayerRecord(ctx context.Context, id string, update RecordUpdate) error
	ListPlayers(ctx context.Context) ([]Player, error)

	GetPair(ctx context.Context, id string) (*Pair, error)
	FindPair(ctx context.Context, playerA, playerB string) (*Pair, error)
	CreatePair(ctx context.Context, pair *Pair) (*Pair, error)
	UpdatePairRecord(ctx context.Context, id string, update RecordUpdate) error
	ListPairs(ctx context.Context) ([]Pair, error)

	GetMatch(ctx context.Context, id string) (*Match, error)
	CreateMatch(ctx context.Context, match *Match) (*Match, error)
	UpdateMatch(ctx context.Context, id string, update MatchUpdate) error
	ListMatches(ctx context.Context, limit int) ([]Match, error)

	CreateSetScores(ctx context.Context, sets []SetScore) ([]SetScore, error)
	ListSetScores(ctx context.Context, matchID string) ([]SetScore, error)
}
