package league

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fandor1in/padel-miniapp/internal/config"
	"github.com/Fandor1in/padel-miniapp/internal/tablestore"
	"github.com/charmbracelet/log"
)

// store persists the league's entities through the record store client.
type store struct {
	client tablestore.Client
	tables config.TableNames
}

// New creates a new league Store backed by the record store.
func New(client tablestore.Client, tables config.TableNames) Store {
	return &store{client: client, tables: tables}
}

func (s *store) schema(ctx context.Context, table string) *tablestore.FieldMap {
	fm, err := s.client.Schema(ctx, table)
	if err != nil {
		// A nil FieldMap falls back to logical names, which is correct for
		// canonically named tables. Degrade instead of failing the operation.
		log.Warn("Falling back to logical field names", "table", table, "error", err)
		return nil
	}
	return fm
}

func (s *store) GetPlayer(ctx context.Context, id string) (*Player, error) {
	rec, err := s.client.Get(ctx, s.tables.Players, id)
	if errors.Is(err, tablestore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting player: %w", err)
	}
	return playerFromRecord(rec, s.schema(ctx, s.tables.Players)), nil
}

func (s *store) GetPlayerByTelegramID(ctx context.Context, telegramID int64) (*Player, error) {
	fm := s.schema(ctx, s.tables.Players)
	records, err := s.client.List(ctx, s.tables.Players, tablestore.ListOptions{
		Filter:  tablestore.Eq(fm.P("telegram_id"), telegramID),
		MaxRows: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("finding player by telegram id: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return playerFromRecord(records[0], fm), nil
}

func (s *store) CreatePlayer(ctx context.Context, player *Player) (*Player, error) {
	fm := s.schema(ctx, s.tables.Players)
	records, err := s.client.Create(ctx, s.tables.Players, []tablestore.Fields{playerToFields(player, fm)})
	if err != nil {
		return nil, fmt.Errorf("creating player: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("store returned no record for created player")
	}
	log.Info("Created player", "playerID", records[0].ID, "telegramID", player.TelegramID)
	return playerFromRecord(records[0], fm), nil
}

func (s *store) UpdatePlayerIdentity(ctx context.Context, id, name, username string) error {
	fm := s.schema(ctx, s.tables.Players)
	_, err := s.client.Update(ctx, s.tables.Players, []tablestore.RecordUpdate{{
		ID:     id,
		Fields: tablestore.Fields{fm.P("name"): name, fm.P("username"): username},
	}})
	if err != nil {
		return fmt.Errorf("updating player identity: %w", err)
	}
	return nil
}

func (s *store) UpdatePlayerRecord(ctx context.Context, id string, update RecordUpdate) error {
	fm := s.schema(ctx, s.tables.Players)
	_, err := s.client.Update(ctx, s.tables.Players, []tablestore.RecordUpdate{{
		ID:     id,
		Fields: recordUpdateToFields(update, fm),
	}})
	if err != nil {
		return fmt.Errorf("updating player record: %w", err)
	}
	return nil
}

func (s *store) ListPlayers(ctx context.Context) ([]Player, error) {
	fm := s.schema(ctx, s.tables.Players)
	records, err := s.client.List(ctx, s.tables.Players, tablestore.ListOptions{
		Sort: []tablestore.SortField{{Field: fm.P("rating"), Desc: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	players := make([]Player, 0, len(records))
	for _, rec := range records {
		players = append(players, *playerFromRecord(rec, fm))
	}
	return players, nil
}

func (s *store) GetPair(ctx context.Context, id string) (*Pair, error) {
	rec, err := s.client.Get(ctx, s.tables.Pairs, id)
	if errors.Is(err, tablestore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting pair: %w", err)
	}
	return pairFromRecord(rec, s.schema(ctx, s.tables.Pairs)), nil
}

// FindPair looks for the unordered pair {playerA, playerB}. Both member
// orderings are queried, since the store keeps the two reference columns in
// whichever order the pair was first created.
func (s *store) FindPair(ctx context.Context, playerA, playerB string) (*Pair, error) {
	fm := s.schema(ctx, s.tables.Pairs)
	p1, p2 := fm.P("player1"), fm.P("player2")
	filter := tablestore.Or(
		tablestore.And(tablestore.Eq(p1, playerA), tablestore.Eq(p2, playerB)),
		tablestore.And(tablestore.Eq(p1, playerB), tablestore.Eq(p2, playerA)),
	)
	records, err := s.client.List(ctx, s.tables.Pairs, tablestore.ListOptions{Filter: filter, MaxRows: 1})
	if err != nil {
		return nil, fmt.Errorf("finding pair: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return pairFromRecord(records[0], fm), nil
}

func (s *store) CreatePair(ctx context.Context, pair *Pair) (*Pair, error) {
	fm := s.schema(ctx, s.tables.Pairs)
	records, err := s.client.Create(ctx, s.tables.Pairs, []tablestore.Fields{pairToFields(pair, fm)})
	if err != nil {
		return nil, fmt.Errorf("creating pair: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("store returned no record for created pair")
	}
	log.Info("Created pair", "pairID", records[0].ID, "player1", pair.Player1, "player2", pair.Player2, "rating", pair.Rating)
	return pairFromRecord(records[0], fm), nil
}

func (s *store) UpdatePairRecord(ctx context.Context, id string, update RecordUpdate) error {
	fm := s.schema(ctx, s.tables.Pairs)
	_, err := s.client.Update(ctx, s.tables.Pairs, []tablestore.RecordUpdate{{
		ID:     id,
		Fields: recordUpdateToFields(update, fm),
	}})
	if err != nil {
		return fmt.Errorf("updating pair record: %w", err)
	}
	return nil
}

func (s *store) ListPairs(ctx context.Context) ([]Pair, error) {
	fm := s.schema(ctx, s.tables.Pairs)
	records, err := s.client.List(ctx, s.tables.Pairs, tablestore.ListOptions{
		Sort: []tablestore.SortField{{Field: fm.P("rating"), Desc: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("listing pairs: %w", err)
	}
	pairs := make([]Pair, 0, len(records))
	for _, rec := range records {
		pairs = append(pairs, *pairFromRecord(rec, fm))
	}
	return pairs, nil
}

func (s *store) GetMatch(ctx context.Context, id string) (*Match, error) {
	rec, err := s.client.Get(ctx, s.tables.Matches, id)
	if errors.Is(err, tablestore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting match: %w", err)
	}
	return matchFromRecord(rec, s.schema(ctx, s.tables.Matches)), nil
}

func (s *store) CreateMatch(ctx context.Context, match *Match) (*Match, error) {
	fm := s.schema(ctx, s.tables.Matches)
	records, err := s.client.Create(ctx, s.tables.Matches, []tablestore.Fields{matchToFields(match, fm)})
	if err != nil {
		return nil, fmt.Errorf("creating match: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("store returned no record for created match")
	}
	log.Info("Created match", "matchID", records[0].ID, "pair1", match.Pair1, "pair2", match.Pair2, "score", match.Score)
	return matchFromRecord(records[0], fm), nil
}

func (s *store) UpdateMatch(ctx context.Context, id string, update MatchUpdate) error {
	fm := s.schema(ctx, s.tables.Matches)
	fields := tablestore.Fields{}
	if update.Status != nil {
		fields[fm.P("status")] = string(*update.Status)
	}
	if update.ConfirmedBy != nil {
		fields[fm.P("confirmed_by")] = update.ConfirmedBy
	}
	if update.DisputeReason != nil {
		fields[fm.P("dispute_reason")] = *update.DisputeReason
	}
	if len(fields) == 0 {
		return nil
	}

	_, err := s.client.Update(ctx, s.tables.Matches, []tablestore.RecordUpdate{{ID: id, Fields: fields}})
	if err != nil {
		return fmt.Errorf("updating match: %w", err)
	}
	return nil
}

func (s *store) ListMatches(ctx context.Context, limit int) ([]Match, error) {
	fm := s.schema(ctx, s.tables.Matches)
	records, err := s.client.List(ctx, s.tables.Matches, tablestore.ListOptions{
		Sort:    []tablestore.SortField{{Field: fm.P("date"), Desc: true}},
		MaxRows: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	matches := make([]Match, 0, len(records))
	for _, rec := range records {
		matches = append(matches, *matchFromRecord(rec, fm))
	}
	return matches, nil
}

func (s *store) CreateSetScores(ctx context.Context, sets []SetScore) ([]SetScore, error) {
	fm := s.schema(ctx, s.tables.SetScores)
	fields := make([]tablestore.Fields, 0, len(sets))
	for _, set := range sets {
		fields = append(fields, setScoreToFields(set, fm))
	}
	records, err := s.client.Create(ctx, s.tables.SetScores, fields)
	if err != nil {
		return nil, fmt.Errorf("creating set scores: %w", err)
	}
	created := make([]SetScore, 0, len(records))
	for _, rec := range records {
		created = append(created, setScoreFromRecord(rec, fm))
	}
	return created, nil
}

func (s *store) ListSetScores(ctx context.Context, matchID string) ([]SetScore, error) {
	fm := s.schema(ctx, s.tables.SetScores)
	records, err := s.client.List(ctx, s.tables.SetScores, tablestore.ListOptions{
		Filter: tablestore.Eq(fm.P("match"), matchID),
		Sort:   []tablestore.SortField{{Field: fm.P("set_no")}},
	})
	if err != nil {
		return nil, fmt.Errorf("listing set scores: %w", err)
	}
	sets := make([]SetScore, 0, len(records))
	for _, rec := range records {
		sets = append(sets, setScoreFromRecord(rec, fm))
	}
	return sets, nil
}
