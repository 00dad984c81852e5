package processor

import (
	"context"
	"time"

	"github.com/Fandor1in/padel-miniapp/internal/apperr"
	"github.com/Fandor1in/padel-miniapp/internal/config"
	"github.com/Fandor1in/padel-miniapp/internal/elo"
	"github.com/Fandor1in/padel-miniapp/internal/inflight"
	"github.com/Fandor1in/padel-miniapp/internal/league"
	"github.com/Fandor1in/padel-miniapp/internal/metrics"
	"github.com/Fandor1in/padel-miniapp/internal/notifier"
	"github.com/Fandor1in/padel-miniapp/internal/pubsub"
	"github.com/Fandor1in/padel-miniapp/internal/scoring"
	"github.com/Fandor1in/padel-miniapp/internal/telegram"
	"github.com/charmbracelet/log"
)

// New creates a new Processor.
func New(store league.Store, notifier notifier.Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, rating config.RatingConfig, confirm config.ConfirmConfig) *Processor {
	return &Processor{
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		pubsub:   pubsub,
		locks:    inflight.New(),
		rating:   rating,
		confirm:  confirm,
	}
}

// timeOp records the duration of a lifecycle operation.
func (p *Processor) timeOp(operation string) func() {
	start := time.Now()
	return func() {
		p.metrics.ObserveOperationDuration(operation, time.Since(start).Seconds())
	}
}

// upstream wraps a failed store call and counts it.
func (p *Processor) upstream(err error, format string, args ...any) error {
	p.metrics.IncStoreErrors()
	return apperr.Upstream(err, format, args...)
}

// Join resolves a verified Telegram identity to a Player, creating one with
// the seed rating on first contact and syncing the display name and username
// on subsequent joins.
func (p *Processor) Join(ctx context.Context, identity telegram.Identity) (*league.Player, error) {
	defer p.timeOp("join")()

	existing, err := p.store.GetPlayerByTelegramID(ctx, identity.UserID)
	if err != nil {
		return nil, p.upstream(err, "looking up player by telegram id")
	}
	if existing != nil {
		name := identity.DisplayName()
		if existing.Name != name || existing.Username != identity.Username {
			if err := p.store.UpdatePlayerIdentity(ctx, existing.ID, name, identity.Username); err != nil {
				return nil, p.upstream(err, "syncing player identity")
			}
			existing.Name = name
			existing.Username = identity.Username
		}
		return existing, nil
	}

	player, err := p.store.CreatePlayer(ctx, &league.Player{
		TelegramID: identity.UserID,
		Name:       identity.DisplayName(),
		Username:   identity.Username,
		Rating:     p.rating.Seed,
	})
	if err != nil {
		return nil, p.upstream(err, "creating player")
	}
	log.Info("New player joined", "playerID", player.ID, "name", player.Name)
	return player, nil
}

// requirePlayer loads the acting player, failing with an authentication
// error when the id does not resolve to a joined player.
func (p *Processor) requirePlayer(ctx context.Context, id string) (*league.Player, error) {
	player, err := p.store.GetPlayer(ctx, id)
	if err != nil {
		return nil, p.upstream(err, "loading player %s", id)
	}
	if player == nil {
		return nil, apperr.Unauthenticated("join the league first")
	}
	return player, nil
}

// GetPlayer returns a single player's profile.
func (p *Processor) GetPlayer(ctx context.Context, id string) (*league.Player, error) {
	player, err := p.store.GetPlayer(ctx, id)
	if err != nil {
		return nil, p.upstream(err, "loading player %s", id)
	}
	if player == nil {
		return nil, apperr.NotFound("player %s not found", id)
	}
	return player, nil
}

// PlayerByTelegramID resolves a Telegram user to their player profile,
// failing with an authentication error when they have not joined yet.
func (p *Processor) PlayerByTelegramID(ctx context.Context, telegramID int64) (*league.Player, error) {
	player, err := p.store.GetPlayerByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, p.upstream(err, "looking up player by telegram id")
	}
	if player == nil {
		return nil, apperr.Unauthenticated("join the league first")
	}
	return player, nil
}

// pairKey builds the unordered in-flight key for a pair of players.
func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return "pair:" + a + ":" + b
}

// ResolvePair finds the pair for two players regardless of order, creating
// it when it does not exist yet. A created pair is seeded with the rounded
// average of its members' current ratings.
func (p *Processor) ResolvePair(ctx context.Context, playerA, playerB string) (*league.Pair, bool, error) {
	if playerA == playerB {
		return nil, false, apperr.Validation("a pair needs two distinct players")
	}

	a, err := p.store.GetPlayer(ctx, playerA)
	if err != nil {
		return nil, false, p.upstream(err, "loading player %s", playerA)
	}
	b, err := p.store.GetPlayer(ctx, playerB)
	if err != nil {
		return nil, false, p.upstream(err, "loading player %s", playerB)
	}
	if a == nil || b == nil {
		missing := playerA
		if a != nil {
			missing = playerB
		}
		return nil, false, apperr.Validation("player %s has not joined the league", missing)
	}

	if !p.locks.Acquire(pairKey(playerA, playerB)) {
		return nil, false, apperr.Conflict("pair for these players is being created, try again")
	}
	defer p.locks.Release(pairKey(playerA, playerB))

	existing, err := p.store.FindPair(ctx, playerA, playerB)
	if err != nil {
		return nil, false, p.upstream(err, "searching for pair")
	}
	if existing != nil {
		return existing, false, nil
	}

	seed := elo.Round(elo.Average(a.Rating, b.Rating))
	pair, err := p.store.CreatePair(ctx, &league.Pair{
		Player1: playerA,
		Player2: playerB,
		Rating:  seed,
	})
	if err != nil {
		return nil, false, p.upstream(err, "creating pair")
	}
	log.Info("New pair created", "pairID", pair.ID, "rating", seed)
	return pair, true, nil
}

// ReportMatch validates and stores a played match as PENDING_CONFIRMATION.
// No ratings move until an opponent confirms the result.
func (p *Processor) ReportMatch(ctx context.Context, actorID string, req ReportMatchRequest) (*league.ExpandedMatch, error) {
	defer p.timeOp("report")()

	if _, err := p.requirePlayer(ctx, actorID); err != nil {
		return nil, err
	}
	if req.Date == "" {
		req.Date = time.Now().Format("2006-01-02")
	}
	if req.PartnerID == actorID {
		return nil, apperr.Validation("you cannot partner with yourself")
	}
	if req.Opponent1ID == req.Opponent2ID {
		return nil, apperr.Validation("the opponent pair needs two distinct players")
	}
	for _, own := range []string{actorID, req.PartnerID} {
		if own == req.Opponent1ID || own == req.Opponent2ID {
			return nil, apperr.Validation("a player cannot be on both sides of a match")
		}
	}

	sets := make([]scoring.Set, len(req.Sets))
	for i, set := range req.Sets {
		sets[i] = scoring.Set{P1: set.P1, P2: set.P2}
	}
	if _, err := scoring.Summarize(sets); err != nil {
		return nil, apperr.ValidationWrap(err, "invalid set scores")
	}

	pair1, _, err := p.ResolvePair(ctx, actorID, req.PartnerID)
	if err != nil {
		return nil, err
	}
	pair2, _, err := p.ResolvePair(ctx, req.Opponent1ID, req.Opponent2ID)
	if err != nil {
		return nil, err
	}

	match, err := p.store.CreateMatch(ctx, &league.Match{
		Date:        req.Date,
		Time:        req.Time,
		Status:      league.StatusPendingConfirmation,
		Pair1:       pair1.ID,
		Pair2:       pair2.ID,
		InitiatedBy: actorID,
		Score:       scoring.FormatScore(sets),
	})
	if err != nil {
		return nil, p.upstream(err, "creating match")
	}

	setScores := make([]league.SetScore, len(sets))
	for i, set := range sets {
		winner := pair2.ID
		if set.P1 > set.P2 {
			winner = pair1.ID
		}
		setScores[i] = league.SetScore{
			MatchID:    match.ID,
			SetNo:      i + 1,
			P1:         set.P1,
			P2:         set.P2,
			WinnerPair: winner,
		}
	}
	if _, err := p.store.CreateSetScores(ctx, setScores); err != nil {
		return nil, p.upstream(err, "storing set scores for match %s", match.ID)
	}

	p.metrics.IncMatchesReported()
	log.Info("Match reported", "matchID", match.ID, "score", match.Score, "initiatedBy", actorID)

	expanded, err := p.expandMatch(ctx, *match)
	if err != nil {
		return nil, err
	}

	p.publishEvent(pubsub.TopicMatchReported, match, actorID)
	if err := p.notifier.SendMatchReported(expanded, false); err != nil {
		log.Error("Failed to send match reported notification", "error", err, "matchID", match.ID)
	}
	return expanded, nil
}

// publishEvent emits a lifecycle event; publish failures are logged, never
// surfaced to the caller.
func (p *Processor) publishEvent(topic string, match *league.Match, actorID string) {
	event := pubsub.MatchEvent{
		MatchID:     match.ID,
		Status:      string(match.Status),
		Pair1:       match.Pair1,
		Pair2:       match.Pair2,
		ActorID:     actorID,
		Score:       match.Score,
		ConfirmedBy: match.ConfirmedBy,
	}
	if err := p.pubsub.SendMessage(topic, event); err != nil {
		log.Error("Failed to publish lifecycle event", "error", err, "topic", topic, "matchID", match.ID)
	}
}

// expandMatch loads everything around a match for presentation.
func (p *Processor) expandMatch(ctx context.Context, match league.Match) (*league.ExpandedMatch, error) {
	pairs := make(map[string]*league.Pair)
	players := make(map[string]*league.Player)
	for _, pairID := range []string{match.Pair1, match.Pair2} {
		pair, err := p.store.GetPair(ctx, pairID)
		if err != nil {
			return nil, p.upstream(err, "loading pair %s", pairID)
		}
		if pair == nil {
			continue
		}
		pairs[pairID] = pair
		for _, playerID := range pair.Members() {
			if _, seen := players[playerID]; seen {
				continue
			}
			player, err := p.store.GetPlayer(ctx, playerID)
			if err != nil {
				return nil, p.upstream(err, "loading player %s", playerID)
			}
			if player != nil {
				players[playerID] = player
			}
		}
	}
	sets, err := p.store.ListSetScores(ctx, match.ID)
	if err != nil {
		return nil, p.upstream(err, "loading set scores for match %s", match.ID)
	}
	expanded := league.ExpandMatch(match, pairs, players, sets)
	return &expanded, nil
}

// ListPlayers returns all players ordered by rating descending.
func (p *Processor) ListPlayers(ctx context.Context) ([]league.Player, error) {
	players, err := p.store.ListPlayers(ctx)
	if err != nil {
		return nil, p.upstream(err, "listing players")
	}
	return players, nil
}

// ListPairs returns all pairs with their member players attached, ordered by
// rating descending.
func (p *Processor) ListPairs(ctx context.Context) ([]league.ExpandedPair, error) {
	pairs, err := p.store.ListPairs(ctx)
	if err != nil {
		return nil, p.upstream(err, "listing pairs")
	}
	players, err := p.playersByID(ctx)
	if err != nil {
		return nil, err
	}
	expanded := make([]league.ExpandedPair, len(pairs))
	for i := range pairs {
		expanded[i] = *league.ExpandPair(&pairs[i], players)
	}
	return expanded, nil
}

// ListMatches returns the most recent matches, fully expanded.
func (p *Processor) ListMatches(ctx context.Context, limit int) ([]league.ExpandedMatch, error) {
	matches, err := p.store.ListMatches(ctx, limit)
	if err != nil {
		return nil, p.upstream(err, "listing matches")
	}
	pairList, err := p.store.ListPairs(ctx)
	if err != nil {
		return nil, p.upstream(err, "listing pairs")
	}
	pairs := make(map[string]*league.Pair, len(pairList))
	for i := range pairList {
		pairs[pairList[i].ID] = &pairList[i]
	}
	players, err := p.playersByID(ctx)
	if err != nil {
		return nil, err
	}

	expanded := make([]league.ExpandedMatch, len(matches))
	for i, match := range matches {
		sets, err := p.store.ListSetScores(ctx, match.ID)
		if err != nil {
			return nil, p.upstream(err, "loading set scores for match %s", match.ID)
		}
		expanded[i] = league.ExpandMatch(match, pairs, players, sets)
	}
	return expanded, nil
}

// GetMatch returns a single match, fully expanded.
func (p *Processor) GetMatch(ctx context.Context, matchID string) (*league.ExpandedMatch, error) {
	match, err := p.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, p.upstream(err, "loading match %s", matchID)
	}
	if match == nil {
		return nil, apperr.NotFound("match %s not found", matchID)
	}
	return p.expandMatch(ctx, *match)
}

func (p *Processor) playersByID(ctx context.Context) (map[string]*league.Player, error) {
	list, err := p.store.ListPlayers(ctx)
	if err != nil {
		return nil, p.upstream(err, "listing players")
	}
	players := make(map[string]*league.Player, len(list))
	for i := range list {
		players[list[i].ID] = &list[i]
	}
	return players, nil
}
