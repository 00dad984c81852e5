package processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/Fandor1in/padel-miniapp/internal/apperr"
	"github.com/Fandor1in/padel-miniapp/internal/elo"
	"github.com/Fandor1in/padel-miniapp/internal/league"
	"github.com/Fandor1in/padel-miniapp/internal/notifier"
	"github.com/Fandor1in/padel-miniapp/internal/pubsub"
	"github.com/Fandor1in/padel-miniapp/internal/scoring"
	"github.com/charmbracelet/log"
)

func matchKey(matchID string) string {
	return "match:" + matchID
}

// loadMatchForAction fetches a match and checks that actorID is a member of
// the opponent pair, the only side allowed to confirm, reject or dispute.
func (p *Processor) loadMatchForAction(ctx context.Context, actorID, matchID string) (*league.Match, *league.Pair, error) {
	match, err := p.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, nil, p.upstream(err, "loading match %s", matchID)
	}
	if match == nil {
		return nil, nil, apperr.NotFound("match %s not found", matchID)
	}

	pair1, err := p.store.GetPair(ctx, match.Pair1)
	if err != nil {
		return nil, nil, p.upstream(err, "loading pair %s", match.Pair1)
	}
	pair2, err := p.store.GetPair(ctx, match.Pair2)
	if err != nil {
		return nil, nil, p.upstream(err, "loading pair %s", match.Pair2)
	}

	opponents := pair2
	if pair2 != nil && pair2.Has(match.InitiatedBy) {
		opponents = pair1
	}
	if opponents == nil || !opponents.Has(actorID) {
		return nil, nil, apperr.Authorization("only an opponent can act on this match")
	}
	return match, opponents, nil
}

// ConfirmMatch records an opponent's confirmation. The transition to
// CONFIRMED happens at most once and is the single trigger for rating
// application; confirming an already confirmed match is a no-op success.
func (p *Processor) ConfirmMatch(ctx context.Context, actorID, matchID string) (*league.ExpandedMatch, error) {
	defer p.timeOp("confirm")()

	if _, err := p.requirePlayer(ctx, actorID); err != nil {
		return nil, err
	}

	if !p.locks.Acquire(matchKey(matchID)) {
		return nil, apperr.Conflict("another update for this match is in progress")
	}
	defer p.locks.Release(matchKey(matchID))

	match, opponents, err := p.loadMatchForAction(ctx, actorID, matchID)
	if err != nil {
		return nil, err
	}

	switch match.Status {
	case league.StatusConfirmed:
		return p.expandMatch(ctx, *match)
	case league.StatusRejected, league.StatusDisputed:
		return nil, apperr.Conflict("match %s is already %s", matchID, match.Status)
	}

	confirmedBy := appendUnique(match.ConfirmedBy, actorID)
	satisfied := true
	if p.confirm.RequireBoth {
		for _, member := range opponents.Members() {
			if !contains(confirmedBy, member) {
				satisfied = false
			}
		}
	}

	update := league.MatchUpdate{ConfirmedBy: confirmedBy}
	if satisfied {
		status := league.StatusConfirmed
		update.Status = &status
	}
	if err := p.store.UpdateMatch(ctx, matchID, update); err != nil {
		return nil, p.upstream(err, "updating match %s", matchID)
	}
	match.ConfirmedBy = confirmedBy

	if !satisfied {
		log.Info("Confirmation recorded, waiting for the other opponent", "matchID", matchID, "confirmedBy", confirmedBy)
		return p.expandMatch(ctx, *match)
	}

	match.Status = league.StatusConfirmed
	p.metrics.IncMatchesConfirmed()
	log.Info("Match confirmed", "matchID", matchID, "by", actorID)

	changes, err := p.applyRatings(ctx, match)
	if err != nil {
		// The match stays CONFIRMED; ratings were not touched.
		return nil, err
	}
	p.metrics.IncRatingApplications()

	expanded, err := p.expandMatch(ctx, *match)
	if err != nil {
		return nil, err
	}

	p.publishEvent(pubsub.TopicMatchConfirmed, match, actorID)
	if err := p.notifier.SendMatchConfirmed(expanded, changes, false); err != nil {
		log.Error("Failed to send match confirmed notification", "error", err, "matchID", matchID)
	}
	return expanded, nil
}

// RejectMatch records an opponent's rejection of a reported result, with an
// optional reason. Ratings never move for a rejected match.
func (p *Processor) RejectMatch(ctx context.Context, actorID, matchID, reason string) (*league.ExpandedMatch, error) {
	defer p.timeOp("reject")()

	if _, err := p.requirePlayer(ctx, actorID); err != nil {
		return nil, err
	}

	if !p.locks.Acquire(matchKey(matchID)) {
		return nil, apperr.Conflict("another update for this match is in progress")
	}
	defer p.locks.Release(matchKey(matchID))

	match, _, err := p.loadMatchForAction(ctx, actorID, matchID)
	if err != nil {
		return nil, err
	}

	switch match.Status {
	case league.StatusRejected:
		return p.expandMatch(ctx, *match)
	case league.StatusConfirmed, league.StatusDisputed:
		return nil, apperr.Conflict("match %s is already %s", matchID, match.Status)
	}

	status := league.StatusRejected
	update := league.MatchUpdate{Status: &status}
	if strings.TrimSpace(reason) != "" {
		update.DisputeReason = &reason
	}
	if err := p.store.UpdateMatch(ctx, matchID, update); err != nil {
		return nil, p.upstream(err, "updating match %s", matchID)
	}
	match.Status = status
	match.DisputeReason = reason

	p.metrics.IncMatchesRejected()
	log.Info("Match rejected", "matchID", matchID, "by", actorID, "reason", reason)

	expanded, err := p.expandMatch(ctx, *match)
	if err != nil {
		return nil, err
	}

	p.publishEvent(pubsub.TopicMatchRejected, match, actorID)
	if err := p.notifier.SendMatchRejected(expanded, false); err != nil {
		log.Error("Failed to send match rejected notification", "error", err, "matchID", matchID)
	}
	return expanded, nil
}

// DisputeMatch flags a reported result for manual review, with an optional
// reason. Ratings never move for a disputed match.
func (p *Processor) DisputeMatch(ctx context.Context, actorID, matchID, reason string) (*league.ExpandedMatch, error) {
	defer p.timeOp("dispute")()

	if _, err := p.requirePlayer(ctx, actorID); err != nil {
		return nil, err
	}

	if !p.locks.Acquire(matchKey(matchID)) {
		return nil, apperr.Conflict("another update for this match is in progress")
	}
	defer p.locks.Release(matchKey(matchID))

	match, _, err := p.loadMatchForAction(ctx, actorID, matchID)
	if err != nil {
		return nil, err
	}

	switch match.Status {
	case league.StatusDisputed:
		return p.expandMatch(ctx, *match)
	case league.StatusConfirmed, league.StatusRejected:
		return nil, apperr.Conflict("match %s is already %s", matchID, match.Status)
	}

	status := league.StatusDisputed
	update := league.MatchUpdate{Status: &status}
	if strings.TrimSpace(reason) != "" {
		update.DisputeReason = &reason
	}
	if err := p.store.UpdateMatch(ctx, matchID, update); err != nil {
		return nil, p.upstream(err, "updating match %s", matchID)
	}
	match.Status = status
	match.DisputeReason = reason

	p.metrics.IncMatchesDisputed()
	log.Warn("Match disputed", "matchID", matchID, "by", actorID, "reason", reason)

	expanded, err := p.expandMatch(ctx, *match)
	if err != nil {
		return nil, err
	}

	p.publishEvent(pubsub.TopicMatchDisputed, match, actorID)
	if err := p.notifier.SendMatchDisputed(expanded, reason, false); err != nil {
		log.Error("Failed to send match disputed notification", "error", err, "matchID", matchID)
	}
	return expanded, nil
}

// applyRatings applies the symmetric rating update for a confirmed match:
// once at pair level and once at player level on the averaged member
// ratings, each side rounded independently. Counters move with the outcome.
func (p *Processor) applyRatings(ctx context.Context, match *league.Match) ([]notifier.RatingChange, error) {
	pair1, err := p.store.GetPair(ctx, match.Pair1)
	if err != nil {
		return nil, p.upstream(err, "loading pair %s", match.Pair1)
	}
	pair2, err := p.store.GetPair(ctx, match.Pair2)
	if err != nil {
		return nil, p.upstream(err, "loading pair %s", match.Pair2)
	}
	if pair1 == nil || pair2 == nil {
		return nil, apperr.Integrity("match %s references a missing pair", match.ID)
	}

	players := make(map[string]*league.Player, 4)
	for _, id := range append(pair1.Members(), pair2.Members()...) {
		player, err := p.store.GetPlayer(ctx, id)
		if err != nil {
			return nil, p.upstream(err, "loading player %s", id)
		}
		if player == nil {
			return nil, apperr.Integrity("match %s references missing player %s", match.ID, id)
		}
		players[id] = player
	}

	stored, err := p.store.ListSetScores(ctx, match.ID)
	if err != nil {
		return nil, p.upstream(err, "loading set scores for match %s", match.ID)
	}
	sets := make([]scoring.Set, len(stored))
	for i, set := range stored {
		sets[i] = scoring.Set{P1: set.P1, P2: set.P2}
	}
	summary, err := scoring.Summarize(sets)
	if err != nil {
		return nil, apperr.Integrity("match %s has invalid stored set scores: %v", match.ID, err)
	}

	score1, score2 := 0.0, 1.0
	if summary.Pair1Won {
		score1, score2 = 1.0, 0.0
	}

	r1, r2 := float64(pair1.Rating), float64(pair2.Rating)
	pair1New := pair1.Rating + elo.Round(elo.Delta(r1, r2, score1, p.rating.KPair))
	pair2New := pair2.Rating + elo.Round(elo.Delta(r2, r1, score2, p.rating.KPair))

	avg1 := elo.Average(players[pair1.Player1].Rating, players[pair1.Player2].Rating)
	avg2 := elo.Average(players[pair2.Player1].Rating, players[pair2.Player2].Rating)
	playerDelta1 := elo.Round(elo.Delta(avg1, avg2, score1, p.rating.KPlayer))
	playerDelta2 := elo.Round(elo.Delta(avg2, avg1, score2, p.rating.KPlayer))

	changes := make([]notifier.RatingChange, 0, 6)

	apply := func(pair *league.Pair, newRating int, won bool, delta int) error {
		update := league.RecordUpdate{
			Rating:      newRating,
			GamesPlayed: pair.GamesPlayed + 1,
			Wins:        pair.Wins,
			Losses:      pair.Losses,
		}
		if won {
			update.Wins++
		} else {
			update.Losses++
		}
		if err := p.store.UpdatePairRecord(ctx, pair.ID, update); err != nil {
			return p.upstream(err, "updating pair %s", pair.ID)
		}
		changes = append(changes, notifier.RatingChange{
			Name:   pairLabel(pair, players),
			Before: pair.Rating,
			After:  newRating,
		})
		for _, id := range pair.Members() {
			player := players[id]
			memberUpdate := league.RecordUpdate{
				Rating:      player.Rating + delta,
				GamesPlayed: player.GamesPlayed + 1,
				Wins:        player.Wins,
				Losses:      player.Losses,
			}
			if won {
				memberUpdate.Wins++
			} else {
				memberUpdate.Losses++
			}
			if err := p.store.UpdatePlayerRecord(ctx, id, memberUpdate); err != nil {
				return p.upstream(err, "updating player %s", id)
			}
			changes = append(changes, notifier.RatingChange{
				Name:   player.Name,
				Before: player.Rating,
				After:  player.Rating + delta,
			})
		}
		return nil
	}

	if err := apply(pair1, pair1New, summary.Pair1Won, playerDelta1); err != nil {
		return nil, err
	}
	if err := apply(pair2, pair2New, !summary.Pair1Won, playerDelta2); err != nil {
		return nil, err
	}

	log.Info("Ratings applied", "matchID", match.ID,
		"pair1", fmt.Sprintf("%d->%d", pair1.Rating, pair1New),
		"pair2", fmt.Sprintf("%d->%d", pair2.Rating, pair2New))
	return changes, nil
}

func pairLabel(pair *league.Pair, players map[string]*league.Player) string {
	names := make([]string, 0, 2)
	for _, id := range pair.Members() {
		if player := players[id]; player != nil && player.Name != "" {
			names = append(names, player.Name)
		}
	}
	if len(names) < 2 {
		return pair.ID
	}
	return strings.Join(names, " & ")
}

func appendUnique(ids []string, id string) []string {
	if contains(ids, id) {
		return ids
	}
	return append(append([]string{}, ids...), id)
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
