package league

import "sort"

// ExpandedPair is a pair with its member player records attached. Dangling
// references stay nil rather than failing the projection.
type ExpandedPair struct {
	Pair    Pair    `json:"pair"`
	Player1 *Player `json:"player1"`
	Player2 *Player `json:"player2"`
}

// ExpandedMatch is a match with both pairs expanded and its set scores
// attached, plus the derived fields the presentation layer needs.
type ExpandedMatch struct {
	Match             Match         `json:"match"`
	Pair1             *ExpandedPair `json:"pair1"`
	Pair2             *ExpandedPair `json:"pair2"`
	Sets              []SetScore    `json:"sets"`
	OpponentPlayerIDs []string      `json:"opponent_player_ids"`
	ConfirmedBy       []string      `json:"confirmed_by"`
}

// ExpandPair assembles an ExpandedPair from already-loaded players. It
// performs no reads and returns nil if the pair itself is nil.
func ExpandPair(pair *Pair, players map[string]*Player) *ExpandedPair {
	if pair == nil {
		return nil
	}
	return &ExpandedPair{
		Pair:    *pair,
		Player1: players[pair.Player1],
		Player2: players[pair.Player2],
	}
}

// ExpandMatch assembles an ExpandedMatch from already-loaded pairs, players
// and set scores. Sets are sorted by set number; confirmedBy is
// de-duplicated; opponentPlayerIds is the member union of the pair the
// initiator does not belong to.
func ExpandMatch(match Match, pairs map[string]*Pair, players map[string]*Player, sets []SetScore) ExpandedMatch {
	sorted := make([]SetScore, len(sets))
	copy(sorted, sets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SetNo < sorted[j].SetNo })

	expanded := ExpandedMatch{
		Match:       match,
		Pair1:       ExpandPair(pairs[match.Pair1], players),
		Pair2:       ExpandPair(pairs[match.Pair2], players),
		Sets:        sorted,
		ConfirmedBy: dedupe(match.ConfirmedBy),
	}

	opponents := opponentPair(match, pairs)
	if opponents != nil {
		expanded.OpponentPlayerIDs = opponents.Members()
	}
	return expanded
}

// opponentPair returns the pair that does not contain the initiator. When
// the initiator is dangling the second pair is assumed to be the opponents,
// matching how matches are created (pair1 is always the reporter's side).
func opponentPair(match Match, pairs map[string]*Pair) *Pair {
	pair1, pair2 := pairs[match.Pair1], pairs[match.Pair2]
	if pair1 != nil && pair1.Has(match.InitiatedBy) {
		return pair2
	}
	if pair2 != nil && pair2.Has(match.InitiatedBy) {
		return pair1
	}
	return pair2
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
