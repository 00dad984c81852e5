// Package scoring validates reported padel set scores and derives the match
// outcome from them.
package scoring

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidScore        = errors.New("set scores must be non-negative integers")
	ErrDrawNotAllowed      = errors.New("a set cannot end in a draw")
	ErrInvalidSetScore     = errors.New("not a valid padel set score")
	ErrSetCount            = errors.New("a match must have exactly 2 or 3 sets")
	ErrThirdSetRequired    = errors.New("sets are split 1-1, a third set is required")
	ErrMatchAlreadyDecided = errors.New("match was decided in two sets, a third set is not allowed")
)

// Set is one reported set, scores for pair 1 and pair 2 respectively.
type Set struct {
	P1 int
	P2 int
}

// Summary is the outcome derived from a valid sequence of sets.
type Summary struct {
	SetsPair1 int
	SetsPair2 int
	// Pair1Won reports whether pair 1 took strictly more sets. The
	// composition rules guarantee one side always did.
	Pair1Won bool
}

// ValidateSet checks a single set against padel rules: the winner takes the
// set at 6 games with the loser at 4 or fewer, or at 7 games via 7-5 or a
// 7-6 tie break. It returns whether pair 1 won the set.
func ValidateSet(p1, p2 int) (bool, error) {
	if p1 < 0 || p2 < 0 {
		return false, fmt.Errorf("%w: got %d-%d", ErrInvalidScore, p1, p2)
	}
	if p1 == p2 {
		return false, fmt.Errorf("%w: got %d-%d", ErrDrawNotAllowed, p1, p2)
	}
	w, l := p1, p2
	if p2 > p1 {
		w, l = p2, p1
	}
	valid := (w == 6 && l <= 4) || (w == 7 && (l == 5 || l == 6))
	if !valid {
		return false, fmt.Errorf("%w: got %d-%d", ErrInvalidSetScore, p1, p2)
	}
	return p1 > p2, nil
}

// Summarize validates an ordered sequence of sets as a whole match: every set
// must be valid, a 1-1 split after two sets requires a third, and a 2-0 lead
// after two sets forbids one.
func Summarize(sets []Set) (Summary, error) {
	if len(sets) != 2 && len(sets) != 3 {
		return Summary{}, fmt.Errorf("%w: got %d", ErrSetCount, len(sets))
	}

	var sum Summary
	for i, set := range sets {
		pair1Won, err := ValidateSet(set.P1, set.P2)
		if err != nil {
			return Summary{}, fmt.Errorf("set %d: %w", i+1, err)
		}
		if pair1Won {
			sum.SetsPair1++
		} else {
			sum.SetsPair2++
		}

		// Composition rules are evaluated after the second set.
		if i == 1 {
			decided := sum.SetsPair1 == 2 || sum.SetsPair2 == 2
			if decided && len(sets) == 3 {
				return Summary{}, ErrMatchAlreadyDecided
			}
			if !decided && len(sets) == 2 {
				return Summary{}, ErrThirdSetRequired
			}
		}
	}

	sum.Pair1Won = sum.SetsPair1 > sum.SetsPair2
	return sum, nil
}

// FormatScore renders sets as the human-readable summary stored on a match,
// e.g. "6-4 4-6 7-5".
func FormatScore(sets []Set) string {
	score := ""
	for i, set := range sets {
		if i > 0 {
			score += " "
		}
		score += fmt.Sprintf("%d-%d", set.P1, set.P2)
	}
	return score
}
