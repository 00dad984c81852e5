// Package elo implements the symmetric rating update applied after a
// confirmed match.
package elo

import "math"

// Expected returns the logistic win expectation for a rating of a against b.
func Expected(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/400))
}

// Delta computes the rating change for side A given the observed score
// (1 for a win, 0 for a loss) and the K factor. Side B's delta is the
// negation from its own perspective.
func Delta(a, b, score, k float64) float64 {
	return k * (score - Expected(a, b))
}

// Round rounds a delta to the nearest integer. Winner and loser are rounded
// independently, so the applied deltas may differ by one point; that drift
// is accepted.
func Round(delta float64) int {
	return int(math.Round(delta))
}

// Average returns the mean of two ratings, used for the player-level update
// where each side plays as the average of its two members.
func Average(a, b int) float64 {
	return (float64(a) + float64(b)) / 2
}
