package elo_test

import (
	"testing"

	"github.com/Fandor1in/padel-miniapp/internal/elo"
	"github.com/stretchr/testify/assert"
)

func TestExpected(t *testing.T) {
	assert.InDelta(t, 0.5, elo.Expected(1000, 1000), 1e-9)
	assert.InDelta(t, 0.5, elo.Expected(1500, 1500), 1e-9)

	// 400 points of advantage is 10:1 odds.
	assert.InDelta(t, 10.0/11.0, elo.Expected(1400, 1000), 1e-9)
	assert.InDelta(t, 1.0/11.0, elo.Expected(1000, 1400), 1e-9)
}

func TestDeltaEqualRatings(t *testing.T) {
	for _, k := range []float64{16, 24, 32} {
		for _, r := range []float64{800, 1000, 1234} {
			assert.InDelta(t, k*0.5, elo.Delta(r, r, 1, k), 1e-9, "k=%v r=%v", k, r)
			assert.InDelta(t, -k*0.5, elo.Delta(r, r, 0, k), 1e-9, "k=%v r=%v", k, r)
		}
	}
}

func TestDeltaZeroSum(t *testing.T) {
	cases := [][2]float64{{1000, 1000}, {1200, 1000}, {950, 1400}, {1000, 1016}}
	for _, c := range cases {
		win := elo.Delta(c[0], c[1], 1, 32)
		loss := elo.Delta(c[1], c[0], 0, 32)
		assert.InDelta(t, win, -loss, 1e-9, "ratings %v", c)
	}
}

func TestDeltaFavoriteWinsSmall(t *testing.T) {
	// A much stronger side gains little from winning and loses a lot from losing.
	gain := elo.Delta(1400, 1000, 1, 32)
	loss := elo.Delta(1400, 1000, 0, 32)
	assert.Less(t, gain, 8.0)
	assert.Greater(t, gain, 0.0)
	assert.Less(t, loss, -24.0)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 16, elo.Round(16.0))
	assert.Equal(t, 16, elo.Round(15.5))
	assert.Equal(t, -16, elo.Round(-15.5))
	assert.Equal(t, 3, elo.Round(2.9))
	assert.Equal(t, 0, elo.Round(0.4))
}

func TestAverage(t *testing.T) {
	assert.InDelta(t, 1000, elo.Average(1000, 1000), 1e-9)
	assert.InDelta(t, 1016.5, elo.Average(1016, 1017), 1e-9)
}
