package scoring_test

import (
	"fmt"
	"testing"

	"github.com/Fandor1in/padel-miniapp/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSet(t *testing.T) {
	tests := []struct {
		p1, p2   int
		pair1Won bool
		wantErr  error
	}{
		{6, 0, true, nil},
		{6, 4, true, nil},
		{0, 6, false, nil},
		{4, 6, false, nil},
		{7, 5, true, nil},
		{5, 7, false, nil},
		{7, 6, true, nil},
		{6, 7, false, nil},
		{6, 5, false, scoring.ErrInvalidSetScore},
		{7, 4, false, scoring.ErrInvalidSetScore},
		{8, 6, false, scoring.ErrInvalidSetScore},
		{5, 3, false, scoring.ErrInvalidSetScore},
		{6, 6, false, scoring.ErrDrawNotAllowed},
		{0, 0, false, scoring.ErrDrawNotAllowed},
		{-1, 6, false, scoring.ErrInvalidScore},
		{6, -2, false, scoring.ErrInvalidScore},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-%d", tt.p1, tt.p2), func(t *testing.T) {
			pair1Won, err := scoring.ValidateSet(tt.p1, tt.p2)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.pair1Won, pair1Won)
		})
	}
}

func TestValidateSetExhaustiveRule(t *testing.T) {
	// The acceptance rule over winner/loser game counts is
	// (w==6 && l<=4) || (w==7 && (l==5 || l==6)).
	for w := 0; w <= 10; w++ {
		for l := 0; l < w; l++ {
			want := (w == 6 && l <= 4) || (w == 7 && (l == 5 || l == 6))
			_, err := scoring.ValidateSet(w, l)
			assert.Equal(t, want, err == nil, "score %d-%d", w, l)

			// Symmetric: the same games seen from the other side.
			_, err = scoring.ValidateSet(l, w)
			assert.Equal(t, want, err == nil, "score %d-%d", l, w)
		}
	}
}

func TestSummarize(t *testing.T) {
	t.Run("two straight sets", func(t *testing.T) {
		sum, err := scoring.Summarize([]scoring.Set{{6, 4}, {7, 5}})
		require.NoError(t, err)
		assert.True(t, sum.Pair1Won)
		assert.Equal(t, 2, sum.SetsPair1)
		assert.Equal(t, 0, sum.SetsPair2)
	})

	t.Run("three sets decided by the third", func(t *testing.T) {
		sum, err := scoring.Summarize([]scoring.Set{{6, 4}, {4, 6}, {7, 5}})
		require.NoError(t, err)
		assert.True(t, sum.Pair1Won)
		assert.Equal(t, 2, sum.SetsPair1)
		assert.Equal(t, 1, sum.SetsPair2)
	})

	t.Run("opponents win in three", func(t *testing.T) {
		sum, err := scoring.Summarize([]scoring.Set{{6, 0}, {0, 6}, {5, 7}})
		require.NoError(t, err)
		assert.False(t, sum.Pair1Won)
	})

	t.Run("split after two requires a third set", func(t *testing.T) {
		_, err := scoring.Summarize([]scoring.Set{{6, 0}, {0, 6}})
		assert.ErrorIs(t, err, scoring.ErrThirdSetRequired)
	})

	t.Run("decided after two forbids a third set", func(t *testing.T) {
		_, err := scoring.Summarize([]scoring.Set{{6, 0}, {6, 1}, {6, 2}})
		assert.ErrorIs(t, err, scoring.ErrMatchAlreadyDecided)
	})

	t.Run("invalid set is reported with its position", func(t *testing.T) {
		_, err := scoring.Summarize([]scoring.Set{{6, 4}, {6, 5}})
		require.Error(t, err)
		assert.ErrorIs(t, err, scoring.ErrInvalidSetScore)
		assert.Contains(t, err.Error(), "set 2")
	})

	t.Run("wrong set count", func(t *testing.T) {
		_, err := scoring.Summarize([]scoring.Set{{6, 4}})
		assert.ErrorIs(t, err, scoring.ErrSetCount)

		_, err = scoring.Summarize(nil)
		assert.ErrorIs(t, err, scoring.ErrSetCount)

		_, err = scoring.Summarize([]scoring.Set{{6, 4}, {4, 6}, {6, 4}, {6, 4}})
		assert.ErrorIs(t, err, scoring.ErrSetCount)
	})
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "6-4 4-6 7-5", scoring.FormatScore([]scoring.Set{{6, 4}, {4, 6}, {7, 5}}))
	assert.Equal(t, "6-0 6-1", scoring.FormatScore([]scoring.Set{{6, 0}, {6, 1}}))
}
