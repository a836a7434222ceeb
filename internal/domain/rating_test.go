package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyRating(t *testing.T) {
	t.Parallel()

	t.Run("second rating from same user overwrites the first", func(t *testing.T) {
		card := &Card{}
		user := uuid.New()

		require.NoError(t, ApplyRating(card, user, 2))
		require.NoError(t, ApplyRating(card, user, 5))

		require.Len(t, card.Ratings, 1)
		assert.Equal(t, Rating{UserID: user, Value: 5}, card.Ratings[0])
	})

	t.Run("different users append", func(t *testing.T) {
		card := &Card{}
		require.NoError(t, ApplyRating(card, uuid.New(), 3))
		require.NoError(t, ApplyRating(card, uuid.New(), 4))
		assert.Len(t, card.Ratings, 2)
	})

	for _, value := range []int{0, 6, -1, 100} {
		t.Run("rejects out of range value", func(t *testing.T) {
			card := &Card{}
			err := ApplyRating(card, uuid.New(), value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Empty(t, card.Ratings)
		})
	}

	t.Run("rejects nil user", func(t *testing.T) {
		err := ApplyRating(&Card{}, uuid.Nil, 3)
		assert.True(t, errors.Is(err, ErrValidation))
	})
}

func TestAverageRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []int
		want   float64
	}{
		{name: "no ratings", values: nil, want: 0},
		{name: "single rating", values: []int{3}, want: 3},
		{name: "mixed ratings", values: []int{5, 3, 4}, want: 4.0},
		{name: "fractional mean", values: []int{5, 4}, want: 4.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := &Card{}
			for _, v := range tt.values {
				require.NoError(t, ApplyRating(card, uuid.New(), v))
			}
			assert.Equal(t, tt.want, AverageRating(card))
		})
	}
}

func TestRatingBy(t *testing.T) {
	t.Parallel()

	card := &Card{}
	user := uuid.New()
	require.NoError(t, ApplyRating(card, user, 2))

	value, ok := RatingBy(card, user)
	assert.True(t, ok)
	assert.Equal(t, 2, value)

	_, ok = RatingBy(card, uuid.New())
	assert.False(t, ok)
}
