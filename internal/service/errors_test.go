package service

import (
	"errors"
	"testing"

	"github.com/phrazzld/punishcards-api/internal/domain"
	"github.com/phrazzld/punishcards-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestSentinelErrors(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.Is(ErrNotOwned, domain.ErrForbidden))
	assert.True(t, errors.Is(ErrUsernameTaken, ErrConflict))
	assert.True(t, errors.Is(ErrEmailTaken, ErrConflict))
	assert.False(t, errors.Is(ErrUsernameTaken, ErrEmailTaken))
}

func TestCardServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *CardServiceError
		expected string
	}{
		{
			name:     "with underlying error",
			err:      NewCardServiceError("rate", "failed to save card", store.ErrUnavailable),
			expected: "card service rate failed: failed to save card: store unavailable",
		},
		{
			name:     "without underlying error",
			err:      NewCardServiceError("delete", "nothing to do", nil),
			expected: "card service delete failed: nothing to do",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}

	wrapped := NewCardServiceError("get", "failed to load card", store.ErrCardNotFound)
	assert.True(t, errors.Is(wrapped, store.ErrNotFound))
	var target *CardServiceError
	assert.True(t, errors.As(error(wrapped), &target))
}
