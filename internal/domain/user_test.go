package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid", username: "asuka_main", email: "Asuka@Example.com ", password: "longenough"},
		{name: "empty username", username: "", email: "a@example.com", password: "longenough", wantErr: ErrEmptyUsername},
		{name: "bad username", username: "no spaces!", email: "a@example.com", password: "longenough", wantErr: ErrInvalidUsername},
		{name: "empty email", username: "asuka", email: "", password: "longenough", wantErr: ErrEmptyEmail},
		{name: "bad email", username: "asuka", email: "not-an-email", password: "longenough", wantErr: ErrInvalidEmail},
		{name: "short password", username: "asuka", email: "a@example.com", password: "short", wantErr: ErrPasswordTooShort},
		{
			name:     "long password",
			username: "asuka",
			email:    "a@example.com",
			password: string(make([]byte, MaxPasswordLength+1)),
			wantErr:  ErrPasswordTooLong,
		},
		{name: "no password at all", username: "asuka", email: "a@example.com", password: "", wantErr: ErrEmptyHashedPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := NewUser(tt.username, tt.email, tt.password, now)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				assert.True(t, errors.Is(err, ErrValidation))
				assert.Nil(t, user)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, user.ID)
			assert.Equal(t, "asuka@example.com", user.Email)
			assert.NotNil(t, user.Bookmarks)
			assert.Empty(t, user.Bookmarks)
		})
	}
}

func TestBookmarks(t *testing.T) {
	t.Parallel()

	t.Run("adding twice keeps one occurrence", func(t *testing.T) {
		u := &User{}
		card := uuid.New()

		assert.True(t, AddBookmark(u, card))
		assert.False(t, AddBookmark(u, card))
		assert.Equal(t, []uuid.UUID{card}, u.Bookmarks)
	})

	t.Run("insertion order is preserved", func(t *testing.T) {
		u := &User{}
		a, b, c := uuid.New(), uuid.New(), uuid.New()
		AddBookmark(u, a)
		AddBookmark(u, b)
		AddBookmark(u, c)

		require.NoError(t, RemoveBookmark(u, b))
		assert.Equal(t, []uuid.UUID{a, c}, u.Bookmarks)
	})

	t.Run("removing an absent card fails and leaves the set unchanged", func(t *testing.T) {
		a := uuid.New()
		u := &User{Bookmarks: []uuid.UUID{a}}

		err := RemoveBookmark(u, uuid.New())
		assert.ErrorIs(t, err, ErrNotBookmarked)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, []uuid.UUID{a}, u.Bookmarks)
	})

	t.Run("clone does not share the bookmark slice", func(t *testing.T) {
		u := &User{Bookmarks: []uuid.UUID{uuid.New()}}
		clone := u.Clone()
		AddBookmark(clone, uuid.New())
		assert.Len(t, u.Bookmarks, 1)
	})
}
