package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/domain"
	"github.com/phrazzld/punishcards-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T, username, email string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(username, email, "password123", time.Now())
	require.NoError(t, err)
	u.HashedPassword = "hash"
	return u
}

func TestUserStore_InsertAndLookup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewUserStore()

	u := newUser(t, "eddy_main", "eddy@example.com")
	require.NoError(t, s.Insert(ctx, u))
	assert.Equal(t, int64(1), u.Version)

	byID, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, byID.Password)
	assert.Equal(t, "hash", byID.HashedPassword)

	byEmail, err := s.GetByEmail(ctx, "EDDY@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	_, err = s.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserStore_Uniqueness(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewUserStore()

	require.NoError(t, s.Insert(ctx, newUser(t, "eddy_main", "eddy@example.com")))

	err := s.Insert(ctx, newUser(t, "other", "Eddy@Example.com"))
	assert.ErrorIs(t, err, store.ErrEmailExists)

	err = s.Insert(ctx, newUser(t, "EDDY_MAIN", "other@example.com"))
	assert.ErrorIs(t, err, store.ErrUsernameExists)
}

func TestUserStore_UpdateChecksVersion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewUserStore()

	u := newUser(t, "eddy_main", "eddy@example.com")
	require.NoError(t, s.Insert(ctx, u))

	stale, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)

	fresh, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	domain.AddBookmark(fresh, uuid.New())
	require.NoError(t, s.Update(ctx, fresh))

	domain.AddBookmark(stale, uuid.New())
	assert.ErrorIs(t, s.Update(ctx, stale), store.ErrVersionConflict)

	stored, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, fresh.Bookmarks, stored.Bookmarks)
}
