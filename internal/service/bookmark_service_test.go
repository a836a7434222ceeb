package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/domain"
	"github.com/phrazzld/punishcards-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddBookmark(t *testing.T) {
	t.Parallel()

	t.Run("adding twice keeps one reference", func(t *testing.T) {
		f := newFixture(t)
		user := f.addUser(t, "asuka_main")
		card := f.addCard(t, user, nil)

		require.NoError(t, f.bookmarks.AddBookmark(context.Background(), user.ID, card.ID))
		require.NoError(t, f.bookmarks.AddBookmark(context.Background(), user.ID, card.ID))

		stored, err := f.users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{card.ID}, stored.Bookmarks)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)
		author := f.addUser(t, "asuka_main")
		card := f.addCard(t, author, nil)

		err := f.bookmarks.AddBookmark(context.Background(), uuid.New(), card.ID)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("unknown card", func(t *testing.T) {
		f := newFixture(t)
		user := f.addUser(t, "asuka_main")

		err := f.bookmarks.AddBookmark(context.Background(), user.ID, uuid.New())
		assert.ErrorIs(t, err, store.ErrCardNotFound)
	})
}

// racingUserStore runs onConflict and reports a version conflict on the
// first update, then delegates.
type racingUserStore struct {
	store.UserStore
	onConflict func()
	updates    int
}

func (s *racingUserStore) Update(ctx context.Context, user *domain.User) error {
	s.updates++
	if s.updates == 1 {
		s.onConflict()
		return store.ErrVersionConflict
	}
	return s.UserStore.Update(ctx, user)
}

func TestAddBookmark_CardDeletedBetweenAttempts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	user := f.addUser(t, "asuka_main")
	card := f.addCard(t, user, nil)

	users := &racingUserStore{
		UserStore: f.users,
		onConflict: func() {
			require.NoError(t, f.cards.Delete(context.Background(), card.ID))
		},
	}
	bookmarks, err := NewBookmarkService(f.cards, users, Options{}, quietLogger())
	require.NoError(t, err)

	err = bookmarks.AddBookmark(context.Background(), user.ID, card.ID)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
	assert.Equal(t, 1, users.updates)

	stored, err := f.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Bookmarks)
}

func TestRemoveBookmark(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	user := f.addUser(t, "asuka_main")
	kept := f.addCard(t, user, nil)
	removed := f.addCard(t, user, nil)
	require.NoError(t, f.bookmarks.AddBookmark(context.Background(), user.ID, kept.ID))
	require.NoError(t, f.bookmarks.AddBookmark(context.Background(), user.ID, removed.ID))

	require.NoError(t, f.bookmarks.RemoveBookmark(context.Background(), user.ID, removed.ID))

	err := f.bookmarks.RemoveBookmark(context.Background(), user.ID, removed.ID)
	assert.ErrorIs(t, err, domain.ErrNotBookmarked)
	assert.ErrorIs(t, err, domain.ErrValidation)

	stored, err := f.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{kept.ID}, stored.Bookmarks)
}

func TestListBookmarks(t *testing.T) {
	t.Parallel()

	t.Run("newest card first and all marked", func(t *testing.T) {
		f := newFixture(t)
		user := f.addUser(t, "asuka_main")
		older := f.addCard(t, user, nil)
		newer := f.addCard(t, user, nil)
		f.addCard(t, user, nil)

		// Bookmark in creation order; the listing still shows newest first.
		require.NoError(t, f.bookmarks.AddBookmark(context.Background(), user.ID, older.ID))
		require.NoError(t, f.bookmarks.AddBookmark(context.Background(), user.ID, newer.ID))

		views, err := f.bookmarks.ListBookmarks(context.Background(), user.ID, "")
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, newer.ID, views[0].Card.ID)
		assert.Equal(t, older.ID, views[1].Card.ID)
		for _, v := range views {
			require.NotNil(t, v.Bookmarked)
			assert.True(t, *v.Bookmarked)
		}
	})

	t.Run("deleted cards are skipped", func(t *testing.T) {
		f := newFixture(t)
		author := f.addUser(t, "asuka_main")
		reader := f.addUser(t, "jin_main")
		gone := f.addCard(t, author, nil)
		kept := f.addCard(t, author, nil)
		require.NoError(t, f.bookmarks.AddBookmark(context.Background(), reader.ID, gone.ID))
		require.NoError(t, f.bookmarks.AddBookmark(context.Background(), reader.ID, kept.ID))

		require.NoError(t, f.cardSvc.DeleteCard(context.Background(), gone.ID, author.ID))

		views, err := f.bookmarks.ListBookmarks(context.Background(), reader.ID, "")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, kept.ID, views[0].Card.ID)

		stored, err := f.users.GetByID(context.Background(), reader.ID)
		require.NoError(t, err)
		assert.Len(t, stored.Bookmarks, 2, "dangling references are not cleaned up")
	})

	t.Run("character filter", func(t *testing.T) {
		f := newFixture(t)
		user := f.addUser(t, "asuka_main")
		asuka := f.addCard(t, user, nil)
		jin := f.addCard(t, user, func(in *domain.CardInput) { in.CharacterName = "Jin" })
		require.NoError(t, f.bookmarks.AddBookmark(context.Background(), user.ID, asuka.ID))
		require.NoError(t, f.bookmarks.AddBookmark(context.Background(), user.ID, jin.ID))

		views, err := f.bookmarks.ListBookmarks(context.Background(), user.ID, "JIN")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, jin.ID, views[0].Card.ID)
	})

	t.Run("no bookmarks", func(t *testing.T) {
		f := newFixture(t)
		user := f.addUser(t, "asuka_main")
		f.addCard(t, user, nil)

		views, err := f.bookmarks.ListBookmarks(context.Background(), user.ID, "")
		require.NoError(t, err)
		assert.Empty(t, views)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.bookmarks.ListBookmarks(context.Background(), uuid.New(), "")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
