package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/domain"
	"github.com/phrazzld/punishcards-api/internal/platform/memory"
	"github.com/phrazzld/punishcards-api/internal/store"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// steppingClock returns a time that advances by one minute per call so
// cards created in sequence have distinct, ordered timestamps.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Minute)
		return now
	}
}

type fixture struct {
	cards     *memory.CardStore
	users     *memory.UserStore
	cardSvc   CardService
	bookmarks BookmarkService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{cards: memory.NewCardStore(), users: memory.NewUserStore()}
	opts := Options{Now: steppingClock()}

	var err error
	f.cardSvc, err = NewCardService(f.cards, f.users, opts, quietLogger())
	require.NoError(t, err)
	f.bookmarks, err = NewBookmarkService(f.cards, f.users, opts, quietLogger())
	require.NoError(t, err)
	return f
}

func (f *fixture) addUser(t *testing.T, username string) *domain.User {
	t.Helper()

	user, err := domain.NewUser(username, username+"@example.com", "password123", time.Now())
	require.NoError(t, err)
	user.HashedPassword = "hashed"
	user.Password = ""
	require.NoError(t, f.users.Insert(context.Background(), user))
	return user
}

func (f *fixture) addCard(t *testing.T, author *domain.User, mutate func(in *domain.CardInput)) *domain.Card {
	t.Helper()

	in := domain.CardInput{
		CharacterName:   "Asuka",
		CardName:        "Asuka punishers",
		CardDescription: "Standing punishers",
		Tags:            []string{"WakeUp", "Punish"},
	}
	if mutate != nil {
		mutate(&in)
	}
	view, err := f.cardSvc.CreateCard(context.Background(), author.ID, in)
	require.NoError(t, err)
	return view.Card
}

// conflictingCardStore reports a version conflict for the first `conflicts`
// updates before delegating to the wrapped store.
type conflictingCardStore struct {
	store.CardStore
	conflicts int32
	updates   atomic.Int32
}

func (s *conflictingCardStore) Update(ctx context.Context, card *domain.Card) error {
	if s.updates.Add(1) <= s.conflicts {
		return store.ErrVersionConflict
	}
	return s.CardStore.Update(ctx, card)
}

// countingUserStore counts lookups by ID.
type countingUserStore struct {
	store.UserStore
	lookups atomic.Int32
}

func (s *countingUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.lookups.Add(1)
	return s.UserStore.GetByID(ctx, id)
}

// mockCardStore mocks store.CardStore.
type mockCardStore struct {
	mock.Mock
}

var _ store.CardStore = (*mockCardStore)(nil)

func (m *mockCardStore) Find(ctx context.Context, filter store.CardFilter, page store.Page) ([]*domain.Card, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Card), args.Error(1)
}

func (m *mockCardStore) Count(ctx context.Context, filter store.CardFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *mockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card).Clone(), args.Error(1)
}

func (m *mockCardStore) Insert(ctx context.Context, card *domain.Card) error {
	return m.Called(ctx, card).Error(0)
}

func (m *mockCardStore) Update(ctx context.Context, card *domain.Card) error {
	return m.Called(ctx, card).Error(0)
}

func (m *mockCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// hasDeadline matches contexts carrying a deadline.
var hasDeadline = mock.MatchedBy(func(ctx context.Context) bool {
	_, ok := ctx.Deadline()
	return ok
})
