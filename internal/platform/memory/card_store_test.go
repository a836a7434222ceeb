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

func newCard(t *testing.T, character string, createdAt time.Time) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(uuid.New(), "author", domain.CardInput{
		CharacterName:   character,
		CardName:        "card",
		CardDescription: "description",
	}, createdAt)
	require.NoError(t, err)
	return card
}

func TestCardStore_InsertAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewCardStore()

	card := newCard(t, "Jin", time.Now())
	require.NoError(t, s.Insert(ctx, card))
	assert.Equal(t, int64(1), card.Version)

	got, err := s.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, card, got)

	// Returned cards are copies.
	got.CardName = "changed"
	again, err := s.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "card", again.CardName)

	err = s.Insert(ctx, card)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestCardStore_UpdateChecksVersion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewCardStore()

	card := newCard(t, "Jin", time.Now())
	require.NoError(t, s.Insert(ctx, card))

	first, err := s.GetByID(ctx, card.ID)
	require.NoError(t, err)
	second, err := s.GetByID(ctx, card.ID)
	require.NoError(t, err)

	first.CardName = "first"
	require.NoError(t, s.Update(ctx, first))
	assert.Equal(t, int64(2), first.Version)

	second.CardName = "second"
	assert.ErrorIs(t, s.Update(ctx, second), store.ErrVersionConflict)

	stored, err := s.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", stored.CardName)

	missing := newCard(t, "Jin", time.Now())
	assert.ErrorIs(t, s.Update(ctx, missing), store.ErrCardNotFound)
}

func TestCardStore_FindPagesInOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewCardStore()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 25; i++ {
		card := newCard(t, "Jin", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.Insert(ctx, card))
		ids = append(ids, card.ID)
	}
	require.NoError(t, s.Insert(ctx, newCard(t, "Kazuya", base)))

	filter := store.CardFilter{CharacterName: "jin"}
	total, err := s.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 25, total)

	first, err := s.Find(ctx, filter, store.Page{Skip: 0, Limit: 10})
	require.NoError(t, err)
	require.Len(t, first, 10)
	assert.Equal(t, ids[24], first[0].ID)

	third, err := s.Find(ctx, filter, store.Page{Skip: 20, Limit: 10})
	require.NoError(t, err)
	require.Len(t, third, 5)
	assert.Equal(t, ids[0], third[4].ID)

	beyond, err := s.Find(ctx, filter, store.Page{Skip: 30, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestCardStore_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewCardStore()

	card := newCard(t, "Jin", time.Now())
	require.NoError(t, s.Insert(ctx, card))
	require.NoError(t, s.Delete(ctx, card.ID))
	assert.ErrorIs(t, s.Delete(ctx, card.ID), store.ErrCardNotFound)
}

func TestCardStore_CancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCardStore().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
