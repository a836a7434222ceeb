package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/domain"
	"github.com/phrazzld/punishcards-api/internal/store"
)

// CardStore implements store.CardStore in memory.
type CardStore struct {
	mu    sync.RWMutex
	cards map[uuid.UUID]*domain.Card
}

// NewCardStore creates an empty CardStore.
func NewCardStore() *CardStore {
	return &CardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

var _ store.CardStore = (*CardStore)(nil)

// Find implements store.CardStore.Find.
func (s *CardStore) Find(ctx context.Context, filter store.CardFilter, page store.Page) ([]*domain.Card, error) {
	if err := checkContext(ctx, "card", "find"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := make([]*domain.Card, 0, len(s.cards))
	for _, c := range s.cards {
		if filter.Matches(c) {
			matched = append(matched, c)
		}
	}
	s.mu.RUnlock()

	store.SortCards(matched)
	window := page.Apply(matched)

	out := make([]*domain.Card, len(window))
	for i, c := range window {
		out[i] = c.Clone()
	}
	return out, nil
}

// Count implements store.CardStore.Count.
func (s *CardStore) Count(ctx context.Context, filter store.CardFilter) (int, error) {
	if err := checkContext(ctx, "card", "count"); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, c := range s.cards {
		if filter.Matches(c) {
			n++
		}
	}
	return n, nil
}

// GetByID implements store.CardStore.GetByID.
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if err := checkContext(ctx, "card", "get"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return c.Clone(), nil
}

// Insert implements store.CardStore.Insert.
func (s *CardStore) Insert(ctx context.Context, card *domain.Card) error {
	if err := checkContext(ctx, "card", "insert"); err != nil {
		return err
	}
	if err := card.Validate(); err != nil {
		return store.NewStoreError("card", "insert", "invalid card", errors.Join(store.ErrInvalidEntity, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cards[card.ID]; exists {
		return store.NewStoreError("card", "insert", "card already exists", store.ErrDuplicate)
	}
	card.Version = 1
	s.cards[card.ID] = card.Clone()
	return nil
}

// Update implements store.CardStore.Update.
func (s *CardStore) Update(ctx context.Context, card *domain.Card) error {
	if err := checkContext(ctx, "card", "update"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.cards[card.ID]
	if !ok {
		return store.ErrCardNotFound
	}
	if current.Version != card.Version {
		return store.ErrVersionConflict
	}

	card.Version++
	s.cards[card.ID] = card.Clone()
	return nil
}

// Delete implements store.CardStore.Delete.
func (s *CardStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := checkContext(ctx, "card", "delete"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(s.cards, id)
	return nil
}
