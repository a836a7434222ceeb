package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/domain"
)

// CardStore defines the interface for card data persistence.
//
// A card is stored as one document: its move data, ratings and tags are
// written together, so every write is atomic per card.
type CardStore interface {
	// Find returns the cards matching filter, ordered by CreatedAt
	// descending with ties broken by ID ascending, then windowed by page.
	Find(ctx context.Context, filter CardFilter, page Page) ([]*domain.Card, error)

	// Count returns the number of cards matching filter, ignoring paging.
	Count(ctx context.Context, filter CardFilter) (int, error)

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// Insert saves a new card and sets its Version to 1.
	// Returns ErrDuplicate if a card with the same ID exists.
	Insert(ctx context.Context, card *domain.Card) error

	// Update replaces the stored card if and only if the stored version
	// equals card.Version, then increments card.Version.
	// Returns ErrCardNotFound if the card does not exist and
	// ErrVersionConflict if it was modified since it was read.
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card from the store by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	// Bookmarks referencing the card are left in place.
	Delete(ctx context.Context, id uuid.UUID) error
}
