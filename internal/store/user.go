package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Insert saves a new user and sets its Version to 1. The user must
	// already carry a HashedPassword.
	// Returns ErrEmailExists or ErrUsernameExists on a uniqueness violation.
	Insert(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address, compared
	// case-insensitively.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update replaces the stored user if and only if the stored version
	// equals user.Version, then increments user.Version.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrVersionConflict if it was modified since it was read.
	Update(ctx context.Context, user *domain.User) error
}
