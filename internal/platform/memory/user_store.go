package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/domain"
	"github.com/phrazzld/punishcards-api/internal/store"
)

// UserStore implements store.UserStore in memory. Emails and usernames are
// unique case-insensitively, matching the database backends.
type UserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uuid.UUID]*domain.User)}
}

var _ store.UserStore = (*UserStore)(nil)

// Insert implements store.UserStore.Insert.
func (s *UserStore) Insert(ctx context.Context, user *domain.User) error {
	if err := checkContext(ctx, "user", "insert"); err != nil {
		return err
	}
	if user.HashedPassword == "" {
		return store.NewStoreError("user", "insert", "missing password hash", store.ErrInvalidEntity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnique(user); err != nil {
		return err
	}
	if _, exists := s.users[user.ID]; exists {
		return store.NewStoreError("user", "insert", "user already exists", store.ErrDuplicate)
	}

	user.Version = 1
	s.users[user.ID] = storedUser(user)
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := checkContext(ctx, "user", "get"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u.Clone(), nil
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := checkContext(ctx, "user", "get"); err != nil {
		return nil, err
	}

	email = domain.NormalizeEmail(email)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements store.UserStore.Update.
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	if err := checkContext(ctx, "user", "update"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	if current.Version != user.Version {
		return store.ErrVersionConflict
	}
	if err := s.checkUnique(user); err != nil {
		return err
	}

	user.Version++
	s.users[user.ID] = storedUser(user)
	return nil
}

// checkUnique reports a duplicate when another user holds the same email
// or username. Callers must hold s.mu.
func (s *UserStore) checkUnique(user *domain.User) error {
	email := domain.NormalizeEmail(user.Email)
	for id, u := range s.users {
		if id == user.ID {
			continue
		}
		if u.Email == email {
			return store.ErrEmailExists
		}
		if strings.EqualFold(u.Username, user.Username) {
			return store.ErrUsernameExists
		}
	}
	return nil
}

// storedUser copies u without its plaintext password.
func storedUser(u *domain.User) *domain.User {
	out := u.Clone()
	out.Password = ""
	out.Email = domain.NormalizeEmail(out.Email)
	return out
}
