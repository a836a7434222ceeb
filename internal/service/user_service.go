package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/domain"
	"github.com/phrazzld/punishcards-api/internal/platform/logger"
	"github.com/phrazzld/punishcards-api/internal/service/auth"
	"github.com/phrazzld/punishcards-api/internal/store"
)

// UserService provides account operations.
type UserService interface {
	// Signup registers a new account. Usernames and emails must be unused.
	Signup(ctx context.Context, username, email, password string) (*domain.User, error)

	// Login checks credentials and issues an access token.
	// Unknown emails and wrong passwords both yield auth.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// LoginResult is a successfully authenticated user and their token.
type LoginResult struct {
	User  *domain.User
	Token string
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	tokens auth.JWTService
	opts   Options
	logger *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService
func NewUserService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	tokens auth.JWTService,
	opts Options,
	logger *slog.Logger,
) (*UserServiceImpl, error) {
	if users == nil {
		return nil, domain.NewValidationError("userStore", "cannot be nil", domain.ErrValidation)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", domain.ErrValidation)
	}
	if tokens == nil {
		return nil, domain.NewValidationError("tokens", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserServiceImpl{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		opts:   opts.withDefaults(),
		logger: logger.With("component", "user_service"),
	}, nil
}

// Signup creates a user with a hashed password.
func (s *UserServiceImpl) Signup(ctx context.Context, username, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, email, password, s.opts.Now())
	if err != nil {
		return nil, err
	}

	user.HashedPassword, err = s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = ""

	ctx, cancel := s.opts.bounded(ctx)
	defer cancel()

	if err := s.users.Insert(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrUsernameExists):
			return nil, ErrUsernameTaken
		case errors.Is(err, store.ErrEmailExists):
			return nil, ErrEmailTaken
		case errors.Is(err, store.ErrDuplicate):
			return nil, fmt.Errorf("%w: account already exists", ErrConflict)
		}
		log.Error("failed to create user",
			"error", err,
			"username", user.Username)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user signed up",
		"user_id", user.ID,
		"username", user.Username)

	return user, nil
}

// Login verifies an email and password pair.
func (s *UserServiceImpl) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	lookupCtx, cancel := s.opts.bounded(ctx)
	user, err := s.users.GetByEmail(lookupCtx, domain.NormalizeEmail(email))
	cancel()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("login attempt for unknown email")
			return nil, auth.ErrInvalidCredentials
		}
		log.Error("failed to retrieve user by email", "error", err)
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login attempt with wrong password", "user_id", user.ID)
		return nil, err
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info("user logged in", "user_id", user.ID)
	return &LoginResult{User: user, Token: token}, nil
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ctx, cancel := s.opts.bounded(ctx)
	defer cancel()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("user not found", "user_id", userID)
		} else {
			log.Error("failed to retrieve user",
				"error", err,
				"user_id", userID)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	return user, nil
}
