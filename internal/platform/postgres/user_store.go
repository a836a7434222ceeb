package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/domain"
	"github.com/phrazzld/punishcards-api/internal/platform/logger"
	"github.com/phrazzld/punishcards-api/internal/store"
)

const userColumns = "id, username, email, hashed_password, bookmarks, created_at, version"

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection that should be initialized and managed by the caller.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// Insert implements store.UserStore.Insert
func (s *PostgresUserStore) Insert(ctx context.Context, user *domain.User) error {
	if user.HashedPassword == "" {
		return store.NewStoreError("user", "insert", "missing password hash", store.ErrInvalidEntity)
	}

	bookmarks, err := encodeBookmarks(user.Bookmarks)
	if err != nil {
		return store.NewStoreError("user", "insert", "encode failed", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, 1)
	`,
		user.ID,
		user.Username,
		domain.NormalizeEmail(user.Email),
		user.HashedPassword,
		bookmarks,
		user.CreatedAt.UTC(),
	)
	if err != nil {
		mapped := MapError(err)
		if !store.IsDuplicateError(mapped) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to insert user",
				slog.String("user_id", user.ID.String()),
				slog.String("error", err.Error()))
		}
		return store.NewStoreError("user", "insert", "exec failed", mapped)
	}

	user.Version = 1
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return s.scanOne(ctx, row, "get")
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", domain.NormalizeEmail(email))
	return s.scanOne(ctx, row, "get_by_email")
}

// Update implements store.UserStore.Update
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	bookmarks, err := encodeBookmarks(user.Bookmarks)
	if err != nil {
		return store.NewStoreError("user", "update", "encode failed", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET username = $3, email = $4, hashed_password = $5, bookmarks = $6, version = version + 1
		WHERE id = $1 AND version = $2
	`,
		user.ID,
		user.Version,
		user.Username,
		domain.NormalizeEmail(user.Email),
		user.HashedPassword,
		bookmarks,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update user",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("user", "update", "exec failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrVersionConflict); err != nil {
		if !errors.Is(err, store.ErrVersionConflict) {
			return store.NewStoreError("user", "update", "result failed", MapError(err))
		}
		var exists bool
		err := s.db.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)", user.ID).Scan(&exists)
		if err != nil {
			return store.NewStoreError("user", "update", "existence check failed", MapError(err))
		}
		if !exists {
			return store.ErrUserNotFound
		}
		return store.ErrVersionConflict
	}

	user.Version++
	return nil
}

func (s *PostgresUserStore) scanOne(ctx context.Context, row rowScanner, op string) (*domain.User, error) {
	var (
		user      domain.User
		bookmarks []byte
	)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&bookmarks,
		&user.CreatedAt,
		&user.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load user",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", op, "query failed", MapError(err))
	}

	if err := json.Unmarshal(bookmarks, &user.Bookmarks); err != nil {
		return nil, store.NewStoreError("user", op, "decode failed", err)
	}
	if user.Bookmarks == nil {
		user.Bookmarks = []uuid.UUID{}
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}

func encodeBookmarks(ids []uuid.UUID) (string, error) {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode bookmarks: %w", err)
	}
	return string(raw), nil
}
