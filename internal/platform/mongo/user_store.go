package mongo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/domain"
	"github.com/phrazzld/punishcards-api/internal/platform/logger"
	"github.com/phrazzld/punishcards-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserStore implements store.UserStore on a MongoDB collection. Uniqueness
// of email and username relies on the indexes created by EnsureIndexes.
type UserStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewUserStore creates a UserStore on db's users collection.
func NewUserStore(db *mongo.Database, logger *slog.Logger) *UserStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{
		coll:   db.Collection(usersCollection),
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*UserStore)(nil)

// Insert implements store.UserStore.Insert.
func (s *UserStore) Insert(ctx context.Context, user *domain.User) error {
	if user.HashedPassword == "" {
		return store.NewStoreError("user", "insert", "missing password hash", store.ErrInvalidEntity)
	}

	doc := toUserDocument(user)
	doc.Version = 1

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		mapped := MapError(err)
		if !store.IsDuplicateError(mapped) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to insert user",
				slog.String("user_id", user.ID.String()),
				slog.String("error", err.Error()))
		}
		return store.NewStoreError("user", "insert", "insert failed", mapped)
	}

	user.Version = 1
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}}, "get")
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: domain.NormalizeEmail(email)}}, "get_by_email")
}

// Update implements store.UserStore.Update.
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	doc := toUserDocument(user)
	doc.Version = user.Version + 1

	filter := bson.D{{Key: "_id", Value: doc.ID}, {Key: "version", Value: user.Version}}
	res, err := s.coll.ReplaceOne(ctx, filter, doc)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update user",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("user", "update", "replace failed", MapError(err))
	}

	if res.MatchedCount == 0 {
		n, err := s.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: doc.ID}})
		if err != nil {
			return store.NewStoreError("user", "update", "existence check failed", MapError(err))
		}
		if n == 0 {
			return store.ErrUserNotFound
		}
		return store.ErrVersionConflict
	}

	user.Version++
	return nil
}

func (s *UserStore) findOne(ctx context.Context, filter bson.D, op string) (*domain.User, error) {
	var doc userDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load user",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", op, "query failed", MapError(err))
	}

	user, err := doc.toDomain()
	if err != nil {
		return nil, store.NewStoreError("user", op, "decode failed", err)
	}
	return user, nil
}
