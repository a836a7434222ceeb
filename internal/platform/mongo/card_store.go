package mongo

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/domain"
	"github.com/phrazzld/punishcards-api/internal/platform/logger"
	"github.com/phrazzld/punishcards-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CardStore implements store.CardStore on a MongoDB collection.
type CardStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewCardStore creates a CardStore on db's cards collection.
// If logger is nil, a default logger will be used.
func NewCardStore(db *mongo.Database, logger *slog.Logger) *CardStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CardStore{
		coll:   db.Collection(cardsCollection),
		logger: logger.With(slog.String("component", "card_store")),
	}
}

var _ store.CardStore = (*CardStore)(nil)

// Find implements store.CardStore.Find.
func (s *CardStore) Find(ctx context.Context, filter store.CardFilter, page store.Page) ([]*domain.Card, error) {
	opts := findOptions(page)

	cur, err := s.coll.Find(ctx, buildCardFilter(filter), opts)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query cards", slog.String("error", err.Error()))
		return nil, store.NewStoreError("card", "find", "query failed", MapError(err))
	}
	defer func() { _ = cur.Close(context.Background()) }()

	cards := []*domain.Card{}
	for cur.Next(ctx) {
		var doc cardDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, store.NewStoreError("card", "find", "decode failed", err)
		}
		card, err := doc.toDomain()
		if err != nil {
			return nil, store.NewStoreError("card", "find", "decode failed", err)
		}
		cards = append(cards, card)
	}
	if err := cur.Err(); err != nil {
		return nil, store.NewStoreError("card", "find", "cursor failed", MapError(err))
	}

	return cards, nil
}

// Count implements store.CardStore.Count.
func (s *CardStore) Count(ctx context.Context, filter store.CardFilter) (int, error) {
	n, err := s.coll.CountDocuments(ctx, buildCardFilter(filter))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count cards", slog.String("error", err.Error()))
		return 0, store.NewStoreError("card", "count", "query failed", MapError(err))
	}
	return int(n), nil
}

// GetByID implements store.CardStore.GetByID.
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	var doc cardDocument
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrCardNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get card",
			slog.String("card_id", id.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("card", "get", "query failed", MapError(err))
	}

	card, err := doc.toDomain()
	if err != nil {
		return nil, store.NewStoreError("card", "get", "decode failed", err)
	}
	return card, nil
}

// Insert implements store.CardStore.Insert.
func (s *CardStore) Insert(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return store.NewStoreError("card", "insert", "invalid card", errors.Join(store.ErrInvalidEntity, err))
	}

	doc := toCardDocument(card)
	doc.Version = 1

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to insert card",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("card", "insert", "insert failed", MapError(err))
	}

	card.Version = 1
	return nil
}

// Update implements store.CardStore.Update.
func (s *CardStore) Update(ctx context.Context, card *domain.Card) error {
	doc := toCardDocument(card)
	doc.Version = card.Version + 1

	filter := bson.D{{Key: "_id", Value: doc.ID}, {Key: "version", Value: card.Version}}
	res, err := s.coll.ReplaceOne(ctx, filter, doc)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update card",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("card", "update", "replace failed", MapError(err))
	}

	if res.MatchedCount == 0 {
		n, err := s.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: doc.ID}})
		if err != nil {
			return store.NewStoreError("card", "update", "existence check failed", MapError(err))
		}
		if n == 0 {
			return store.ErrCardNotFound
		}
		return store.ErrVersionConflict
	}

	card.Version++
	return nil
}

// Delete implements store.CardStore.Delete.
func (s *CardStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete card",
			slog.String("card_id", id.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("card", "delete", "delete failed", MapError(err))
	}
	if res.DeletedCount == 0 {
		return store.ErrCardNotFound
	}
	return nil
}

// buildCardFilter translates filter into a MongoDB query document.
func buildCardFilter(filter store.CardFilter) bson.D {
	q := bson.D{}

	if filter.CharacterName != "" {
		q = append(q, bson.E{Key: "character_name", Value: primitive.Regex{
			Pattern: regexp.QuoteMeta(filter.CharacterName),
			Options: "i",
		}})
	}

	if names := filter.TagNames(); len(names) > 0 {
		q = append(q, bson.E{Key: "tags.name", Value: bson.D{{Key: "$in", Value: names}}})
	}

	if filter.RequireYoutubeLink {
		q = append(q, bson.E{Key: "youtube_link", Value: nonEmpty()})
	}
	if filter.RequireTwitchLink {
		q = append(q, bson.E{Key: "twitch_link", Value: nonEmpty()})
	}

	if filter.AuthorUserID != uuid.Nil {
		q = append(q, bson.E{Key: "author_user_id", Value: filter.AuthorUserID.String()})
	}

	if filter.IDs != nil {
		ids := make([]string, len(filter.IDs))
		for i, id := range filter.IDs {
			ids[i] = id.String()
		}
		q = append(q, bson.E{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}})
	}

	return q
}

func nonEmpty() bson.D {
	return bson.D{{Key: "$exists", Value: true}, {Key: "$nin", Value: bson.A{"", nil}}}
}

func findOptions(page store.Page) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	if page.Skip > 0 {
		opts.SetSkip(int64(page.Skip))
	}
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
	}
	return opts
}
