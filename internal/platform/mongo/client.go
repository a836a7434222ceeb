package mongo

import (
	"context"
	"fmt"

	"github.com/phrazzld/punishcards-api/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	cardsCollection = "cards"
	usersCollection = "users"
)

// Connect opens a client for cfg.URL, verifies it with a ping and returns
// the configured database. The caller must Disconnect the client.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.URL).
		SetMaxPoolSize(uint64(cfg.MaxOpenConns)).
		SetMaxConnIdleTime(cfg.ConnMaxLifetime)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", MapError(err))
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", MapError(err))
	}

	return client, client.Database(cfg.MongoDatabase), nil
}

// EnsureIndexes creates the uniqueness and listing indexes. It is
// idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(usersEmailIndex),
		},
		{
			Keys:    bson.D{{Key: "username_lower", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(usersUsernameIndex),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", MapError(err))
	}

	_, err = db.Collection(cardsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("cards_created_at_id_idx"),
		},
		{
			Keys:    bson.D{{Key: "author_user_id", Value: 1}},
			Options: options.Index().SetName("cards_author_user_id_idx"),
		},
		{
			Keys:    bson.D{{Key: "tags.name", Value: 1}},
			Options: options.Index().SetName("cards_tags_name_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create card indexes: %w", MapError(err))
	}

	return nil
}
