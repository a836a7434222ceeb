package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/punishcards-api/internal/config"
	"github.com/phrazzld/punishcards-api/internal/platform/memory"
	"github.com/phrazzld/punishcards-api/internal/platform/mongo"
	"github.com/phrazzld/punishcards-api/internal/platform/postgres"
	"github.com/phrazzld/punishcards-api/internal/store"
)

// storage is the selected document store backend.
type storage struct {
	cards store.CardStore
	users store.UserStore
	close func(ctx context.Context) error
}

// openStorage connects the backend named by cfg.Driver and brings its
// schema or indexes up to date.
func openStorage(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*storage, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data will not survive a restart")
		return &storage{
			cards: memory.NewCardStore(),
			users: memory.NewUserStore(),
			close: func(context.Context) error { return nil },
		}, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("database connection established", slog.String("driver", cfg.Driver))
		return &storage{
			cards: postgres.NewPostgresCardStore(db, logger),
			users: postgres.NewPostgresUserStore(db, logger),
			close: func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("failed to create mongo indexes: %w", err)
		}
		logger.Info("database connection established",
			slog.String("driver", cfg.Driver),
			slog.String("database", cfg.MongoDatabase))
		return &storage{
			cards: mongo.NewCardStore(db, logger),
			users: mongo.NewUserStore(db, logger),
			close: client.Disconnect,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
