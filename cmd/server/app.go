package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/punishcards-api/internal/config"
	"github.com/phrazzld/punishcards-api/internal/service"
	"github.com/phrazzld/punishcards-api/internal/service/auth"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	storage *storage

	jwtService      auth.JWTService
	userService     service.UserService
	cardService     service.CardService
	bookmarkService service.BookmarkService
}

// newApplication connects storage and builds the services.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Duration("token_lifetime", cfg.Auth.TokenLifetime))

	app.storage, err = openStorage(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up storage: %w", err)
	}

	opts := service.OptionsFromConfig(cfg)

	app.userService, err = service.NewUserService(
		app.storage.users,
		auth.NewBcryptHasher(cfg.Auth.BCryptCost),
		app.jwtService,
		opts,
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.cardService, err = service.NewCardService(app.storage.cards, app.storage.users, opts, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	app.bookmarkService, err = service.NewBookmarkService(app.storage.cards, app.storage.users, opts, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create bookmark service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the storage connection.
func (app *application) cleanup() {
	if app.storage == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.storage.close(ctx); err != nil {
		app.logger.Error("failed to close storage", slog.String("error", err.Error()))
	}
	app.storage = nil
}
