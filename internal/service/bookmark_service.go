package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/domain"
	"github.com/phrazzld/punishcards-api/internal/platform/logger"
	"github.com/phrazzld/punishcards-api/internal/store"
)

// BookmarkService manages a user's bookmarked cards.
type BookmarkService interface {
	// AddBookmark bookmarks cardID for userID. Bookmarking a card twice is
	// not an error.
	AddBookmark(ctx context.Context, userID, cardID uuid.UUID) error

	// RemoveBookmark removes cardID from userID's bookmarks. It fails with
	// a validation error when the card is not bookmarked.
	RemoveBookmark(ctx context.Context, userID, cardID uuid.UUID) error

	// ListBookmarks returns userID's bookmarked cards, newest card first,
	// optionally narrowed to a character. Bookmarks whose card has been
	// deleted are skipped.
	ListBookmarks(ctx context.Context, userID uuid.UUID, characterName string) ([]CardView, error)
}

type bookmarkServiceImpl struct {
	cards  store.CardStore
	users  store.UserStore
	opts   Options
	logger *slog.Logger
}

var _ BookmarkService = (*bookmarkServiceImpl)(nil)

// NewBookmarkService creates a new BookmarkService.
func NewBookmarkService(
	cards store.CardStore,
	users store.UserStore,
	opts Options,
	logger *slog.Logger,
) (BookmarkService, error) {
	if cards == nil {
		return nil, domain.NewValidationError("cardStore", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("userStore", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &bookmarkServiceImpl{
		cards:  cards,
		users:  users,
		opts:   opts.withDefaults(),
		logger: logger.With(slog.String("component", "bookmark_service")),
	}, nil
}

// AddBookmark implements BookmarkService.AddBookmark
func (s *bookmarkServiceImpl) AddBookmark(ctx context.Context, userID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()))

	_, err := runMutation(ctx, s.opts, log, mutation[*domain.User]{
		load: func(ctx context.Context) (*domain.User, error) { return s.users.GetByID(ctx, userID) },
		apply: func(u *domain.User) (bool, error) {
			if domain.HasBookmark(u, cardID) {
				return false, nil
			}
			// Checked on every attempt: the card may be deleted between retries.
			if err := s.cardExists(ctx, cardID); err != nil {
				return false, err
			}
			return domain.AddBookmark(u, cardID), nil
		},
		save: s.users.Update,
	})
	if err != nil {
		log.Debug("failed to add bookmark", slog.String("error", err.Error()))
		return err
	}

	log.Debug("bookmark added")
	return nil
}

// RemoveBookmark implements BookmarkService.RemoveBookmark
func (s *bookmarkServiceImpl) RemoveBookmark(ctx context.Context, userID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()))

	_, err := runMutation(ctx, s.opts, log, mutation[*domain.User]{
		load: func(ctx context.Context) (*domain.User, error) { return s.users.GetByID(ctx, userID) },
		apply: func(u *domain.User) (bool, error) {
			return true, domain.RemoveBookmark(u, cardID)
		},
		save: s.users.Update,
	})
	if err != nil {
		log.Debug("failed to remove bookmark", slog.String("error", err.Error()))
		return err
	}

	log.Debug("bookmark removed")
	return nil
}

// ListBookmarks implements BookmarkService.ListBookmarks
func (s *bookmarkServiceImpl) ListBookmarks(
	ctx context.Context,
	userID uuid.UUID,
	characterName string,
) ([]CardView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	userCtx, cancel := s.opts.bounded(ctx)
	user, err := s.users.GetByID(userCtx, userID)
	cancel()
	if err != nil {
		return nil, err
	}

	// Resolving the references through the card store drops dangling ones
	// and gives the card-creation ordering.
	filter := store.CardFilter{
		CharacterName: characterName,
		IDs:           append([]uuid.UUID{}, user.Bookmarks...),
	}

	findCtx, cancel := s.opts.bounded(ctx)
	cards, err := s.cards.Find(findCtx, filter, store.Page{})
	cancel()
	if err != nil {
		log.Error("failed to resolve bookmarks", slog.String("error", err.Error()))
		return nil, err
	}

	if skipped := len(user.Bookmarks) - len(cards); skipped > 0 && characterName == "" {
		log.Debug("skipped dangling bookmarks", slog.Int("count", skipped))
	}

	return newCardViews(cards, newViewer(user)), nil
}

func (s *bookmarkServiceImpl) cardExists(ctx context.Context, cardID uuid.UUID) error {
	ctx, cancel := s.opts.bounded(ctx)
	defer cancel()
	_, err := s.cards.GetByID(ctx, cardID)
	return err
}
