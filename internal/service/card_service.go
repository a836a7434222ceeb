package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/phrazzld/punishcards-api/internal/domain"
	"github.com/phrazzld/punishcards-api/internal/platform/logger"
	"github.com/phrazzld/punishcards-api/internal/store"
)

// CharacterQuery selects the cards listed for one character.
type CharacterQuery struct {
	// CharacterName is matched as a case-insensitive substring. Required.
	CharacterName string
	// Tags matches cards carrying at least one of the names.
	Tags               []string
	RequireYoutubeLink bool
	RequireTwitchLink  bool
	Page               int
}

// ReactionResult is the outcome of a tag reaction.
type ReactionResult struct {
	// TagFound is false when the card has no tag of that name, in which
	// case nothing was recorded.
	TagFound bool
	State    domain.ReactionState
	Card     *CardView
}

// CardService provides card authoring, rating, reactions and listings.
type CardService interface {
	// CreateCard creates a card authored by authorID.
	CreateCard(ctx context.Context, authorID uuid.UUID, in domain.CardInput) (*CardView, error)

	// EditCard replaces the supplied fields of a card and stamps LastEditedAt.
	// Ownership is checked by the caller.
	EditCard(ctx context.Context, cardID uuid.UUID, patch domain.CardPatch, requestingUserID uuid.UUID) (*CardView, error)

	// DeleteCard removes a card. Only its author may delete it.
	DeleteCard(ctx context.Context, cardID, requestingUserID uuid.UUID) error

	// GetCard returns a card annotated for viewerID, which may be nil.
	GetCard(ctx context.Context, cardID uuid.UUID, viewerID *uuid.UUID) (*CardView, error)

	// RateCard records userID's 1-5 rating, replacing any earlier one.
	RateCard(ctx context.Context, cardID, userID uuid.UUID, value int) (*CardView, error)

	// ReactToTag toggles userID's like or dislike on a card's tag.
	ReactToTag(ctx context.Context, cardID uuid.UUID, tagName string, userID uuid.UUID, kind string) (*ReactionResult, error)

	// ListAllCards pages through every card, newest first.
	ListAllCards(ctx context.Context, page int, viewerID *uuid.UUID) (*CardPage, error)

	// ListCharacterCards pages through the cards of one character.
	ListCharacterCards(ctx context.Context, q CharacterQuery, viewerID *uuid.UUID) (*CardPage, error)

	// ListAuthorCards pages through the cards written by authorID.
	ListAuthorCards(ctx context.Context, authorID uuid.UUID, page int, viewerID *uuid.UUID) (*CardPage, error)
}

// cardServiceImpl implements the CardService interface
type cardServiceImpl struct {
	cards     store.CardStore
	users     store.UserStore
	usernames *lru.Cache
	opts      Options
	logger    *slog.Logger
}

var _ CardService = (*cardServiceImpl)(nil)

// NewCardService creates a new CardService.
// It returns an error if any of the required dependencies are nil.
func NewCardService(
	cards store.CardStore,
	users store.UserStore,
	opts Options,
	logger *slog.Logger,
) (CardService, error) {
	if cards == nil {
		return nil, domain.NewValidationError("cardStore", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("userStore", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts = opts.withDefaults()
	usernames, err := lru.New(opts.UsernameCacheSize)
	if err != nil {
		return nil, NewCardServiceError("init", "failed to create username cache", err)
	}

	return &cardServiceImpl{
		cards:     cards,
		users:     users,
		usernames: usernames,
		opts:      opts,
		logger:    logger.With(slog.String("component", "card_service")),
	}, nil
}

// CreateCard implements CardService.CreateCard
func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	authorID uuid.UUID,
	in domain.CardInput,
) (*CardView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewCard(authorID, "", in, s.opts.Now())
	if err != nil {
		return nil, err
	}

	card.AuthorUsername, err = s.authorUsername(ctx, authorID)
	if err != nil {
		log.Warn("failed to resolve card author",
			slog.String("author_id", authorID.String()),
			slog.String("error", err.Error()))
		return nil, NewCardServiceError("create", "failed to resolve author", err)
	}

	insertCtx, cancel := s.opts.bounded(ctx)
	defer cancel()
	if err := s.cards.Insert(insertCtx, card); err != nil {
		log.Error("failed to insert card",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return nil, NewCardServiceError("create", "failed to save card", err)
	}

	log.Info("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("author_id", authorID.String()),
		slog.String("character", card.CharacterName))

	view := newCardView(card, &viewer{id: authorID})
	return &view, nil
}

// EditCard implements CardService.EditCard
func (s *cardServiceImpl) EditCard(
	ctx context.Context,
	cardID uuid.UUID,
	patch domain.CardPatch,
	requestingUserID uuid.UUID,
) (*CardView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("card_id", cardID.String()),
		slog.String("editor_id", requestingUserID.String()))

	card, err := runMutation(ctx, s.opts, log, mutation[*domain.Card]{
		load: func(ctx context.Context) (*domain.Card, error) { return s.cards.GetByID(ctx, cardID) },
		apply: func(c *domain.Card) (bool, error) {
			return true, domain.ApplyPatch(c, patch, s.opts.Now())
		},
		save: s.cards.Update,
	})
	if err != nil {
		return nil, s.mutationError("edit", "failed to edit card", err)
	}

	log.Info("card edited")
	return s.viewFor(ctx, card, &requestingUserID)
}

// DeleteCard implements CardService.DeleteCard
func (s *cardServiceImpl) DeleteCard(ctx context.Context, cardID, requestingUserID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("card_id", cardID.String()),
		slog.String("user_id", requestingUserID.String()))

	card, err := s.getCard(ctx, cardID)
	if err != nil {
		return NewCardServiceError("delete", "failed to load card", err)
	}

	if card.AuthorUserID != requestingUserID {
		log.Warn("refusing to delete card owned by another user",
			slog.String("author_id", card.AuthorUserID.String()))
		return ErrNotOwned
	}

	deleteCtx, cancel := s.opts.bounded(ctx)
	defer cancel()
	if err := s.cards.Delete(deleteCtx, cardID); err != nil {
		log.Error("failed to delete card", slog.String("error", err.Error()))
		return NewCardServiceError("delete", "failed to delete card", err)
	}

	log.Info("card deleted")
	return nil
}

// GetCard implements CardService.GetCard
func (s *cardServiceImpl) GetCard(ctx context.Context, cardID uuid.UUID, viewerID *uuid.UUID) (*CardView, error) {
	card, err := s.getCard(ctx, cardID)
	if err != nil {
		return nil, NewCardServiceError("get", "failed to load card", err)
	}
	return s.viewFor(ctx, card, viewerID)
}

// RateCard implements CardService.RateCard
func (s *cardServiceImpl) RateCard(ctx context.Context, cardID, userID uuid.UUID, value int) (*CardView, error) {
	if err := domain.ValidateRatingValue(value); err != nil {
		return nil, err
	}

	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("card_id", cardID.String()),
		slog.String("user_id", userID.String()))

	card, err := runMutation(ctx, s.opts, log, mutation[*domain.Card]{
		load: func(ctx context.Context) (*domain.Card, error) { return s.cards.GetByID(ctx, cardID) },
		apply: func(c *domain.Card) (bool, error) {
			return true, domain.ApplyRating(c, userID, value)
		},
		save: s.cards.Update,
	})
	if err != nil {
		return nil, s.mutationError("rate", "failed to rate card", err)
	}

	log.Debug("card rated", slog.Int("rating", value))
	return s.viewFor(ctx, card, &userID)
}

// ReactToTag implements CardService.ReactToTag
func (s *cardServiceImpl) ReactToTag(
	ctx context.Context,
	cardID uuid.UUID,
	tagName string,
	userID uuid.UUID,
	kind string,
) (*ReactionResult, error) {
	reaction, err := domain.ParseReactionKind(kind)
	if err != nil {
		return nil, err
	}

	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("card_id", cardID.String()),
		slog.String("user_id", userID.String()),
		slog.String("tag", tagName))

	card, err := runMutation(ctx, s.opts, log, mutation[*domain.Card]{
		load: func(ctx context.Context) (*domain.Card, error) { return s.cards.GetByID(ctx, cardID) },
		apply: func(c *domain.Card) (bool, error) {
			return domain.ToggleReaction(c, tagName, userID, reaction), nil
		},
		save: s.cards.Update,
	})
	if err != nil {
		return nil, s.mutationError("react", "failed to record reaction", err)
	}

	found := domain.FindTag(card, tagName) >= 0
	if !found {
		log.Debug("reaction ignored, card has no such tag")
	}

	view, err := s.viewFor(ctx, card, &userID)
	if err != nil {
		return nil, err
	}

	return &ReactionResult{
		TagFound: found,
		State:    domain.ReactionStateOf(card, tagName, userID),
		Card:     view,
	}, nil
}

// ListAllCards implements CardService.ListAllCards
func (s *cardServiceImpl) ListAllCards(ctx context.Context, page int, viewerID *uuid.UUID) (*CardPage, error) {
	return s.list(ctx, "list all", store.CardFilter{}, page, viewerID)
}

// ListCharacterCards implements CardService.ListCharacterCards
func (s *cardServiceImpl) ListCharacterCards(
	ctx context.Context,
	q CharacterQuery,
	viewerID *uuid.UUID,
) (*CardPage, error) {
	name := strings.TrimSpace(q.CharacterName)
	if name == "" {
		return nil, domain.NewValidationError("character_name", "cannot be empty", nil)
	}

	filter := store.CardFilter{
		CharacterName:      name,
		Tags:               q.Tags,
		RequireYoutubeLink: q.RequireYoutubeLink,
		RequireTwitchLink:  q.RequireTwitchLink,
	}
	return s.list(ctx, "list character", filter, q.Page, viewerID)
}

// ListAuthorCards implements CardService.ListAuthorCards
func (s *cardServiceImpl) ListAuthorCards(
	ctx context.Context,
	authorID uuid.UUID,
	page int,
	viewerID *uuid.UUID,
) (*CardPage, error) {
	return s.list(ctx, "list author", store.CardFilter{AuthorUserID: authorID}, page, viewerID)
}

func (s *cardServiceImpl) list(
	ctx context.Context,
	op string,
	filter store.CardFilter,
	page int,
	viewerID *uuid.UUID,
) (*CardPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	page = NormalizePage(page)

	countCtx, cancel := s.opts.bounded(ctx)
	total, err := s.cards.Count(countCtx, filter)
	cancel()
	if err != nil {
		log.Error("failed to count cards", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, NewCardServiceError(op, "failed to count cards", err)
	}

	findCtx, cancel := s.opts.bounded(ctx)
	cards, err := s.cards.Find(findCtx, filter, pageWindow(page))
	cancel()
	if err != nil {
		log.Error("failed to find cards", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, NewCardServiceError(op, "failed to find cards", err)
	}

	v, err := loadViewer(ctx, s.opts, s.users, viewerID)
	if err != nil {
		return nil, NewCardServiceError(op, "failed to load viewer", err)
	}

	log.Debug("listed cards",
		slog.String("operation", op),
		slog.Int("page", page),
		slog.Int("returned", len(cards)),
		slog.Int("total", total))

	return newCardPage(newCardViews(cards, v), total, page), nil
}

func (s *cardServiceImpl) getCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	ctx, cancel := s.opts.bounded(ctx)
	defer cancel()
	return s.cards.GetByID(ctx, cardID)
}

func (s *cardServiceImpl) viewFor(ctx context.Context, card *domain.Card, viewerID *uuid.UUID) (*CardView, error) {
	v, err := loadViewer(ctx, s.opts, s.users, viewerID)
	if err != nil {
		return nil, NewCardServiceError("view", "failed to load viewer", err)
	}
	view := newCardView(card, v)
	return &view, nil
}

// authorUsername returns the username snapshotted onto new cards.
// Usernames never change, so cached entries stay valid.
func (s *cardServiceImpl) authorUsername(ctx context.Context, authorID uuid.UUID) (string, error) {
	if name, ok := s.usernames.Get(authorID); ok {
		return name.(string), nil
	}

	ctx, cancel := s.opts.bounded(ctx)
	defer cancel()

	user, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return "", err
	}

	s.usernames.Add(authorID, user.Username)
	return user.Username, nil
}

// mutationError keeps validation failures unwrapped so callers can read
// the offending field directly.
func (s *cardServiceImpl) mutationError(op, message string, err error) error {
	if errors.Is(err, domain.ErrValidation) {
		return err
	}
	return NewCardServiceError(op, message, err)
}
