package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/punishcards-api/internal/api/shared"
	"github.com/phrazzld/punishcards-api/internal/domain"
	"github.com/phrazzld/punishcards-api/internal/platform/logger"
	"github.com/phrazzld/punishcards-api/internal/roster"
	"github.com/phrazzld/punishcards-api/internal/service"
)

// CardHandler handles card-related HTTP requests
type CardHandler struct {
	cards  service.CardService
	logger *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cards service.CardService, logger *slog.Logger) *CardHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		cards:  cards,
		logger: logger.With(slog.String("component", "card_handler")),
	}
}

// ListCards handles GET /api/cards.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	page, err := h.cards.ListAllCards(r.Context(), queryPage(r), viewerID(r))
	if err != nil {
		handleServiceError(w, r, err, "Failed to list cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page))
}

// ListCharacterCards handles GET /api/cards/character/{name}.
func (h *CardHandler) ListCharacterCards(w http.ResponseWriter, r *http.Request) {
	name, err := pathText(r, "name")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if canonical, ok := roster.Canonical(name); ok {
		name = canonical
	}

	page, err := h.cards.ListCharacterCards(r.Context(), service.CharacterQuery{
		CharacterName:      name,
		Tags:               queryList(r, "tags"),
		RequireYoutubeLink: queryBool(r, "youtube"),
		RequireTwitchLink:  queryBool(r, "twitch"),
		Page:               queryPage(r),
	}, viewerID(r))
	if err != nil {
		handleServiceError(w, r, err, "Failed to list cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page))
}

// ListUserCards handles GET /api/cards/user/{userID}.
func (h *CardHandler) ListUserCards(w http.ResponseWriter, r *http.Request) {
	authorID, err := getPathUUID(r, "userID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := h.cards.ListAuthorCards(r.Context(), authorID, queryPage(r), viewerID(r))
	if err != nil {
		handleServiceError(w, r, err, "Failed to list cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page))
}

// GetCard handles GET /api/cards/{cardID}.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "cardID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	view, err := h.cards.GetCard(r.Context(), cardID, viewerID(r))
	if err != nil {
		handleServiceError(w, r, err, "Failed to get card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(view))
}

// CreateCard handles POST /api/cards.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if canonical, ok := roster.Canonical(req.CharacterName); ok {
		req.CharacterName = canonical
	}

	view, err := h.cards.CreateCard(r.Context(), userID, req.toInput())
	if err != nil {
		handleServiceError(w, r, err, "Failed to create card")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("card created",
		slog.String("card_id", view.Card.ID.String()),
		slog.String("user_id", userID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(view))
}

// UpdateCard handles PUT /api/cards/{cardID}. Only the author may edit.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	cardID, err := getPathUUID(r, "cardID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req EditCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.CharacterName != nil {
		if canonical, ok := roster.Canonical(*req.CharacterName); ok {
			req.CharacterName = &canonical
		}
	}

	current, err := h.cards.GetCard(r.Context(), cardID, nil)
	if err != nil {
		handleServiceError(w, r, err, "Failed to update card")
		return
	}
	if current.Card.AuthorUserID != userID {
		HandleAPIError(w, r, service.ErrNotOwned, "")
		return
	}

	view, err := h.cards.EditCard(r.Context(), cardID, req.toPatch(), userID)
	if err != nil {
		handleServiceError(w, r, err, "Failed to update card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(view))
}

// DeleteCard handles DELETE /api/cards/{cardID}.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	cardID, err := getPathUUID(r, "cardID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.cards.DeleteCard(r.Context(), cardID, userID); err != nil {
		handleServiceError(w, r, err, "Failed to delete card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RateCard handles POST /api/cards/{cardID}/rating.
func (h *CardHandler) RateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	cardID, err := getPathUUID(r, "cardID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req RatingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := h.cards.RateCard(r.Context(), cardID, userID, req.Rating)
	if err != nil {
		handleServiceError(w, r, err, "Failed to rate card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(view))
}

// ReactToTag handles POST /api/cards/{cardID}/tags/{tag}/reaction.
func (h *CardHandler) ReactToTag(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	cardID, err := getPathUUID(r, "cardID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	tag, err := pathText(r, "tag")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req ReactionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.cards.ReactToTag(r.Context(), cardID, tag, userID, req.Kind)
	if err != nil {
		handleServiceError(w, r, err, "Failed to record reaction")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ReactionResponse{
		TagFound: result.TagFound,
		Reaction: string(result.State),
		Card:     cardToResponse(result.Card),
	})
}

// pathText returns a decoded, non-blank path parameter. chi routes on
// RawPath when it is set, leaving parameters escaped; otherwise they are
// already decoded and must not be unescaped again.
func pathText(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath != "" {
		decoded, err := url.PathUnescape(raw)
		if err != nil {
			return "", domain.NewValidationError(name, "has invalid format", nil)
		}
		raw = decoded
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.NewValidationError(name, "is required", nil)
	}
	return raw, nil
}
