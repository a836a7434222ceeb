package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/punishcards-api/internal/api/shared"
	"github.com/phrazzld/punishcards-api/internal/roster"
	"github.com/phrazzld/punishcards-api/internal/service"
)

// BookmarkHandler handles the authenticated user's bookmarks.
type BookmarkHandler struct {
	bookmarks service.BookmarkService
	logger    *slog.Logger
}

// NewBookmarkHandler creates a new BookmarkHandler.
func NewBookmarkHandler(bookmarks service.BookmarkService, logger *slog.Logger) *BookmarkHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for BookmarkHandler")
	}

	return &BookmarkHandler{
		bookmarks: bookmarks,
		logger:    logger.With(slog.String("component", "bookmark_handler")),
	}
}

// ListBookmarks handles GET /api/bookmarks?character=.
func (h *BookmarkHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	character := strings.TrimSpace(r.URL.Query().Get("character"))
	if canonical, ok := roster.Canonical(character); ok {
		character = canonical
	}

	views, err := h.bookmarks.ListBookmarks(r.Context(), userID, character)
	if err != nil {
		handleServiceError(w, r, err, "Failed to list bookmarks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CardListResponse{Items: cardsToResponse(views)})
}

// AddBookmark handles POST /api/bookmarks/{cardID}.
func (h *BookmarkHandler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	cardID, err := getPathUUID(r, "cardID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.bookmarks.AddBookmark(r.Context(), userID, cardID); err != nil {
		handleServiceError(w, r, err, "Failed to add bookmark")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveBookmark handles DELETE /api/bookmarks/{cardID}.
func (h *BookmarkHandler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	cardID, err := getPathUUID(r, "cardID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.bookmarks.RemoveBookmark(r.Context(), userID, cardID); err != nil {
		handleServiceError(w, r, err, "Failed to remove bookmark")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
