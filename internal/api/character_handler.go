package api

import (
	"net/http"
	"strconv"

	"github.com/phrazzld/punishcards-api/internal/api/shared"
	"github.com/phrazzld/punishcards-api/internal/roster"
)

// ListCharacters handles GET /api/characters?q=&limit=. Without a query the
// whole roster is returned alphabetically; with one, names are ranked by
// fuzzy match.
func ListCharacters(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = 0
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CharacterListResponse{
		Characters: roster.Suggest(r.URL.Query().Get("q"), limit),
	})
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
