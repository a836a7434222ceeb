package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/punishcards-api/internal/api/middleware"
	"github.com/phrazzld/punishcards-api/internal/config"
	"github.com/phrazzld/punishcards-api/internal/platform/memory"
	"github.com/phrazzld/punishcards-api/internal/service"
	"github.com/phrazzld/punishcards-api/internal/service/auth"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type testServer struct {
	t       *testing.T
	handler http.Handler
	cards   *memory.CardStore
	users   *memory.UserStore
}

// newTestServer wires the handlers over in-memory stores the same way the
// server binary does.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cards := memory.NewCardStore()
	users := memory.NewUserStore()

	tokens, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:     "test-secret-that-is-long-enough-for-testing",
		TokenLifetime: time.Hour,
	})
	require.NoError(t, err)

	opts := service.Options{}
	userSvc, err := service.NewUserService(users, auth.NewBcryptHasher(bcrypt.MinCost), tokens, opts, quietLogger)
	require.NoError(t, err)
	cardSvc, err := service.NewCardService(cards, users, opts, quietLogger)
	require.NoError(t, err)
	bookmarkSvc, err := service.NewBookmarkService(cards, users, opts, quietLogger)
	require.NoError(t, err)

	userHandler := NewUserHandler(userSvc, tokens, quietLogger)
	cardHandler := NewCardHandler(cardSvc, quietLogger)
	bookmarkHandler := NewBookmarkHandler(bookmarkSvc, quietLogger)
	authMW := middleware.NewAuthMiddleware(tokens)

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware(quietLogger))
	r.Route("/api", func(r chi.Router) {
		r.Post("/users/signup", userHandler.Signup)
		r.Post("/users/login", userHandler.Login)
		r.Get("/users/{userID}", userHandler.GetUser)
		r.Get("/characters", ListCharacters)

		r.Group(func(r chi.Router) {
			r.Use(authMW.OptionalAuthenticate)
			r.Get("/cards", cardHandler.ListCards)
			r.Get("/cards/character/{name}", cardHandler.ListCharacterCards)
			r.Get("/cards/user/{userID}", cardHandler.ListUserCards)
			r.Get("/cards/{cardID}", cardHandler.GetCard)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate)
			r.Post("/cards", cardHandler.CreateCard)
			r.Put("/cards/{cardID}", cardHandler.UpdateCard)
			r.Delete("/cards/{cardID}", cardHandler.DeleteCard)
			r.Post("/cards/{cardID}/rating", cardHandler.RateCard)
			r.Post("/cards/{cardID}/tags/{tag}/reaction", cardHandler.ReactToTag)
			r.Get("/bookmarks", bookmarkHandler.ListBookmarks)
			r.Post("/bookmarks/{cardID}", bookmarkHandler.AddBookmark)
			r.Delete("/bookmarks/{cardID}", bookmarkHandler.RemoveBookmark)
		})
	})
	r.Get("/health", Health)

	return &testServer{t: t, handler: r, cards: cards, users: users}
}

// do sends a request with an optional JSON body and bearer token.
func (s *testServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			reader = bytes.NewBufferString(raw)
		} else {
			payload, err := json.Marshal(body)
			require.NoError(s.t, err)
			reader = bytes.NewReader(payload)
		}
	}

	req := httptest.NewRequest(method, path, reader).WithContext(context.Background())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

// signup registers a user and returns the auth response.
func (s *testServer) signup(username string) AuthResponse {
	s.t.Helper()

	w := s.do(http.MethodPost, "/api/users/signup", SignupRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	}, "")
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var resp AuthResponse
	decode(s.t, w, &resp)
	return resp
}

// createCard posts a minimal card and returns it.
func (s *testServer) createCard(token, character string, tags ...string) CardResponse {
	s.t.Helper()

	w := s.do(http.MethodPost, "/api/cards", CreateCardRequest{
		CharacterName:   character,
		CardName:        character + " punishers",
		CardDescription: "what to do after blocking",
		Tags:            tags,
	}, token)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var resp CardResponse
	decode(s.t, w, &resp)
	return resp
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
