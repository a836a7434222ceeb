package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/punishcards-api/internal/api"
	apiMiddleware "github.com/phrazzld/punishcards-api/internal/api/middleware"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Timeout(app.config.Server.RequestTimeout))

	userHandler := api.NewUserHandler(app.userService, app.jwtService, app.logger)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	bookmarkHandler := api.NewBookmarkHandler(app.bookmarkService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/users/signup", userHandler.Signup)
		r.Post("/users/login", userHandler.Login)
		r.Get("/users/{userID}", userHandler.GetUser)
		r.Get("/characters", api.ListCharacters)

		// Readable by anyone, annotated for signed-in viewers
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.OptionalAuthenticate)
			r.Get("/cards", cardHandler.ListCards)
			r.Get("/cards/character/{name}", cardHandler.ListCharacterCards)
			r.Get("/cards/user/{userID}", cardHandler.ListUserCards)
			r.Get("/cards/{cardID}", cardHandler.GetCard)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

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

	r.Get("/health", api.Health)

	return r
}
