package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/punishcards-api/internal/api/shared"
	"github.com/phrazzld/punishcards-api/internal/platform/logger"
	"github.com/phrazzld/punishcards-api/internal/service"
	"github.com/phrazzld/punishcards-api/internal/service/auth"
)

// UserHandler handles account endpoints.
type UserHandler struct {
	users  service.UserService
	tokens auth.JWTService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, tokens auth.JWTService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}

	return &UserHandler{
		users:  users,
		tokens: tokens,
		logger: logger.With(slog.String("component", "user_handler")),
	}
}

// Signup handles POST /api/users/signup. The new account is logged in
// straight away.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		handleServiceError(w, r, err, "Failed to create user")
		return
	}

	token, err := h.tokens.GenerateToken(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, r, err, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		UserID:   user.ID,
		Username: user.Username,
		Token:    token,
	})
}

// Login handles POST /api/users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, r, err, "Failed to log in")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).
		Debug("issued access token", slog.String("user_id", result.User.ID.String()))

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:   result.User.ID,
		Username: result.User.Username,
		Token:    result.Token,
	})
}

// GetUser handles GET /api/users/{userID}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := getPathUUID(r, "userID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err, "Failed to get user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}
