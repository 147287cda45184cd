package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/secureqr/secureqr/internal/middleware"
	"github.com/secureqr/secureqr/internal/models"
)

// AuthService defines the interface for authentication operations required
// by the HTTP handlers.
type AuthService interface {
	// Register creates a new account from the signup fields.
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	// Login verifies credentials and returns the matching user.
	Login(ctx context.Context, email, password string) (*models.User, error)
	// Profile returns the account with the given ID.
	Profile(ctx context.Context, id string) (*models.User, error)
}

// TokenIssuer mints bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// AuthHandler handles HTTP requests for signup, login, and profile lookup.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Tokens issues bearer tokens on signup and login.
	Tokens TokenIssuer
}

// SignupRequest represents the JSON payload for user registration.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles POST /auth/signup.
// It expects a JSON body with non-empty name, email, and password fields,
// creates the account, and responds with a bearer token and the new user.
// A duplicate email yields 409.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "name, email, and password are required")
		return
	}

	user, err := h.AuthService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "name, email, and password are required")
		case errors.Is(err, models.ErrDuplicateEmail):
			writeError(w, http.StatusConflict, "user with this email already exists")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "user created successfully",
		"token":   token,
		"user":    user,
	})
}

// Login handles POST /auth/login.
// Invalid credentials yield a single generic 401 regardless of whether the
// email or the password was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "email and password are required")
		case errors.Is(err, models.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid email or password")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "login successful",
		"token":   token,
		"user":    user,
	})
}

// Me handles GET /auth/me for authenticated users.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	user, err := h.AuthService.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}
