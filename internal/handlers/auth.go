package handlers

import (
	"errors"
	"net/http"

	"github.com/crucial707/listing-admin/internal/auth"
	"github.com/crucial707/listing-admin/internal/middleware"
	"github.com/crucial707/listing-admin/internal/models"
	"github.com/crucial707/listing-admin/internal/repo"
	"go.uber.org/zap"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users  *repo.UserRepo
	Tokens *auth.TokenService
	Log    *zap.SugaredLogger
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// ==========================
// Login
// ==========================

// Login exchanges a username and password for a session token. Unknown users
// and wrong passwords get the same 401 so usernames cannot be probed.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if !decodeJSON(w, r, &input) {
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONError(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.Users.GetByUsername(r.Context(), input.Username)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			h.Log.Errorw("login: load user", "username", input.Username, "error", err)
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
			return
		}
		JSONError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, input.Password); err != nil {
		h.Log.Infow("login: wrong password", "user_id", user.ID)
		JSONError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.Tokens.Issue(user)
	if err != nil {
		h.Log.Errorw("login: issue token", "user_id", user.ID, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	h.Log.Infow("login", "user_id", user.ID, "role", user.Role)
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// ==========================
// Verify
// ==========================

// Verify returns the caller's identity. It runs behind RequireUser.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		JSONError(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*models.User{"user": user})
}
