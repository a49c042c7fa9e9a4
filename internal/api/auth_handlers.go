package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/starford/promptdeck/internal/auth"
)

// AuthHandler serves the login and refresh endpoints.
type AuthHandler struct {
	mgr *auth.Manager
	// username → bcrypt password hash, from config.
	users map[string]string
}

// NewAuthHandler creates an AuthHandler over the configured users.
func NewAuthHandler(mgr *auth.Manager, users map[string]string) *AuthHandler {
	return &AuthHandler{mgr: mgr, users: users}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("username and password are required"))
		return
	}

	hash, ok := h.users[req.Username]
	if !ok || auth.VerifyPassword(hash, req.Password) != nil {
		// Identical response for unknown user and bad password.
		writeJSON(w, http.StatusUnauthorized, errorBody("invalid credentials"))
		return
	}

	pair, err := h.mgr.IssuePair(req.Username)
	if err != nil {
		slog.Error("issue token pair failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.RefreshToken == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("refresh_token is required"))
		return
	}

	claims, err := h.mgr.Validate(req.RefreshToken, auth.TokenTypeRefresh)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody("invalid refresh token"))
		return
	}
	pair, err := h.mgr.IssuePair(claims.Username)
	if err != nil {
		slog.Error("issue token pair failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, pair)
}
