package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/centralake/site-server-go/internal/errors"
	"github.com/centralake/site-server-go/internal/middleware"
	"github.com/centralake/site-server-go/internal/model"
	"github.com/centralake/site-server-go/internal/service"
)

type AuthHandler struct {
	auth          *service.AuthService
	sessions      *service.SessionManager
	secureCookies bool
}

func NewAuthHandler(auth *service.AuthService, sessions *service.SessionManager, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		sessions:      sessions,
		secureCookies: secureCookies,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	identity := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if identity == nil {
		// One uniform denial for every mismatch.
		writeError(w, apperrors.AuthDenied())
		return
	}

	token, err := h.sessions.Create(*identity)
	if err != nil {
		log.Error().Err(err).Msg("failed to create session")
		writeError(w, apperrors.Internal("Failed to create session"))
		return
	}

	middleware.SetSessionCookie(w, cookieForRole(identity.Role), token, h.secureCookies)
	writeJSON(w, http.StatusOK, map[string]any{"user": identity})
}

// POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{middleware.AdminSessionCookie, middleware.PortalSessionCookie} {
		if cookie, err := r.Cookie(name); err == nil && cookie.Value != "" {
			h.sessions.Delete(cookie.Value)
		}
		middleware.ClearSessionCookie(w, name)
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// GET /api/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"user": middleware.GetIdentity(r.Context())})
}

func cookieForRole(role model.Role) string {
	if role == model.RoleAdmin {
		return middleware.AdminSessionCookie
	}
	return middleware.PortalSessionCookie
}
