package middleware

import (
	"context"
	"net/http"

	"github.com/centralake/site-server-go/internal/config"
	"github.com/centralake/site-server-go/internal/model"
)

const (
	AdminSessionCookie  = "admin_session"
	PortalSessionCookie = "portal_session"
)

type contextKey string

const IdentityContextKey contextKey = "identity"

// GetIdentity returns the authenticated identity on the request, or nil.
func GetIdentity(ctx context.Context) *model.Identity {
	if identity, ok := ctx.Value(IdentityContextKey).(*model.Identity); ok {
		return identity
	}
	return nil
}

// SessionValidator resolves a session token to a live identity.
type SessionValidator interface {
	Validate(token string) *model.Identity
}

type SessionMiddleware struct {
	sessions SessionValidator
}

func NewSessionMiddleware(sessions SessionValidator) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

// Attach resolves the session cookies without requiring one, so public
// routes can still see who is asking. The admin cookie wins when both are
// present.
func (m *SessionMiddleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := m.identityFromCookie(r, AdminSessionCookie)
		if identity == nil {
			identity = m.identityFromCookie(r, PortalSessionCookie)
		}
		if identity != nil {
			r = r.WithContext(context.WithValue(r.Context(), IdentityContextKey, identity))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole guards a route behind a live session of the given role.
func (m *SessionMiddleware) RequireRole(role model.Role, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := m.identityFromCookie(r, cookieName)
			if identity == nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{
					"error": "Unauthorized",
				})
				return
			}
			if identity.Role != role {
				writeJSON(w, http.StatusForbidden, map[string]string{
					"error": "Forbidden",
				})
				return
			}

			ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *SessionMiddleware) identityFromCookie(r *http.Request, name string) *model.Identity {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return m.sessions.Validate(cookie.Value)
}

func SetSessionCookie(w http.ResponseWriter, name, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(config.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
