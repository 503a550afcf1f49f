package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/centralake/site-server-go/internal/config"
	"github.com/centralake/site-server-go/internal/middleware"
	"github.com/centralake/site-server-go/internal/model"
	"github.com/centralake/site-server-go/internal/service"
)

func newAuthFixture(t *testing.T) (*AuthHandler, *service.SessionManager) {
	t.Helper()

	adminHash, err := bcrypt.GenerateFromPassword([]byte("topsecret"), bcrypt.MinCost)
	require.NoError(t, err)
	clientHash, err := bcrypt.GenerateFromPassword([]byte("portalpass"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		AdminEmail:         "admin@centralake.com",
		AdminPasswordHash:  string(adminHash),
		ClientEmail:        "client@example.com",
		ClientPasswordHash: string(clientHash),
	}
	auth, err := service.NewAuthService(cfg, true)
	require.NoError(t, err)

	sessions := service.NewSessionManager("test-secret", time.Hour)
	return NewAuthHandler(auth, sessions, false), sessions
}

func postLogin(t *testing.T, h *AuthHandler, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	h.Login(w, r)
	return w
}

func TestLogin(t *testing.T) {
	t.Run("admin login sets the admin cookie", func(t *testing.T) {
		h, sessions := newAuthFixture(t)
		w := postLogin(t, h, "admin@centralake.com", "topsecret")

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			User model.Identity `json:"user"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, model.RoleAdmin, resp.User.Role)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, middleware.AdminSessionCookie, cookies[0].Name)
		assert.NotNil(t, sessions.Validate(cookies[0].Value))
	})

	t.Run("client login sets the portal cookie", func(t *testing.T) {
		h, _ := newAuthFixture(t)
		w := postLogin(t, h, "client@example.com", "portalpass")

		require.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, middleware.PortalSessionCookie, cookies[0].Name)
	})

	t.Run("denial is uniform for wrong password and unknown email", func(t *testing.T) {
		h, _ := newAuthFixture(t)

		wrongPass := postLogin(t, h, "admin@centralake.com", "nope")
		unknown := postLogin(t, h, "stranger@example.com", "topsecret")

		assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, wrongPass.Body.String(), unknown.Body.String())
		assert.Empty(t, wrongPass.Result().Cookies())
	})

	t.Run("malformed body is a validation error", func(t *testing.T) {
		h, _ := newAuthFixture(t)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader([]byte("{")))
		h.Login(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogout(t *testing.T) {
	h, sessions := newAuthFixture(t)

	token, err := sessions.Create(model.Identity{ID: "admin_1", Role: model.RoleAdmin})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	r.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: token})
	h.Logout(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, sessions.Validate(token))

	// Both cookies are expired regardless of which were present.
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestMe(t *testing.T) {
	h, sessions := newAuthFixture(t)
	mw := middleware.NewSessionMiddleware(sessions)

	handler := mw.Attach(http.HandlerFunc(h.Me))

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			User *model.Identity `json:"user"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Nil(t, resp.User)
	})

	t.Run("authenticated", func(t *testing.T) {
		token, err := sessions.Create(model.Identity{ID: "client_1", Role: model.RoleClient})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		r.AddCookie(&http.Cookie{Name: middleware.PortalSessionCookie, Value: token})
		handler.ServeHTTP(w, r)

		var resp struct {
			User *model.Identity `json:"user"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.NotNil(t, resp.User)
		assert.Equal(t, "client_1", resp.User.ID)
	})
}
