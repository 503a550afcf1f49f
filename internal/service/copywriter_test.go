package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/centralake/site-server-go/internal/errors"
)

func TestCopywriterDescribe(t *testing.T) {
	ctx := context.Background()

	t.Run("posts the prompt and returns the drafted text", func(t *testing.T) {
		var gotAuth, gotPrompt string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			var req copywriterRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			gotPrompt = req.Prompt
			json.NewEncoder(w).Encode(copywriterResponse{Text: "A disciplined growth investor."})
		}))
		defer srv.Close()

		svc := NewCopywriterService(srv.URL, "test-key")
		text, err := svc.Describe(ctx, "mid-market technology buyouts")
		require.NoError(t, err)
		assert.Equal(t, "A disciplined growth investor.", text)
		assert.Equal(t, "Bearer test-key", gotAuth)
		assert.Contains(t, gotPrompt, "mid-market technology buyouts")
		assert.Contains(t, gotPrompt, "private equity firm description")
	})

	t.Run("unconfigured backend returns guidance, not an error", func(t *testing.T) {
		svc := NewCopywriterService("", "")
		text, err := svc.Describe(ctx, "infrastructure")
		require.NoError(t, err)
		assert.Contains(t, text, "not configured")
		assert.False(t, svc.Configured())
	})

	t.Run("empty topic is rejected before any request", func(t *testing.T) {
		svc := NewCopywriterService("", "")
		_, err := svc.Describe(ctx, "   ")
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeMissingRequired))
	})

	t.Run("backend failure yields the fallback message, not an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		svc := NewCopywriterService(srv.URL, "test-key")
		text, err := svc.Describe(ctx, "credit strategies")
		require.NoError(t, err)
		assert.Contains(t, text, "unavailable")
	})

	t.Run("blank draft yields the fallback message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(copywriterResponse{Text: "  "})
		}))
		defer srv.Close()

		svc := NewCopywriterService(srv.URL, "test-key")
		text, err := svc.Describe(ctx, "credit strategies")
		require.NoError(t, err)
		assert.Contains(t, text, "unavailable")
	})
}
