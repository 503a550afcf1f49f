package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/centralake/site-server-go/internal/errors"
)

const (
	copywriterTimeout = 15 * time.Second

	copywriterPromptFmt = "Write a professional, sophisticated, and trustworthy private equity firm description about: %s. Keep it concise and impactful for a high-net-worth audience."

	// Returned when no copywriter backend is configured, so the console
	// still gets usable guidance instead of an error.
	copywriterUnavailableMsg = "AI copywriter is not configured. Set COPYWRITER_URL and COPYWRITER_API_KEY, or write the description manually: lead with the firm's investment focus, name the value you bring to portfolio companies, and close with the outcome investors can expect."

	// Returned when the backend is configured but the call fails; the admin
	// keeps a usable draft area either way.
	copywriterFailedMsg = "The copywriter is unavailable right now. Please try again shortly, or write the description manually."
)

// CopywriterService drafts marketing copy through an external text service.
type CopywriterService struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewCopywriterService(baseURL, apiKey string) *CopywriterService {
	return &CopywriterService{
		client: &http.Client{
			Timeout: copywriterTimeout,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Configured reports whether a backend is wired up.
func (s *CopywriterService) Configured() bool {
	return s.baseURL != ""
}

type copywriterRequest struct {
	Prompt string `json:"prompt"`
}

type copywriterResponse struct {
	Text string `json:"text"`
}

// Describe drafts a firm description about the given topic. It only errors
// on an empty topic; an unconfigured or failing backend yields a fixed
// guidance message so the console never loses its draft area.
func (s *CopywriterService) Describe(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", apperrors.MissingRequired("topic")
	}
	if !s.Configured() {
		return copywriterUnavailableMsg, nil
	}

	body, err := json.Marshal(copywriterRequest{
		Prompt: fmt.Sprintf(copywriterPromptFmt, topic),
	})
	if err != nil {
		return "", fmt.Errorf("marshal prompt: %w", err)
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		log.Error().
			Err(err).
			Dur("elapsed", elapsed).
			Msg("copywriter request error")
		return copywriterFailedMsg, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().
			Int("status", resp.StatusCode).
			Dur("elapsed", elapsed).
			Msg("copywriter request failed")
		return copywriterFailedMsg, nil
	}

	var out copywriterResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error().Err(err).Msg("copywriter response unreadable")
		return copywriterFailedMsg, nil
	}
	if strings.TrimSpace(out.Text) == "" {
		return copywriterFailedMsg, nil
	}

	log.Info().
		Dur("elapsed", elapsed).
		Msg("copywriter draft generated")

	return out.Text, nil
}
