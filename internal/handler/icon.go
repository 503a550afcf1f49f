package handler

import (
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
)

// IconState holds the icon URL the enforcement loop most recently asserted
// and serves /favicon.ico from it.
type IconState struct {
	mu  sync.RWMutex
	url string
}

func NewIconState() *IconState {
	return &IconState{}
}

// SetIcon records the asserted icon URL.
func (s *IconState) SetIcon(url string) error {
	s.mu.Lock()
	s.url = url
	s.mu.Unlock()
	return nil
}

// URL returns the currently asserted icon URL, or empty.
func (s *IconState) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.url
}

// GET /favicon.ico
//
// Data URLs are decoded and served directly; browsers refuse redirects to
// the data: scheme.
func (s *IconState) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	url := s.URL()
	if url == "" {
		http.NotFound(w, r)
		return
	}

	if strings.HasPrefix(url, "data:") {
		mime, data, ok := decodeDataURL(url)
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", mime)
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}

func decodeDataURL(url string) (mime string, data []byte, ok bool) {
	rest, found := strings.CutPrefix(url, "data:")
	if !found {
		return "", nil, false
	}
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", nil, false
	}
	if !strings.HasSuffix(meta, ";base64") {
		return "", nil, false
	}
	mime = strings.TrimSuffix(meta, ";base64")
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, false
	}
	return mime, decoded, true
}
