package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/centralake/site-server-go/internal/config"
	apperrors "github.com/centralake/site-server-go/internal/errors"
	"github.com/centralake/site-server-go/internal/model"
	"github.com/centralake/site-server-go/internal/service"
)

// StoreAdmin covers the operator-facing store operations.
type StoreAdmin interface {
	Init(ctx context.Context) error
	ExportLocal() (string, error)
	ImportLocal(raw string) error
}

type AdminHandler struct {
	container  *service.StateContainer
	store      StoreAdmin
	uploader   service.Uploader
	copywriter *service.CopywriterService
}

func NewAdminHandler(
	container *service.StateContainer,
	store StoreAdmin,
	uploader service.Uploader,
	copywriter *service.CopywriterService,
) *AdminHandler {
	return &AdminHandler{
		container:  container,
		store:      store,
		uploader:   uploader,
		copywriter: copywriter,
	}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Put("/content", h.PublishContent)
	r.Get("/submissions", h.ListSubmissions)
	r.Put("/clients/{clientID}", h.UpdateClient)
	r.Post("/upload", h.Upload)
	r.Post("/copy", h.DraftCopy)
	r.Get("/export", h.Export)
	r.Post("/import", h.Import)
	r.Post("/init", h.InitStore)
	r.Post("/refresh", h.Refresh)

	return r
}

// PUT /api/admin/content
func (h *AdminHandler) PublishContent(w http.ResponseWriter, r *http.Request) {
	var doc model.ContentDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, apperrors.ValidationError("invalid content document"))
		return
	}

	confirmed, err := h.container.PublishContent(r.Context(), doc)
	if err != nil {
		log.Error().Err(err).Msg("content publish failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"confirmed": confirmed})
}

// GET /api/admin/submissions
func (h *AdminHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	state := h.container.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"submissions": state.ContactSubmissions,
	})
}

// PUT /api/admin/clients/{clientID}
func (h *AdminHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	if clientID == "" {
		writeError(w, apperrors.MissingRequired("clientID"))
		return
	}

	var rec model.ClientRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, apperrors.ValidationError("invalid client record"))
		return
	}

	confirmed, err := h.container.UpdateClient(r.Context(), clientID, rec)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"confirmed": confirmed})
}

// POST /api/admin/upload?filename=logo.png
func (h *AdminHandler) Upload(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		writeError(w, apperrors.MissingRequired("filename"))
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, config.MaxUploadBytes))
	if err != nil {
		writeError(w, apperrors.Upload("upload too large or unreadable", err))
		return
	}

	url, err := h.uploader.Upload(r.Context(), data, filename)
	if err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("media upload failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"url": url})
}

type draftCopyRequest struct {
	Topic string `json:"topic"`
}

// POST /api/admin/copy
func (h *AdminHandler) DraftCopy(w http.ResponseWriter, r *http.Request) {
	var req draftCopyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	text, err := h.copywriter.Describe(r.Context(), req.Topic)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"text": text})
}

// GET /api/admin/export
//
// Exports the local slot when one exists, otherwise serializes the current
// in-memory state so the download always has something in it.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	raw, err := h.store.ExportLocal()
	if apperrors.HasCode(err, apperrors.ErrCodeNoRecord) {
		data, merr := json.MarshalIndent(h.container.Snapshot(), "", "  ")
		if merr != nil {
			writeError(w, apperrors.Internal("failed to serialize state"))
			return
		}
		raw = string(data)
	} else if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="site-state.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(raw))
}

// POST /api/admin/import
func (h *AdminHandler) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, config.MaxUploadBytes))
	if err != nil {
		writeError(w, apperrors.Upload("import too large or unreadable", err))
		return
	}

	if err := h.store.ImportLocal(string(raw)); err != nil {
		writeError(w, err)
		return
	}

	// The slot changed underneath the running state; the caller reloads.
	writeJSON(w, http.StatusOK, map[string]any{"reloadRequired": true})
}

// POST /api/admin/init
func (h *AdminHandler) InitStore(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Init(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// POST /api/admin/refresh
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.container.Refresh(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
