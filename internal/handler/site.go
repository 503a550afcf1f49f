package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	apperrors "github.com/centralake/site-server-go/internal/errors"
	"github.com/centralake/site-server-go/internal/middleware"
	"github.com/centralake/site-server-go/internal/model"
	"github.com/centralake/site-server-go/internal/service"
)

// StorageHealth reports which durable tier is live.
type StorageHealth interface {
	HealthCheck(ctx context.Context) bool
	Sandbox() bool
}

type SiteHandler struct {
	container *service.StateContainer
	storage   StorageHealth
}

func NewSiteHandler(container *service.StateContainer, storage StorageHealth) *SiteHandler {
	return &SiteHandler{
		container: container,
		storage:   storage,
	}
}

// GET /api/state
//
// The shared document goes out to everyone; submissions and the client book
// only go out to an authenticated admin.
func (h *SiteHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state := h.container.Snapshot()
	identity := middleware.GetIdentity(r.Context())
	state.CurrentUser = identity

	if identity == nil || identity.Role != model.RoleAdmin {
		state.ContactSubmissions = []model.ContactSubmission{}
		state.Clients = map[string]model.ClientRecord{}
	}

	writeJSON(w, http.StatusOK, state)
}

// GET /api/health
func (h *SiteHandler) Health(w http.ResponseWriter, r *http.Request) {
	storage := "sandbox"
	if h.storage.HealthCheck(r.Context()) {
		storage = "cloud"
	} else if !h.storage.Sandbox() {
		storage = "cloud_unreachable"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"storage":   storage,
		"timestamp": time.Now().UnixMilli(),
	})
}

// POST /api/contact
func (h *SiteHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var params service.SubmissionParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	sub, confirmed, err := h.container.RecordSubmission(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"submission": sub,
		"confirmed":  confirmed,
	})
}
