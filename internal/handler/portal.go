package handler

import (
	"net/http"

	apperrors "github.com/centralake/site-server-go/internal/errors"
	"github.com/centralake/site-server-go/internal/middleware"
	"github.com/centralake/site-server-go/internal/service"
)

type PortalHandler struct {
	container *service.StateContainer
}

func NewPortalHandler(container *service.StateContainer) *PortalHandler {
	return &PortalHandler{container: container}
}

// GET /api/portal/report
//
// Resolves the record for the authenticated client only. A missing record is
// a soft miss, not an error page.
func (h *PortalHandler) Report(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		writeError(w, apperrors.Unauthorized("Unauthorized"))
		return
	}

	rec, ok := h.container.ClientRecord(identity.ID)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{
			"hasRecord": false,
			"report":    nil,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"hasRecord": true,
		"report":    rec,
	})
}
