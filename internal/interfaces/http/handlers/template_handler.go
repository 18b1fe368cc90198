package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	applifecycle "github.com/turtacn/KeyIP-Lifecycle/internal/application/lifecycle"
	domain "github.com/turtacn/KeyIP-Lifecycle/internal/domain/lifecycle"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/logging"
)

// TemplateHandler serves the stage template registry.
type TemplateHandler struct {
	svc    applifecycle.Service
	logger logging.Logger
}

// NewTemplateHandler creates a TemplateHandler.
func NewTemplateHandler(svc applifecycle.Service, logger logging.Logger) *TemplateHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &TemplateHandler{svc: svc, logger: logger.Named("template_handler")}
}

// List handles GET /templates.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListTemplates(r.Context())
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Add handles POST /templates.  An empty body appends a default template
// under the next free id.
func (h *TemplateHandler) Add(w http.ResponseWriter, r *http.Request) {
	var t domain.StageTemplate
	present, err := decodeJSON(r, &t)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	var out domain.StageTemplate
	if present {
		out, err = h.svc.AddTemplate(r.Context(), t)
	} else {
		out, err = h.svc.AddDefaultTemplate(r.Context())
	}
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// Update handles PATCH /templates/{id}.
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	var changes domain.TemplateChanges
	if _, err := decodeJSON(r, &changes); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	out, err := h.svc.UpdateTemplate(r.Context(), chi.URLParam(r, "id"), changes)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Remove handles DELETE /templates/{id}.
func (h *TemplateHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//Personal.AI order the ending
