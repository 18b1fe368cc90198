package handlers

import (
	"net/http"
	"strconv"

	applifecycle "github.com/turtacn/KeyIP-Lifecycle/internal/application/lifecycle"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// PortfolioHandler serves the read-only portfolio views.
type PortfolioHandler struct {
	svc    applifecycle.Service
	logger logging.Logger
}

// NewPortfolioHandler creates a PortfolioHandler.
func NewPortfolioHandler(svc applifecycle.Service, logger logging.Logger) *PortfolioHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &PortfolioHandler{svc: svc, logger: logger.Named("portfolio_handler")}
}

// Dashboard handles GET /portfolio/dashboard.
func (h *PortfolioHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Dashboard(r.Context())
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// History handles GET /portfolio/history?limit=.  No limit returns every
// completed stage.
func (h *PortfolioHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeAppError(w, r, h.logger, errors.InvalidParam("limit must be a non-negative integer").WithDetail("limit="+v))
			return
		}
		limit = n
	}

	out, err := h.svc.History(r.Context(), limit)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Overdue handles GET /portfolio/overdue.
func (h *PortfolioHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Overdue(r.Context())
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

//Personal.AI order the ending
