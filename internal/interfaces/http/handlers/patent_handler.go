package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	applifecycle "github.com/turtacn/KeyIP-Lifecycle/internal/application/lifecycle"
	domain "github.com/turtacn/KeyIP-Lifecycle/internal/domain/lifecycle"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// PatentHandler serves patent creation, stage edits and deletion.
type PatentHandler struct {
	svc    applifecycle.Service
	logger logging.Logger
}

// NewPatentHandler creates a PatentHandler.
func NewPatentHandler(svc applifecycle.Service, logger logging.Logger) *PatentHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &PatentHandler{svc: svc, logger: logger.Named("patent_handler")}
}

// UpdateStageRequest is the body of PATCH /patents/{id}/stages/{stageID}.
// The stage fields sit at the top level next to the optional version guard.
type UpdateStageRequest struct {
	domain.StageChanges
	ExpectedVersion int64 `json:"expected_version,omitempty"`
}

// List handles GET /patents?q=&category=&limit=&offset=.
func (h *PatentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := parsePagination(r)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	in := &applifecycle.ListPatentsInput{
		Query:  r.URL.Query().Get("q"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		if in.Category, err = domain.ParseCategory(raw); err != nil {
			writeAppError(w, r, h.logger, err)
			return
		}
	}

	out, err := h.svc.ListPatents(r.Context(), in)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /patents.
func (h *PatentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in applifecycle.CreatePatentInput
	present, err := decodeJSON(r, &in)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	if !present {
		writeAppError(w, r, h.logger, errors.InvalidParam("request body is required"))
		return
	}

	out, err := h.svc.CreatePatent(r.Context(), &in)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Location", "/api/v1/patents/"+out.ID)
	writeView(w, http.StatusCreated, out)
}

// Get handles GET /patents/{id}.
func (h *PatentHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.GetPatent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeView(w, http.StatusOK, out)
}

// UpdateStage handles PATCH /patents/{id}/stages/{stageID}.  The version
// guard comes from If-Match or, failing that, expected_version.
func (h *PatentHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	var req UpdateStageRequest
	present, err := decodeJSON(r, &req)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	if !present {
		writeAppError(w, r, h.logger, errors.InvalidParam("request body is required"))
		return
	}

	expected := req.ExpectedVersion
	if raw := r.Header.Get("If-Match"); raw != "" {
		if expected, err = parseETag(raw); err != nil {
			writeAppError(w, r, h.logger, err)
			return
		}
	}

	out, err := h.svc.UpdateStage(r.Context(), &applifecycle.UpdateStageInput{
		PatentID:        chi.URLParam(r, "id"),
		StageID:         chi.URLParam(r, "stageID"),
		ExpectedVersion: expected,
		Changes:         req.StageChanges,
	})
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeView(w, http.StatusOK, out)
}

// Delete handles DELETE /patents/{id}.
func (h *PatentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePatent(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeView writes a patent with its version as a strong ETag.
func writeView(w http.ResponseWriter, status int, v *applifecycle.PatentView) {
	w.Header().Set("ETag", strconv.Quote(strconv.FormatInt(v.Version, 10)))
	writeJSON(w, status, v)
}

// parseETag accepts `"3"`, `W/"3"` and bare `3`.
func parseETag(raw string) (int64, error) {
	tag := strings.TrimPrefix(strings.TrimSpace(raw), "W/")
	tag = strings.Trim(tag, `"`)
	v, err := strconv.ParseInt(tag, 10, 64)
	if err != nil || v < 0 {
		return 0, errors.InvalidParam("If-Match must carry a patent version").WithDetail("if_match=" + raw)
	}
	return v, nil
}

//Personal.AI order the ending
