// Package handlers adapts the lifecycle application service to HTTP.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// maxRequestBody caps decoded request bodies when the server does not set a
// tighter limit.
const maxRequestBody = 1 << 20

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// parsePagination reads limit and offset.  Missing or malformed values are
// left at zero so the service applies its defaults.
func parsePagination(r *http.Request) (limit, offset int, err error) {
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			return 0, 0, errors.InvalidParam("limit must be a non-negative integer").WithDetail("limit=" + v)
		}
	}
	if v := q.Get("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil || offset < 0 {
			return 0, 0, errors.InvalidParam("offset must be a non-negative integer").WithDetail("offset=" + v)
		}
	}
	return limit, offset, nil
}

// decodeJSON decodes the request body into dst.  An empty body is reported
// through the returned bool rather than as an error.
func decodeJSON(r *http.Request, dst interface{}) (bool, error) {
	if r.Body == nil {
		return false, nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeBadRequest, "malformed request body")
	}
	return true, nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeAppError maps err to its HTTP status.  Errors without a code are
// masked as internal errors and logged.
func writeAppError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	var ae *errors.AppError
	if !errors.As(err, &ae) {
		logger.WithContext(r.Context()).Error("unclassified handler error", logging.Err(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Code:    errors.ErrCodeInternal.String(),
			Message: errors.DefaultMessageForCode(errors.ErrCodeInternal),
		})
		return
	}

	status := errors.HTTPStatusForCode(ae.Code)
	resp := ErrorResponse{Code: ae.Code.String(), Message: ae.Message, Detail: ae.Detail}
	if status >= http.StatusInternalServerError {
		logger.WithContext(r.Context()).Error("handler failed",
			logging.String(logging.FieldErrorCode, ae.Code.String()),
			logging.Err(err),
		)
		resp.Message = errors.DefaultMessageForCode(ae.Code)
		resp.Detail = ""
	}
	writeJSON(w, status, resp)
}

//Personal.AI order the ending
