// Package client is the Go SDK for the KeyIP lifecycle API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

const Version = "0.3.0"

// apiPrefix is prepended to every resource path.
const apiPrefix = "/api/v1"

type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Client talks to one lifecycle API server.  It is safe for concurrent use.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	headers      http.Header

	templates     *TemplatesClient
	templatesOnce sync.Once
	patents       *PatentsClient
	patentsOnce   sync.Once
	portfolio     *PortfolioClient
	portfolioOnce sync.Once
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("keyip: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg + " [request_id=" + e.RequestID + "]"
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsConflict covers stale versions, duplicate template ids and held locks.
func (e *APIError) IsConflict() bool {
	return e.StatusCode == http.StatusConflict
}

func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsNotFound reports whether err is an APIError for a missing resource.
func IsNotFound(err error) bool {
	var ae *APIError
	return stderrors.As(err, &ae) && ae.IsNotFound()
}

// IsConflict reports whether err is an APIError for a conflicting write.
func IsConflict(err error) bool {
	var ae *APIError
	return stderrors.As(err, &ae) && ae.IsConflict()
}

// IsValidation reports whether err is an APIError for a rejected input.
func IsValidation(err error) bool {
	var ae *APIError
	return stderrors.As(err, &ae) && ae.IsValidation()
}

// NewClient returns a client for the server at baseURL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.InvalidParam("base URL is required")
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid base URL")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, errors.InvalidParam("base URL scheme must be http or https").WithDetail("url=" + baseURL)
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		userAgent:    fmt.Sprintf("keyip-go-sdk/%s", Version),
		logger:       noopLogger{},
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Templates() *TemplatesClient {
	c.templatesOnce.Do(func() {
		c.templates = &TemplatesClient{client: c}
	})
	return c.templates
}

func (c *Client) Patents() *PatentsClient {
	c.patentsOnce.Do(func() {
		c.patents = &PatentsClient{client: c}
	})
	return c.patents
}

func (c *Client) Portfolio() *PortfolioClient {
	c.portfolioOnce.Do(func() {
		c.portfolio = &PortfolioClient{client: c}
	})
	return c.portfolio
}

// request is one logical call; do may send it several times.
type request struct {
	method  string
	path    string
	query   url.Values
	body    interface{}
	headers map[string]string
}

// response carries what callers need besides the decoded body.
type response struct {
	StatusCode int
	Header     http.Header
}

func (c *Client) do(ctx context.Context, r request, result interface{}) (*response, error) {
	path := r.path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + apiPrefix + path
	if len(r.query) > 0 {
		fullURL += "?" + r.query.Encode()
	}

	var payload []byte
	if r.body != nil {
		var err error
		if payload, err = json.Marshal(r.body); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "marshal request body")
		}
	}

	// One id for every attempt so server logs group the retries.
	requestID := uuid.NewString()
	retryable := isIdempotent(r.method)

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debugf("retry attempt %d after %v", attempt, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, r.method, fullURL, bodyReader)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "create request")
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-ID", requestID)
		for k, vs := range c.headers {
			req.Header[k] = append([]string(nil), vs...)
		}
		for k, v := range r.headers {
			req.Header.Set(k, v)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Errorf("%s %s failed: %v", r.method, path, err)
			lastErr = errors.Wrap(err, errors.ErrCodeServiceUnavailable, "send request")
			if retryable {
				continue
			}
			return nil, lastErr
		}
		c.logger.Debugf("%s %s %d (%v)", r.method, path, resp.StatusCode, time.Since(start))

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "read response body")
		}
		meta := &response{StatusCode: resp.StatusCode, Header: resp.Header}

		if resp.StatusCode >= 400 {
			apiErr := newAPIError(resp.StatusCode, respBody, requestID)
			lastErr = apiErr
			if retryable && apiErr.IsServerError() {
				continue
			}
			return meta, apiErr
		}

		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return meta, errors.Wrap(err, errors.ErrCodeSerialization, "unmarshal response")
			}
		}
		return meta, nil
	}
	return nil, lastErr
}

func newAPIError(status int, body []byte, requestID string) *APIError {
	apiErr := &APIError{StatusCode: status, RequestID: requestID}
	if len(body) == 0 {
		apiErr.Message = http.StatusText(status)
		return apiErr
	}
	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Code != "" {
		apiErr.Code = errResp.Code
		apiErr.Message = errResp.Message
		apiErr.Detail = errResp.Detail
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

// isIdempotent reports whether a failed attempt may be resent.  POST and
// PATCH are not retried: a create could run twice and a stage edit is
// already guarded by its version.
func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}
	if quarter := int64(backoff / 4); quarter > 0 {
		backoff += time.Duration(rand.Int63n(quarter))
	}
	return backoff
}

//Personal.AI order the ending
