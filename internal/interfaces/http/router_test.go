package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applifecycle "github.com/turtacn/KeyIP-Lifecycle/internal/application/lifecycle"
	domain "github.com/turtacn/KeyIP-Lifecycle/internal/domain/lifecycle"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/memory"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyIP-Lifecycle/internal/interfaces/http/handlers"
	"github.com/turtacn/KeyIP-Lifecycle/internal/interfaces/http/middleware"
	"github.com/turtacn/KeyIP-Lifecycle/internal/testutil"
)

type routerEnv struct {
	handler http.Handler
	logger  *testutil.MockLogger
}

func newRouterEnv(t *testing.T, maxBody int64) *routerEnv {
	t.Helper()
	logger := testutil.NewMockLogger()

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "keyip"}, logger)
	require.NoError(t, err)
	metrics := prometheus.NewAppMetrics(collector)

	reg, err := domain.NewRegistry(
		domain.StageTemplate{ID: "S1", Name: "Invention Disclosure", DefaultPOC: "IP Team", IsMandatory: true, SLADays: 7},
		domain.StageTemplate{ID: "S2", Name: "Novelty Search", DefaultPOC: "Arctic", SLADays: 14},
	)
	require.NoError(t, err)
	svc := applifecycle.NewService(reg, memory.NewPatentRepository(), logger, applifecycle.WithMetrics(metrics))

	return &routerEnv{
		logger: logger,
		handler: NewRouter(RouterConfig{
			TemplateHandler:  handlers.NewTemplateHandler(svc, logger),
			PatentHandler:    handlers.NewPatentHandler(svc, logger),
			PortfolioHandler: handlers.NewPortfolioHandler(svc, logger),
			HealthHandler:    handlers.NewHealthHandler("test", metrics),
			Logger:           logger,
			Metrics:          metrics,
			MetricsHandler:   collector.Handler(),
			MaxBodySize:      maxBody,
		}),
	}
}

func (e *routerEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, httptest.NewRequest(method, path, rd))
	return rec
}

func TestNewRouter_Routes(t *testing.T) {
	env := newRouterEnv(t, 0)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/readyz", "", http.StatusOK},
		{http.MethodGet, "/api/v1/templates", "", http.StatusOK},
		{http.MethodPost, "/api/v1/templates", "", http.StatusCreated},
		{http.MethodPatch, "/api/v1/templates/S2", `{"sla_days":3}`, http.StatusOK},
		{http.MethodDelete, "/api/v1/templates/S3", "", http.StatusNoContent},
		{http.MethodGet, "/api/v1/patents", "", http.StatusOK},
		{http.MethodGet, "/api/v1/patents/missing", "", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/patents/missing", "", http.StatusNotFound},
		{http.MethodPatch, "/api/v1/patents/missing/stages/S1", `{"status":"WIP"}`, http.StatusNotFound},
		{http.MethodGet, "/api/v1/portfolio/dashboard", "", http.StatusOK},
		{http.MethodGet, "/api/v1/portfolio/history", "", http.StatusOK},
		{http.MethodGet, "/api/v1/portfolio/overdue", "", http.StatusOK},
		{http.MethodGet, "/api/v1/unknown", "", http.StatusNotFound},
		{http.MethodPut, "/api/v1/templates", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := env.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestNewRouter_PatentFlow(t *testing.T) {
	env := newRouterEnv(t, 0)

	rec := env.do(http.MethodPost, "/api/v1/patents",
		`{"title":"Widget X","jurisdictions":["UK"],"use_mandatory_defaults":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/api/v1/patents/"))

	rec = env.do(http.MethodPatch, location+"/stages/S1", `{"status":"COMPLETED"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"auto_summary":"Currently: Invention Disclosure (100% progress)"`)

	rec = env.do(http.MethodDelete, location, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestNewRouter_RequestIDAndLogging(t *testing.T) {
	env := newRouterEnv(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patents/missing", nil)
	req.Header.Set(middleware.RequestIDHeader, "trace-1")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, "trace-1", rec.Header().Get(middleware.RequestIDHeader))
	msg, ok := env.logger.Find("warn", "HTTP request completed with client error")
	require.True(t, ok)
	id, _ := msg.Field("request_id")
	assert.Equal(t, "trace-1", id)
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	env := newRouterEnv(t, 0)

	require.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/v1/patents/abc", "").Code)
	require.Equal(t, http.StatusOK, env.do(http.MethodGet, "/readyz", "").Code)

	rec := env.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `keyip_http_requests_total{method="GET",route="/api/v1/patents/{id}",status_code="404"} 1`)
	assert.Contains(t, body, `keyip_http_requests_in_flight{method="GET"} 1`)
}

func TestNewRouter_NilHandlers_NoPanic(t *testing.T) {
	h := NewRouter(RouterConfig{})

	for _, path := range []string{"/healthz", "/metrics", "/api/v1/patents", "/api/v1/templates"} {
		rec := httptest.NewRecorder()
		assert.NotPanics(t, func() {
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		})
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestNewRouter_MaxBodySize(t *testing.T) {
	env := newRouterEnv(t, 64)

	body := `{"title":"` + strings.Repeat("x", 200) + `","jurisdictions":["US"],"stage_ids":["S1"]}`
	rec := env.do(http.MethodPost, "/api/v1/patents", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewRouter_RecoversPanics(t *testing.T) {
	logger := testutil.NewMockLogger()
	r := NewRouter(RouterConfig{Logger: logger})
	mux, ok := r.(*chi.Mux)
	require.True(t, ok)
	mux.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, logger.HasMessage("error", "HTTP request completed with server error"))
}

func TestNewRouter_CustomMetricsPath(t *testing.T) {
	scraped := false
	h := NewRouter(RouterConfig{
		MetricsPath: "/internal/metrics",
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scraped = true
		}),
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/internal/metrics", nil))
	assert.True(t, scraped)
}

//Personal.AI order the ending
