package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keyiperrors "github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithRetryWait(time.Millisecond, 2*time.Millisecond)}, opts...)
	c, err := NewClient(server.URL, opts...)
	require.NoError(t, err)
	return c
}

type testLogger struct {
	mu      sync.Mutex
	lastMsg string
	count   int32
}

func (l *testLogger) Debugf(format string, args ...interface{}) { l.log(format, args...) }
func (l *testLogger) Infof(format string, args ...interface{})  { l.log(format, args...) }
func (l *testLogger) Errorf(format string, args ...interface{}) { l.log(format, args...) }

func (l *testLogger) log(format string, args ...interface{}) {
	atomic.AddInt32(&l.count, 1)
	l.mu.Lock()
	l.lastMsg = fmt.Sprintf(format, args...)
	l.mu.Unlock()
}

// ---------------------------------------------------------------------------
// Constructor
// ---------------------------------------------------------------------------

func TestNewClient_Success(t *testing.T) {
	c, err := NewClient("http://api.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "http://api.example.com", c.baseURL)
	assert.Equal(t, 3, c.retryMax)
	assert.Contains(t, c.userAgent, "keyip-go-sdk/")
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://invalid", "invalid-url", "http://[::1"} {
		_, err := NewClient(raw)
		assert.True(t, keyiperrors.IsValidation(err), raw)
	}
}

func TestClient_SubClients_LazyInit(t *testing.T) {
	c, _ := NewClient("http://api.example.com")
	assert.Nil(t, c.templates)
	assert.Same(t, c.Templates(), c.Templates())
	assert.Same(t, c.Patents(), c.Patents())
	assert.Same(t, c.Portfolio(), c.Portfolio())
}

func TestClient_SubClients_ConcurrentAccess(t *testing.T) {
	c, _ := NewClient("http://api.example.com")
	var wg sync.WaitGroup
	got := make([]*PatentsClient, 50)
	for i := range got {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			got[idx] = c.Patents()
		}(i)
	}
	wg.Wait()
	for i := 1; i < len(got); i++ {
		assert.Same(t, got[0], got[i])
	}
}

// ---------------------------------------------------------------------------
// do
// ---------------------------------------------------------------------------

func TestClient_Do_RequestShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/patents", r.URL.Path)
		assert.Equal(t, "a b", r.URL.Query().Get("q"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("Content-Type"))
		assert.Contains(t, r.Header.Get("User-Agent"), "keyip-go-sdk/")
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{"total":0}`))
	})

	var out PatentList
	resp, err := c.do(context.Background(), request{method: http.MethodGet, path: "patents", query: map[string][]string{"q": {"a b"}}}, &out)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClient_Do_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"LC_009","message":"patent was modified concurrently","detail":"expected=1 current=2"}`))
	})

	_, err := c.do(context.Background(), request{method: http.MethodGet, path: "/x"}, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "LC_009", apiErr.Code)
	assert.Equal(t, "expected=1 current=2", apiErr.Detail)
	assert.NotEmpty(t, apiErr.RequestID)
	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "LC_009 (HTTP 409)")
}

func TestClient_Do_NonJSONError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}, WithRetryMax(0))

	_, err := c.do(context.Background(), request{method: http.MethodGet, path: "/x"}, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upstream exploded", apiErr.Message)
	assert.True(t, apiErr.IsServerError())
}

func TestAPIError_Predicates(t *testing.T) {
	assert.True(t, (&APIError{StatusCode: 404}).IsNotFound())
	assert.True(t, (&APIError{StatusCode: 400}).IsValidation())
	assert.True(t, (&APIError{StatusCode: 422}).IsValidation())
	assert.False(t, (&APIError{StatusCode: 409}).IsValidation())
	assert.False(t, IsValidation(fmt.Errorf("plain")))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", &APIError{StatusCode: 404})))
}

func TestClient_Do_4xxNoRetry(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	_, err := c.do(context.Background(), request{method: http.MethodGet, path: "/x"}, nil)
	assert.True(t, IsValidation(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Do_5xxRetry(t *testing.T) {
	var calls int32
	ids := make(map[string]bool)
	var mu sync.Mutex
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ids[r.Header.Get("X-Request-ID")] = true
		mu.Unlock()
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	_, err := c.do(context.Background(), request{method: http.MethodGet, path: "/x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Len(t, ids, 1, "retries reuse the request id")
}

func TestClient_Do_5xxRetryExhausted(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}, WithRetryMax(2))

	_, err := c.do(context.Background(), request{method: http.MethodDelete, path: "/x"}, nil)
	assert.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Do_NoRetryForWrites(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPatch} {
		var calls int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := c.do(context.Background(), request{method: method, path: "/x", body: map[string]int{"a": 1}}, nil)
		assert.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls), method)
	}
}

func TestClient_Do_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	logger := &testLogger{}
	c, err := NewClient(server.URL, WithRetryMax(1), WithRetryWait(time.Millisecond, 2*time.Millisecond), WithLogger(logger))
	require.NoError(t, err)

	_, err = c.do(context.Background(), request{method: http.MethodGet, path: "/x"}, nil)
	assert.True(t, keyiperrors.IsCode(err, keyiperrors.ErrCodeServiceUnavailable))
	assert.Greater(t, atomic.LoadInt32(&logger.count), int32(0))
}

func TestClient_Do_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := c.do(ctx, request{method: http.MethodGet, path: "/x"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Do_UnmarshalError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	var out Dashboard
	_, err := c.do(context.Background(), request{method: http.MethodGet, path: "/x"}, &out)
	assert.True(t, keyiperrors.IsCode(err, keyiperrors.ErrCodeSerialization))
}

func TestClient_CalculateBackoff(t *testing.T) {
	c := &Client{retryWaitMin: 100 * time.Millisecond, retryWaitMax: 300 * time.Millisecond}

	b1 := c.calculateBackoff(1)
	assert.GreaterOrEqual(t, b1, 100*time.Millisecond)
	assert.Less(t, b1, 125*time.Millisecond)

	b5 := c.calculateBackoff(5)
	assert.GreaterOrEqual(t, b5, 300*time.Millisecond)
	assert.Less(t, b5, 375*time.Millisecond)
}

//Personal.AI order the ending
