// End-to-end tests drive the HTTP API through the Go SDK.  They run against
// KEYIP_E2E_BASE_URL when set, otherwise against an in-process server over
// the built-in template catalogue with patent locks held in miniredis.
package e2e_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	applifecycle "github.com/turtacn/KeyIP-Lifecycle/internal/application/lifecycle"
	"github.com/turtacn/KeyIP-Lifecycle/internal/config"
	domain "github.com/turtacn/KeyIP-Lifecycle/internal/domain/lifecycle"
	keyipredis "github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/database/redis"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/memory"
	httpapi "github.com/turtacn/KeyIP-Lifecycle/internal/interfaces/http"
	"github.com/turtacn/KeyIP-Lifecycle/internal/interfaces/http/handlers"
	"github.com/turtacn/KeyIP-Lifecycle/pkg/client"
)

const envBaseURL = "KEYIP_E2E_BASE_URL"

// testEnv holds the resources shared by every test in the package.
type testEnv struct {
	baseURL      string
	sdk          *client.Client
	cleanupFuncs []func()

	// serialized is set when the server is known to hold per-patent locks.
	serialized bool
}

var env *testEnv

func TestMain(m *testing.M) {
	var err error
	env, err = setupTestEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "e2e setup failed: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	for i := len(env.cleanupFuncs) - 1; i >= 0; i-- {
		env.cleanupFuncs[i]()
	}
	os.Exit(code)
}

func setupTestEnv() (*testEnv, error) {
	e := &testEnv{baseURL: os.Getenv(envBaseURL)}

	if e.baseURL == "" {
		locker, err := startLocker(e)
		if err != nil {
			return nil, err
		}
		svc := applifecycle.NewService(domain.NewDefaultRegistry(), memory.NewPatentRepository(), nil,
			applifecycle.WithLocker(locker))
		srv := httptest.NewServer(httpapi.NewRouter(httpapi.RouterConfig{
			TemplateHandler:  handlers.NewTemplateHandler(svc, nil),
			PatentHandler:    handlers.NewPatentHandler(svc, nil),
			PortfolioHandler: handlers.NewPortfolioHandler(svc, nil),
			HealthHandler:    handlers.NewHealthHandler("e2e", nil),
		}))
		e.baseURL = srv.URL
		e.cleanupFuncs = append(e.cleanupFuncs, srv.Close)
		e.serialized = true
	}

	if err := waitForReady(e.baseURL, 30*time.Second); err != nil {
		return nil, err
	}

	sdk, err := client.NewClient(e.baseURL,
		client.WithRetryMax(1),
		client.WithRetryWait(50*time.Millisecond, 200*time.Millisecond),
		client.WithUserAgent("keyip-e2e"))
	if err != nil {
		return nil, err
	}
	e.sdk = sdk
	return e, nil
}

func startLocker(e *testEnv) (*keyipredis.PatentLocker, error) {
	mr, err := miniredis.Run()
	if err != nil {
		return nil, err
	}
	e.cleanupFuncs = append(e.cleanupFuncs, mr.Close)

	cfg := config.RedisConfig{
		Enabled:        true,
		Mode:           "standalone",
		Addr:           mr.Addr(),
		PoolSize:       10,
		DialTimeout:    2 * time.Second,
		KeyPrefix:      "e2e:",
		LockTTL:        5 * time.Second,
		LockRetryCount: 200,
		LockRetryDelay: 10 * time.Millisecond,
	}
	rc, err := keyipredis.NewClient(cfg, nil)
	if err != nil {
		return nil, err
	}
	e.cleanupFuncs = append(e.cleanupFuncs, func() { _ = rc.Close() })
	return keyipredis.NewPatentLocker(rc, cfg, nil), nil
}

// waitForReady polls /readyz until it answers 200 or timeout elapses.
func waitForReady(baseURL string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	hc := &http.Client{Timeout: 2 * time.Second}
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/readyz", nil)
		if err != nil {
			return err
		}
		resp, err := hc.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s not ready after %s", baseURL, timeout)
		case <-time.After(250 * time.Millisecond):
		}
	}
}

//Personal.AI order the ending
