package e2e_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyIP-Lifecycle/pkg/client"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// uniqueTitle keeps tests independent on a shared external server.
func uniqueTitle(prefix string) string {
	return prefix + " " + uuid.NewString()[:8]
}

// templateIDs returns the ids of the first n registered templates.
func templateIDs(t *testing.T, n int) []string {
	t.Helper()
	list, err := env.sdk.Templates().List(testContext(t))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(list), n, "server needs at least %d stage templates", n)
	ids := make([]string, n)
	for i := range ids {
		ids[i] = list[i].ID
	}
	return ids
}

// createPatent creates a patent that is deleted when the test ends.
func createPatent(t *testing.T, req *client.CreatePatentRequest) *client.Patent {
	t.Helper()
	if req.Title == "" {
		req.Title = uniqueTitle("E2E patent")
	}
	if len(req.Jurisdictions) == 0 {
		req.Jurisdictions = []string{"India"}
	}
	p, err := env.sdk.Patents().Create(testContext(t), req)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = env.sdk.Patents().Delete(context.Background(), p.ID)
	})
	return p
}

func completeStage(t *testing.T, p *client.Patent, stageID string) *client.Patent {
	t.Helper()
	done := client.StatusCompleted
	out, err := env.sdk.Patents().UpdateStage(testContext(t), p.ID, stageID, client.StageUpdate{Status: &done}, p.Version)
	require.NoError(t, err)
	return out
}

func strPtr(s string) *string { return &s }

//Personal.AI order the ending
