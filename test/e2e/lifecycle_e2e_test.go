package e2e_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyIP-Lifecycle/pkg/client"
)

func TestE2E_PatentWalksThroughStages(t *testing.T) {
	ctx := testContext(t)
	ids := templateIDs(t, 2)

	p := createPatent(t, &client.CreatePatentRequest{
		Jurisdictions: []string{"US"},
		StageIDs:      []string{ids[1], ids[0]},
	})
	require.Len(t, p.Stages, 2)
	assert.Equal(t, ids[0], p.Stages[0].ID, "stages follow registry order")
	assert.Equal(t, ids[0], p.CurrentStageID)
	assert.Equal(t, 0, p.Progress)
	assert.Equal(t, "$", p.CurrencySymbol)

	p = completeStage(t, p, ids[0])
	assert.Equal(t, ids[1], p.CurrentStageID)
	assert.Equal(t, 50, p.Progress)
	firstDone := p.Stage(ids[0]).CompletedAt
	assert.NotEmpty(t, firstDone)

	p, err := env.sdk.Patents().UpdateStage(ctx, p.ID, ids[1], client.StageUpdate{Remarks: strPtr("search report received")}, p.Version)
	require.NoError(t, err)
	assert.Equal(t, client.RoleInternal, p.Stage(ids[1]).UpdatedBy)

	// A later edit of a completed stage keeps its first completion date.
	p, err = env.sdk.Patents().UpdateStage(ctx, p.ID, ids[0], client.StageUpdate{Notes: strPtr("archived")}, 0)
	require.NoError(t, err)
	assert.Equal(t, firstDone, p.Stage(ids[0]).CompletedAt)

	p = completeStage(t, p, ids[1])
	assert.Equal(t, 100, p.Progress)
	assert.NotEmpty(t, p.AutoSummary)

	hist, err := env.sdk.Portfolio().History(ctx, 0)
	require.NoError(t, err)
	var mine int
	for _, h := range hist {
		if h.PatentID == p.ID {
			mine++
		}
	}
	assert.Equal(t, 2, mine)

	require.NoError(t, env.sdk.Patents().Delete(ctx, p.ID))
	_, err = env.sdk.Patents().Get(ctx, p.ID)
	assert.True(t, client.IsNotFound(err))
}

func TestE2E_StaleVersionIsRejected(t *testing.T) {
	ctx := testContext(t)
	ids := templateIDs(t, 1)
	p := createPatent(t, &client.CreatePatentRequest{StageIDs: ids})

	_, err := env.sdk.Patents().UpdateStage(ctx, p.ID, ids[0], client.StageUpdate{Remarks: strPtr("first")}, p.Version)
	require.NoError(t, err)

	_, err = env.sdk.Patents().UpdateStage(ctx, p.ID, ids[0], client.StageUpdate{Remarks: strPtr("second")}, p.Version)
	require.Error(t, err)
	assert.True(t, client.IsConflict(err))

	got, err := env.sdk.Patents().Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Stage(ids[0]).Remarks)
	assert.Equal(t, "first", *got.Stage(ids[0]).Remarks)
}

func TestE2E_ConcurrentEditsSerialize(t *testing.T) {
	ids := templateIDs(t, 1)
	p := createPatent(t, &client.CreatePatentRequest{StageIDs: ids})

	const writers = 8
	var wg sync.WaitGroup
	var won, conflicted atomic.Int32
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.sdk.Patents().UpdateStage(context.Background(), p.ID, ids[0],
				client.StageUpdate{Notes: strPtr("race")}, p.Version)
			switch {
			case err == nil:
				won.Add(1)
			case client.IsConflict(err):
				conflicted.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), won.Load(), "exactly one writer holds the expected version")
	assert.Equal(t, int32(writers-1), conflicted.Load())

	// Without an expected version every edit applies unless it loses a
	// race that the server's patent lock would have prevented.
	var applied atomic.Int32
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.sdk.Patents().UpdateStage(context.Background(), p.ID, ids[0],
				client.StageUpdate{Notes: strPtr("unconditional")}, 0)
			if err == nil {
				applied.Add(1)
				return
			}
			assert.True(t, client.IsConflict(err), err)
		}()
	}
	wg.Wait()
	if env.serialized {
		assert.Equal(t, int32(writers), applied.Load())
	}

	got, err := env.sdk.Patents().Get(testContext(t), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Version+1+int64(applied.Load()), got.Version)
}

func TestE2E_TemplateEditsDoNotTouchExistingPatents(t *testing.T) {
	ctx := testContext(t)

	tpl, err := env.sdk.Templates().AddDefault(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.sdk.Templates().Remove(context.Background(), tpl.ID) })

	p := createPatent(t, &client.CreatePatentRequest{StageIDs: []string{tpl.ID}})
	require.Equal(t, tpl.Name, p.Stages[0].Name)

	renamed := "Renamed Stage"
	_, err = env.sdk.Templates().Update(ctx, tpl.ID, client.TemplateUpdate{Name: &renamed})
	require.NoError(t, err)
	require.NoError(t, env.sdk.Templates().Remove(ctx, tpl.ID))

	got, err := env.sdk.Patents().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, tpl.Name, got.Stages[0].Name)

	_, err = env.sdk.Patents().Create(ctx, &client.CreatePatentRequest{
		Title: uniqueTitle("Orphan"), Jurisdictions: []string{"UK"}, StageIDs: []string{tpl.ID},
	})
	assert.True(t, client.IsNotFound(err) || client.IsValidation(err), "removed template cannot be selected: %v", err)
}

func TestE2E_CreateValidation(t *testing.T) {
	ctx := testContext(t)
	ids := templateIDs(t, 1)

	cases := []*client.CreatePatentRequest{
		{Title: "abc", Jurisdictions: []string{"India"}, StageIDs: ids},
		{Title: uniqueTitle("No jurisdiction"), StageIDs: ids},
		{Title: uniqueTitle("Bad jurisdiction"), Jurisdictions: []string{"Mars"}, StageIDs: ids},
		{Title: uniqueTitle("No stages"), Jurisdictions: []string{"India"}},
	}
	for _, req := range cases {
		_, err := env.sdk.Patents().Create(ctx, req)
		assert.True(t, client.IsValidation(err), "%s: %v", req.Title, err)
	}
}

func TestE2E_DashboardShowsPatentOnItsStage(t *testing.T) {
	ctx := testContext(t)
	p := createPatent(t, &client.CreatePatentRequest{
		Title:                uniqueTitle("Dashboard"),
		UseMandatoryDefaults: true,
	})

	dash, err := env.sdk.Portfolio().Dashboard(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, dash.Stats.Total, 1)

	var found bool
	for _, col := range dash.Board {
		if col.StageID != p.CurrentStageID {
			continue
		}
		for _, id := range col.PatentIDs {
			found = found || id == p.ID
		}
	}
	assert.True(t, found, "patent %s missing from column %s", p.ID, p.CurrentStageID)

	list, err := env.sdk.Patents().List(ctx, &client.ListPatentsOptions{Query: p.Title})
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, p.ID, list.Items[0].ID)
}

//Personal.AI order the ending
