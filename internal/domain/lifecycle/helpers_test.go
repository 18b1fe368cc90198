package lifecycle_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyIP-Lifecycle/internal/domain/lifecycle"
)

var testNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func fixedClock(t time.Time) lifecycle.Clock {
	return lifecycle.ClockFunc(func() time.Time { return t })
}

func threeTemplates() []lifecycle.StageTemplate {
	return []lifecycle.StageTemplate{
		{ID: "S1", Name: "Invention Disclosure", DefaultPOC: "IP Team", IsMandatory: true, SLADays: 7},
		{ID: "S2", Name: "Novelty Search", DefaultPOC: "Arctic", IsMandatory: true, SLADays: 14},
		{ID: "S3", Name: "Patentability Report", DefaultPOC: "Arctic", IsMandatory: false, SLADays: 5},
	}
}

func newTestInitializer(t *testing.T, templates ...lifecycle.StageTemplate) (*lifecycle.Initializer, *lifecycle.Registry) {
	t.Helper()
	reg, err := lifecycle.NewRegistry(templates...)
	require.NoError(t, err)
	n := 0
	ini := lifecycle.NewInitializer(reg,
		lifecycle.WithInitializerClock(fixedClock(testNow)),
		lifecycle.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("pat-%d", n)
		}),
		lifecycle.WithRefIDGenerator(func(time.Time) string { return "NT-IP-2024-00123" }),
	)
	return ini, reg
}

func newWidget(t *testing.T) *lifecycle.Patent {
	t.Helper()
	ini, _ := newTestInitializer(t, threeTemplates()...)
	p, err := ini.Initialize(lifecycle.PatentMetadata{
		Title:         "Widget X",
		Jurisdictions: []lifecycle.Jurisdiction{lifecycle.JurisdictionIndia},
	}, []string{"S1", "S2", "S3"})
	require.NoError(t, err)
	return p
}

func statusPtr(s lifecycle.TaskStatus) *lifecycle.TaskStatus { return &s }

func strPtr(s string) *string { return &s }

func datePtr(d lifecycle.Date) *lifecycle.Date { return &d }

//Personal.AI order the ending
