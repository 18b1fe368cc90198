package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/turtacn/KeyIP-Lifecycle/internal/domain/lifecycle"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/memory"
	"github.com/turtacn/KeyIP-Lifecycle/internal/testutil"
)

// Shared fakes for service tests.

type fakeLocker struct {
	mu       sync.Mutex
	acquired []string
	released []string
	err      error
}

func (l *fakeLocker) Acquire(_ context.Context, key string) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.acquired = append(l.acquired, key)
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.released = append(l.released, key)
		return nil
	}, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, ev domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fakeMetrics struct {
	mu          sync.Mutex
	ops         map[string]int
	transitions []string
	completed   []string
	published   map[string]int
	failed      int
	count       int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{ops: map[string]int{}, published: map[string]int{}}
}

func (m *fakeMetrics) ObserveOperation(op, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops[op+"/"+outcome]++
}

func (m *fakeMetrics) StageTransition(from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, from+"->"+to)
}

func (m *fakeMetrics) StageCompleted(stageID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed = append(m.completed, stageID)
}

func (m *fakeMetrics) EventPublished(eventType string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.published[eventType]++
	} else {
		m.failed++
	}
}

func (m *fakeMetrics) SetPatentCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count = n
}

var fixedNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc       Service
	repo      *memory.PatentRepository
	registry  *domain.Registry
	locker    *fakeLocker
	publisher *fakePublisher
	metrics   *fakeMetrics
	logger    *testutil.MockLogger
	now       *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg, err := domain.NewRegistry(
		domain.StageTemplate{ID: "S1", Name: "Invention Disclosure", DefaultPOC: "IP Team", IsMandatory: true, SLADays: 7},
		domain.StageTemplate{ID: "S2", Name: "Novelty Search", DefaultPOC: "Arctic", IsMandatory: true, SLADays: 14},
		domain.StageTemplate{ID: "S3", Name: "Patentability Report", DefaultPOC: "Arctic", IsMandatory: false, SLADays: 5},
	)
	require.NoError(t, err)

	now := fixedNow
	f := &fixture{
		repo:      memory.NewPatentRepository(),
		registry:  reg,
		locker:    &fakeLocker{},
		publisher: &fakePublisher{},
		metrics:   newFakeMetrics(),
		logger:    testutil.NewMockLogger(),
		now:       &now,
	}
	n := 0
	f.svc = NewService(reg, f.repo, f.logger,
		WithLocker(f.locker),
		WithPublisher(f.publisher),
		WithMetrics(f.metrics),
		WithClock(domain.ClockFunc(func() time.Time { return *f.now })),
		WithEventIDGenerator(func() string { n++; return fmt.Sprintf("ev-%d", n) }),
	)
	return f
}

func (f *fixture) createWidget(t *testing.T) *PatentView {
	t.Helper()
	v, err := f.svc.CreatePatent(context.Background(), &CreatePatentInput{
		Title:         "Widget X",
		Jurisdictions: []domain.Jurisdiction{domain.JurisdictionIndia},
		StageIDs:      []string{"S1", "S2", "S3"},
	})
	require.NoError(t, err)
	return v
}

func completed() *domain.TaskStatus {
	s := domain.StatusCompleted
	return &s
}

//Personal.AI order the ending
