// Package lifecycle is the application layer of the patent lifecycle tracker.
// It orchestrates the template registry, the transition engine and the
// repository, and fans committed changes out to locks, events and metrics.
package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/turtacn/KeyIP-Lifecycle/internal/domain/lifecycle"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// CreatePatentInput is the request to start tracking a patent.
type CreatePatentInput struct {
	Title         string                `json:"title"`
	Category      domain.Category       `json:"category,omitempty"`
	Type          domain.FilingType     `json:"type,omitempty"`
	Jurisdictions []domain.Jurisdiction `json:"jurisdictions"`
	StageIDs      []string              `json:"stage_ids"`
	// UseMandatoryDefaults selects the mandatory templates when StageIDs is
	// empty.  Without it an empty selection is rejected.
	UseMandatoryDefaults bool `json:"use_mandatory_defaults,omitempty"`
}

// UpdateStageInput is one edit of one stage.
type UpdateStageInput struct {
	PatentID string `json:"patent_id"`
	StageID  string `json:"stage_id"`
	// ExpectedVersion guards against lost updates; 0 accepts the current
	// version.
	ExpectedVersion int64               `json:"expected_version,omitempty"`
	Changes         domain.StageChanges `json:"changes"`
}

// ListPatentsInput filters and pages the portfolio.
type ListPatentsInput struct {
	Query    string          `json:"query,omitempty"`
	Category domain.Category `json:"category,omitempty"`
	Limit    int             `json:"limit,omitempty"`
	Offset   int             `json:"offset,omitempty"`
}

// PatentView is a patent with its derived display fields.
type PatentView struct {
	*domain.Patent
	Progress        int      `json:"progress"`
	CurrencySymbol  string   `json:"currency_symbol"`
	OverdueStageIDs []string `json:"overdue_stage_ids"`
}

// PatentList is one page of patents.
type PatentList struct {
	Items  []PatentView `json:"items"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// Dashboard is the portfolio overview.
type Dashboard struct {
	AsOf  domain.Date           `json:"as_of"`
	Stats domain.PortfolioStats `json:"stats"`
	Board []domain.KanbanColumn `json:"board"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

// Service defines the application-level contract of the lifecycle tracker.
type Service interface {
	ListTemplates(ctx context.Context) ([]domain.StageTemplate, error)
	AddTemplate(ctx context.Context, t domain.StageTemplate) (domain.StageTemplate, error)
	// AddDefaultTemplate appends a placeholder stage under the next free id.
	AddDefaultTemplate(ctx context.Context) (domain.StageTemplate, error)
	UpdateTemplate(ctx context.Context, id string, changes domain.TemplateChanges) (domain.StageTemplate, error)
	RemoveTemplate(ctx context.Context, id string) error

	CreatePatent(ctx context.Context, in *CreatePatentInput) (*PatentView, error)
	GetPatent(ctx context.Context, id string) (*PatentView, error)
	ListPatents(ctx context.Context, in *ListPatentsInput) (*PatentList, error)
	UpdateStage(ctx context.Context, in *UpdateStageInput) (*PatentView, error)
	DeletePatent(ctx context.Context, id string) error

	Dashboard(ctx context.Context) (*Dashboard, error)
	History(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
	Overdue(ctx context.Context) ([]domain.OverdueStage, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

// ServiceOption configures the service.
type ServiceOption func(*serviceImpl)

// WithLocker enables cross-process serialization of stage updates.
func WithLocker(l Locker) ServiceOption {
	return func(s *serviceImpl) {
		if l != nil {
			s.locker = l
		}
	}
}

// WithPublisher sets the event sink.
func WithPublisher(p EventPublisher) ServiceOption {
	return func(s *serviceImpl) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) ServiceOption {
	return func(s *serviceImpl) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock overrides the wall clock used for stamps, deadlines and overdue
// checks.
func WithClock(c domain.Clock) ServiceOption {
	return func(s *serviceImpl) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithInitializerOptions passes options through to the patent initializer.
func WithInitializerOptions(opts ...domain.InitializerOption) ServiceOption {
	return func(s *serviceImpl) {
		s.initOpts = append(s.initOpts, opts...)
	}
}

// WithEventIDGenerator overrides event id generation.
func WithEventIDGenerator(fn func() string) ServiceOption {
	return func(s *serviceImpl) {
		if fn != nil {
			s.newEventID = fn
		}
	}
}

type serviceImpl struct {
	registry    *domain.Registry
	repo        domain.Repository
	initializer *domain.Initializer
	engine      *domain.Engine
	locker      Locker
	publisher   EventPublisher
	metrics     Metrics
	clock       domain.Clock
	initOpts    []domain.InitializerOption
	newEventID  func() string
	logger      logging.Logger
}

// NewService constructs a Service.
func NewService(registry *domain.Registry, repo domain.Repository, logger logging.Logger, opts ...ServiceOption) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &serviceImpl{
		registry:   registry,
		repo:       repo,
		locker:     NoopLocker(),
		publisher:  NoopPublisher(),
		metrics:    NoopMetrics(),
		clock:      domain.SystemClock{},
		newEventID: uuid.NewString,
		logger:     logger.Named("lifecycle"),
	}
	for _, opt := range opts {
		opt(s)
	}
	initOpts := append([]domain.InitializerOption{domain.WithInitializerClock(s.clock)}, s.initOpts...)
	s.initializer = domain.NewInitializer(registry, initOpts...)
	s.engine = domain.NewEngine(s.clock)
	return s
}

// finish logs and measures the end of an operation.  Client errors log at
// WARN, everything else that failed at ERROR.
func (s *serviceImpl) finish(ctx context.Context, op string, start time.Time, err error, fields ...logging.Field) {
	outcome := Outcome(err)
	s.metrics.ObserveOperation(op, outcome, time.Since(start))

	l := s.logger.WithContext(ctx)
	fields = append(fields, logging.String("operation", op), logging.String("outcome", outcome))
	switch outcome {
	case OutcomeSuccess:
		l.Info(op+" succeeded", fields...)
	case OutcomeError:
		fields = append(fields, logging.String(logging.FieldErrorCode, string(errors.GetCode(err))))
		l.Error(op+" failed", append(fields, logging.Err(err))...)
	default:
		fields = append(fields, logging.String(logging.FieldErrorCode, string(errors.GetCode(err))))
		l.Warn(op+" rejected", append(fields, logging.Err(err))...)
	}
}

func (s *serviceImpl) today() domain.Date { return domain.Today(s.clock) }

func (s *serviceImpl) view(p *domain.Patent, today domain.Date) *PatentView {
	v := &PatentView{
		Patent:          p,
		Progress:        domain.Progress(p),
		CurrencySymbol:  domain.CurrencySymbol(p.Jurisdictions),
		OverdueStageIDs: []string{},
	}
	for _, st := range p.Stages {
		if domain.IsOverdue(st, today) {
			v.OverdueStageIDs = append(v.OverdueStageIDs, st.ID)
		}
	}
	return v
}

// ---------------------------------------------------------------------------
// Templates
// ---------------------------------------------------------------------------

func (s *serviceImpl) ListTemplates(ctx context.Context) ([]domain.StageTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.registry.List(), nil
}

func (s *serviceImpl) AddTemplate(ctx context.Context, t domain.StageTemplate) (out domain.StageTemplate, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, "add_template", start, err, logging.String(logging.FieldStageID, out.ID)) }()

	if strings.TrimSpace(t.ID) == "" {
		t.ID = s.registry.NextID()
	}
	if err = s.registry.Add(t); err != nil {
		return domain.StageTemplate{}, err
	}
	return s.registry.Get(strings.TrimSpace(t.ID))
}

func (s *serviceImpl) AddDefaultTemplate(ctx context.Context) (out domain.StageTemplate, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, "add_template", start, err, logging.String(logging.FieldStageID, out.ID)) }()

	return s.registry.AddDefault()
}

func (s *serviceImpl) UpdateTemplate(ctx context.Context, id string, changes domain.TemplateChanges) (out domain.StageTemplate, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, "update_template", start, err, logging.String(logging.FieldStageID, id)) }()

	return s.registry.Update(id, changes)
}

func (s *serviceImpl) RemoveTemplate(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.finish(ctx, "remove_template", start, err, logging.String(logging.FieldStageID, id)) }()

	return s.registry.Remove(id)
}

// ---------------------------------------------------------------------------
// Patents
// ---------------------------------------------------------------------------

func (s *serviceImpl) CreatePatent(ctx context.Context, in *CreatePatentInput) (view *PatentView, err error) {
	start := time.Now()
	var p *domain.Patent
	defer func() {
		fields := []logging.Field{}
		if p != nil {
			fields = append(fields, logging.String(logging.FieldPatentID, p.ID), logging.String("ref_id", p.RefID))
		}
		s.finish(ctx, "create_patent", start, err, fields...)
	}()

	if in == nil {
		return nil, errors.InvalidParam("request must not be nil")
	}
	selected := in.StageIDs
	if len(selected) == 0 && in.UseMandatoryDefaults {
		selected = s.registry.MandatoryIDs()
	}

	p, err = s.initializer.Initialize(domain.PatentMetadata{
		Title:         in.Title,
		Category:      in.Category,
		Type:          in.Type,
		Jurisdictions: in.Jurisdictions,
	}, selected)
	if err != nil {
		return nil, err
	}
	if err = s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.Event{
		ID:         s.newEventID(),
		Type:       domain.EventPatentCreated,
		PatentID:   p.ID,
		RefID:      p.RefID,
		StageID:    p.CurrentStageID,
		Version:    p.Version,
		Summary:    p.AutoSummary,
		OccurredAt: p.CreatedAt,
	})
	s.refreshCount(ctx)
	return s.view(p, s.today()), nil
}

func (s *serviceImpl) GetPatent(ctx context.Context, id string) (*PatentView, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(p, s.today()), nil
}

func (s *serviceImpl) ListPatents(ctx context.Context, in *ListPatentsInput) (*PatentList, error) {
	if in == nil {
		in = &ListPatentsInput{}
	}
	opts := []domain.QueryOption{
		domain.WithQuery(in.Query),
		domain.WithCategory(in.Category),
		domain.WithLimit(in.Limit),
		domain.WithOffset(in.Offset),
	}
	patents, total, err := s.repo.List(ctx, opts...)
	if err != nil {
		return nil, err
	}
	applied := domain.ApplyQueryOptions(opts...)
	today := s.today()
	out := &PatentList{
		Items:  make([]PatentView, 0, len(patents)),
		Total:  total,
		Limit:  applied.Limit,
		Offset: applied.Offset,
	}
	for _, p := range patents {
		out.Items = append(out.Items, *s.view(p, today))
	}
	return out, nil
}

func (s *serviceImpl) UpdateStage(ctx context.Context, in *UpdateStageInput) (view *PatentView, err error) {
	start := time.Now()
	fields := []logging.Field{}
	defer func() { s.finish(ctx, "update_stage", start, err, fields...) }()

	if in == nil {
		return nil, errors.InvalidParam("request must not be nil")
	}
	fields = append(fields, logging.String(logging.FieldPatentID, in.PatentID), logging.String(logging.FieldStageID, in.StageID))
	if in.PatentID == "" || in.StageID == "" {
		return nil, errors.InvalidParam("patent_id and stage_id are required")
	}
	if err = in.Changes.Validate(); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, in.PatentID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
			s.logger.WithContext(ctx).Warn("release patent lock failed",
				logging.String(logging.FieldPatentID, in.PatentID), logging.Err(rerr))
		}
	}()

	current, err := s.repo.Get(ctx, in.PatentID)
	if err != nil {
		return nil, err
	}
	if in.ExpectedVersion != 0 && in.ExpectedVersion != current.Version {
		return nil, errors.New(errors.ErrCodeVersionConflict, "patent was modified concurrently").
			WithDetail(versionDetail(in.PatentID, in.ExpectedVersion, current.Version))
	}

	res, err := s.engine.Apply(current, in.StageID, in.Changes)
	if err != nil {
		return nil, err
	}
	stored, err := s.repo.Replace(ctx, res.Patent, current.Version)
	if err != nil {
		return nil, err
	}
	res.Patent = stored
	fields = append(fields, logging.Int64(logging.FieldVersion, stored.Version))

	if res.PreviousStatus != res.Stage.Status {
		s.metrics.StageTransition(string(res.PreviousStatus), string(res.Stage.Status))
	}
	if res.Completed {
		s.metrics.StageCompleted(res.Stage.ID)
	}
	if res.Advanced {
		fields = append(fields, logging.String("current_stage_id", stored.CurrentStageID))
	}
	for _, ev := range domain.EventsForTransition(res, s.newEventID) {
		s.publish(ctx, ev)
	}
	return s.view(stored, s.today()), nil
}

func (s *serviceImpl) DeletePatent(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.finish(ctx, "delete_patent", start, err, logging.String(logging.FieldPatentID, id)) }()

	if err = s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, domain.Event{
		ID:         s.newEventID(),
		Type:       domain.EventPatentDeleted,
		PatentID:   id,
		OccurredAt: s.clock.Now(),
	})
	s.refreshCount(ctx)
	return nil
}

func versionDetail(id string, expected, current int64) string {
	return fmt.Sprintf("id=%s expected_version=%d current_version=%d", id, expected, current)
}

// publish delivers ev.  The change is already committed, so a failed
// delivery is logged and counted but not returned.
func (s *serviceImpl) publish(ctx context.Context, ev domain.Event) {
	err := s.publisher.Publish(ctx, ev)
	s.metrics.EventPublished(string(ev.Type), err == nil)
	if err != nil {
		s.logger.WithContext(ctx).Error("publish lifecycle event failed",
			logging.String("event_type", string(ev.Type)),
			logging.String(logging.FieldPatentID, ev.PatentID),
			logging.Err(err))
	}
}

func (s *serviceImpl) refreshCount(ctx context.Context) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.WithContext(ctx).Warn("count patents failed", logging.Err(err))
		return
	}
	s.metrics.SetPatentCount(n)
}

// ---------------------------------------------------------------------------
// Portfolio
// ---------------------------------------------------------------------------

// all pages through the whole repository.
func (s *serviceImpl) all(ctx context.Context) ([]*domain.Patent, error) {
	var out []*domain.Patent
	for offset := 0; ; {
		page, total, err := s.repo.List(ctx, domain.WithOffset(offset), domain.WithLimit(domain.MaxListLimit))
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		offset += len(page)
		if len(page) == 0 || offset >= total {
			return out, nil
		}
	}
}

func (s *serviceImpl) Dashboard(ctx context.Context) (*Dashboard, error) {
	patents, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(domain.KanbanMilestones))
	for _, t := range s.registry.List() {
		names[t.ID] = t.Name
	}
	today := s.today()
	return &Dashboard{
		AsOf:  today,
		Stats: domain.ComputeStats(patents, today),
		Board: domain.Board(patents, domain.KanbanMilestones, names),
	}, nil
}

func (s *serviceImpl) History(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	patents, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	out := domain.History(patents, limit)
	if out == nil {
		out = []domain.HistoryEntry{}
	}
	return out, nil
}

func (s *serviceImpl) Overdue(ctx context.Context) ([]domain.OverdueStage, error) {
	patents, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	out := domain.OverdueStages(patents, s.today())
	if out == nil {
		out = []domain.OverdueStage{}
	}
	return out, nil
}

//Personal.AI order the ending
