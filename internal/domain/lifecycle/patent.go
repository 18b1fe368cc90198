package lifecycle

import (
	"fmt"
	"time"

	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// Stage is one step of a patent's roadmap.  ID, Name, IsMandatory and
// Description are frozen copies of the template taken at creation time.
type Stage struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Status       TaskStatus `json:"status"`
	SLADeadline  Date       `json:"sla_deadline"`
	CompletedAt  *Date      `json:"completed_at,omitempty"`
	POC          string     `json:"poc"`
	UpdatedBy    Role       `json:"updated_by"`
	IsMandatory  bool       `json:"is_mandatory"`
	Remarks      *string    `json:"remarks,omitempty"`
	OfficialFees int64      `json:"official_fees"`
	FeePurpose   string     `json:"fee_purpose"`
	FeeDate      *Date      `json:"fee_date,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Description  string     `json:"description"`
}

// IsCompleted reports whether the stage status is COMPLETED.
func (s Stage) IsCompleted() bool { return s.Status.IsCompleted() }

func (s Stage) clone() Stage {
	c := s
	if s.CompletedAt != nil {
		v := *s.CompletedAt
		c.CompletedAt = &v
	}
	if s.Remarks != nil {
		v := *s.Remarks
		c.Remarks = &v
	}
	if s.FeeDate != nil {
		v := *s.FeeDate
		c.FeeDate = &v
	}
	return c
}

// Patent is the aggregate root of the lifecycle domain.
type Patent struct {
	ID             string         `json:"id"`
	RefID          string         `json:"ref_id"`
	Title          string         `json:"title"`
	Category       Category       `json:"category"`
	Type           FilingType     `json:"type"`
	Jurisdictions  []Jurisdiction `json:"jurisdictions"`
	CurrentStageID string         `json:"current_stage_id"`
	Stages         []Stage        `json:"stages"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	AutoSummary    string         `json:"auto_summary"`
	// Version is bumped by the repository on every successful replace.
	Version int64 `json:"version"`
}

// Clone returns a deep copy of p.
func (p *Patent) Clone() *Patent {
	if p == nil {
		return nil
	}
	c := *p
	c.Jurisdictions = append([]Jurisdiction(nil), p.Jurisdictions...)
	c.Stages = make([]Stage, len(p.Stages))
	for i, s := range p.Stages {
		c.Stages[i] = s.clone()
	}
	return &c
}

// StageIndex returns the array position of the stage with id, or -1.
func (p *Patent) StageIndex(id string) int {
	for i := range p.Stages {
		if p.Stages[i].ID == id {
			return i
		}
	}
	return -1
}

// Stage returns a copy of the stage with id.
func (p *Patent) Stage(id string) (Stage, bool) {
	i := p.StageIndex(id)
	if i < 0 {
		return Stage{}, false
	}
	return p.Stages[i].clone(), true
}

// CurrentStage returns a copy of the stage CurrentStageID points to.
func (p *Patent) CurrentStage() (Stage, bool) {
	return p.Stage(p.CurrentStageID)
}

// CompletedCount returns the number of COMPLETED stages.
func (p *Patent) CompletedCount() int {
	n := 0
	for _, s := range p.Stages {
		if s.IsCompleted() {
			n++
		}
	}
	return n
}

// Validate checks the aggregate invariants: a non-empty roadmap with unique
// stage ids, a current stage that exists, and at least one jurisdiction.
func (p *Patent) Validate() error {
	if len(p.Stages) == 0 {
		return invariantViolation(p, "patent has no stages")
	}
	if len(p.Jurisdictions) == 0 {
		return invariantViolation(p, "patent has no jurisdictions")
	}
	seen := make(map[string]struct{}, len(p.Stages))
	for _, s := range p.Stages {
		if _, dup := seen[s.ID]; dup {
			return invariantViolation(p, fmt.Sprintf("duplicate stage id %s", s.ID))
		}
		seen[s.ID] = struct{}{}
	}
	if _, ok := seen[p.CurrentStageID]; !ok {
		return invariantViolation(p, fmt.Sprintf("current stage %q is not in the roadmap", p.CurrentStageID))
	}
	return nil
}

func invariantViolation(p *Patent, msg string) *errors.AppError {
	return errors.New(errors.ErrCodePatentInvalid, msg).WithDetail("patent_id=" + p.ID)
}

func patentNotFound(id string) *errors.AppError {
	return errors.New(errors.ErrCodePatentNotFound, "patent not found").WithDetail("id=" + id)
}

// NewPatentNotFound is the error repositories return for a missing patent.
func NewPatentNotFound(id string) error { return patentNotFound(id) }

//Personal.AI order the ending
