package lifecycle

import (
	"fmt"

	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// StageChanges is a partial edit of one Stage.  Nil fields are left untouched.
type StageChanges struct {
	Status       *TaskStatus `json:"status,omitempty"`
	CompletedAt  *Date       `json:"completed_at,omitempty"`
	Remarks      *string     `json:"remarks,omitempty"`
	POC          *string     `json:"poc,omitempty"`
	UpdatedBy    *Role       `json:"updated_by,omitempty"`
	OfficialFees *int64      `json:"official_fees,omitempty"`
	FeePurpose   *string     `json:"fee_purpose,omitempty"`
	FeeDate      *Date       `json:"fee_date,omitempty"`
	SLADeadline  *Date       `json:"sla_deadline,omitempty"`
	Notes        *string     `json:"notes,omitempty"`
}

// IsEmpty reports whether no field is set.
func (c StageChanges) IsEmpty() bool {
	return c.Status == nil && c.CompletedAt == nil && c.Remarks == nil && c.POC == nil &&
		c.UpdatedBy == nil && c.OfficialFees == nil && c.FeePurpose == nil && c.FeeDate == nil &&
		c.SLADeadline == nil && c.Notes == nil
}

// Validate rejects values outside their domains.
func (c StageChanges) Validate() error {
	if c.Status != nil && !c.Status.IsValid() {
		return errors.Validation(errors.ErrCodeInvalidStatus, "invalid stage status").WithDetail(string(*c.Status))
	}
	if c.UpdatedBy != nil && !c.UpdatedBy.IsValid() {
		return errors.Validation(errors.ErrCodeInvalidRole, "invalid role").WithDetail(string(*c.UpdatedBy))
	}
	if c.OfficialFees != nil && *c.OfficialFees < 0 {
		return errors.Validation(errors.ErrCodeValidation, "official fees must not be negative").
			WithDetail(fmt.Sprintf("official_fees=%d", *c.OfficialFees))
	}
	if c.CompletedAt != nil && c.CompletedAt.IsZero() {
		return errors.Validation(errors.ErrCodeValidation, "completion date is required")
	}
	if c.SLADeadline != nil && c.SLADeadline.IsZero() {
		return errors.Validation(errors.ErrCodeValidation, "sla deadline is required")
	}
	return nil
}

// TransitionResult describes what ApplyStageUpdate did, for event emission.
type TransitionResult struct {
	Patent         *Patent
	Stage          Stage
	PreviousStatus TaskStatus
	// Completed is true when this call stamped CompletedAt.
	Completed bool
	// Advanced is true when CurrentStageID changed.
	Advanced        bool
	PreviousCurrent string
}

// Engine applies stage edits and derives their side effects.
type Engine struct {
	clock Clock
}

// NewEngine returns an Engine reading time from clock (SystemClock when nil).
func NewEngine(clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{clock: clock}
}

// ApplyStageUpdate returns a new snapshot of p with changes applied to the
// stage stageID.  p itself is not modified.
func (e *Engine) ApplyStageUpdate(p *Patent, stageID string, changes StageChanges) (*Patent, error) {
	res, err := e.Apply(p, stageID, changes)
	if err != nil {
		return nil, err
	}
	return res.Patent, nil
}

// Apply is ApplyStageUpdate with a description of the side effects.
//
// Rules, in order:
//   - a CompletedAt edit forces status COMPLETED;
//   - a status change to COMPLETED stamps today's date unless the stage
//     already had a completion date;
//   - a remarks edit attributes the stage to RoleInternal;
//   - if this edit completes the stage (status COMPLETED or a CompletedAt)
//     and it is not the last one, the current stage moves to the next stage
//     in array order; any other edit leaves the current stage alone, even on
//     a stage that is already completed;
//   - UpdatedAt and AutoSummary are refreshed.
func (e *Engine) Apply(p *Patent, stageID string, changes StageChanges) (*TransitionResult, error) {
	if p == nil {
		return nil, errors.InvalidParam("patent is required")
	}
	if err := changes.Validate(); err != nil {
		return nil, err
	}

	next := p.Clone()
	idx := next.StageIndex(stageID)
	if idx < 0 {
		return nil, errors.New(errors.ErrCodeStageNotFound, "stage not found").
			WithDetail(fmt.Sprintf("patent_id=%s stage_id=%s", p.ID, stageID))
	}

	now := e.clock.Now()
	st := &next.Stages[idx]
	prevStatus := st.Status
	hadCompletion := st.CompletedAt != nil

	if changes.Status != nil {
		st.Status = *changes.Status
	}
	if changes.POC != nil {
		st.POC = *changes.POC
	}
	if changes.UpdatedBy != nil {
		st.UpdatedBy = *changes.UpdatedBy
	}
	if changes.OfficialFees != nil {
		st.OfficialFees = *changes.OfficialFees
	}
	if changes.FeePurpose != nil {
		st.FeePurpose = *changes.FeePurpose
	}
	if changes.FeeDate != nil {
		d := *changes.FeeDate
		st.FeeDate = &d
	}
	if changes.SLADeadline != nil {
		st.SLADeadline = *changes.SLADeadline
	}
	if changes.Notes != nil {
		st.Notes = *changes.Notes
	}
	if changes.Remarks != nil {
		r := *changes.Remarks
		st.Remarks = &r
		st.UpdatedBy = RoleInternal
	}

	stamped := false
	if changes.CompletedAt != nil {
		d := *changes.CompletedAt
		st.CompletedAt = &d
		st.Status = StatusCompleted
		stamped = !hadCompletion
	} else if changes.Status != nil && changes.Status.IsCompleted() && !hadCompletion {
		today := DateOf(now)
		st.CompletedAt = &today
		stamped = true
	}

	completing := changes.CompletedAt != nil || (changes.Status != nil && changes.Status.IsCompleted())
	prevCurrent := next.CurrentStageID
	if completing && idx < len(next.Stages)-1 {
		next.CurrentStageID = next.Stages[idx+1].ID
	}

	next.UpdatedAt = now
	next.AutoSummary = Summarize(next)

	if err := next.Validate(); err != nil {
		return nil, err
	}

	return &TransitionResult{
		Patent:          next,
		Stage:           next.Stages[idx].clone(),
		PreviousStatus:  prevStatus,
		Completed:       stamped,
		Advanced:        next.CurrentStageID != prevCurrent,
		PreviousCurrent: prevCurrent,
	}, nil
}

// IsOverdue reports whether s is past its deadline and not completed.  A
// deadline equal to today is not overdue.
func IsOverdue(s Stage, today Date) bool {
	return s.SLADeadline.Before(today) && !s.IsCompleted()
}

// DaysOverdue returns how many days s is past its deadline, or 0 when it is
// not overdue.
func DaysOverdue(s Stage, today Date) int {
	if !IsOverdue(s, today) {
		return 0
	}
	return today.DaysSince(s.SLADeadline)
}

// IsOverdue evaluates IsOverdue against the engine's clock.
func (e *Engine) IsOverdue(s Stage) bool {
	return IsOverdue(s, Today(e.clock))
}

//Personal.AI order the ending
