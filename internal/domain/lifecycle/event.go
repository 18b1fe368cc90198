package lifecycle

import (
	"time"
)

// EventType names a lifecycle event.
type EventType string

const (
	EventPatentCreated  EventType = "patent.created"
	EventStageUpdated   EventType = "patent.stage_updated"
	EventStageCompleted EventType = "patent.stage_completed"
	EventPatentAdvanced EventType = "patent.advanced"
	EventPatentDeleted  EventType = "patent.deleted"
)

// Event is an outbound notification of a committed change.
type Event struct {
	ID         string     `json:"id"`
	Type       EventType  `json:"type"`
	PatentID   string     `json:"patent_id"`
	RefID      string     `json:"ref_id,omitempty"`
	StageID    string     `json:"stage_id,omitempty"`
	FromStage  string     `json:"from_stage,omitempty"`
	ToStage    string     `json:"to_stage,omitempty"`
	Status     TaskStatus `json:"status,omitempty"`
	UpdatedBy  Role       `json:"updated_by,omitempty"`
	Version    int64      `json:"version"`
	Summary    string     `json:"summary,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// EventsForTransition derives the events of one committed stage update.  The
// update event always comes first.
func EventsForTransition(res *TransitionResult, newID func() string) []Event {
	p := res.Patent
	base := Event{
		PatentID:   p.ID,
		RefID:      p.RefID,
		StageID:    res.Stage.ID,
		Status:     res.Stage.Status,
		UpdatedBy:  res.Stage.UpdatedBy,
		Version:    p.Version,
		Summary:    p.AutoSummary,
		OccurredAt: p.UpdatedAt,
	}

	events := make([]Event, 0, 3)
	ev := base
	ev.ID, ev.Type = newID(), EventStageUpdated
	events = append(events, ev)

	if res.Completed {
		ev = base
		ev.ID, ev.Type = newID(), EventStageCompleted
		events = append(events, ev)
	}
	if res.Advanced {
		ev = base
		ev.ID, ev.Type = newID(), EventPatentAdvanced
		ev.FromStage, ev.ToStage = res.PreviousCurrent, p.CurrentStageID
		events = append(events, ev)
	}
	return events
}

//Personal.AI order the ending
