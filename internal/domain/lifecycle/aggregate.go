package lifecycle

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// GrantStageName is the stage name whose completion marks a granted patent.
const GrantStageName = "Grant"

// Progress returns round(100 * completed / total).  A patent without stages
// has 0% progress.
func Progress(p *Patent) int {
	if p == nil || len(p.Stages) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(p.CompletedCount()) / float64(len(p.Stages))))
}

// Summarize renders the one-line status sentence of p.
func Summarize(p *Patent) string {
	if p == nil {
		return ""
	}
	name := ""
	if cur, ok := p.CurrentStage(); ok {
		name = cur.Name
	}
	return fmt.Sprintf("Currently: %s (%d%% progress)", name, Progress(p))
}

// MatchesQuery reports whether q is a case-insensitive substring of p's
// title or display code.  An empty or blank query matches everything.
func MatchesQuery(p *Patent, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.RefID), q)
}

// Filter returns the patents matching q, preserving input order.
func Filter(patents []*Patent, q string) []*Patent {
	out := make([]*Patent, 0, len(patents))
	for _, p := range patents {
		if MatchesQuery(p, q) {
			out = append(out, p)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Dashboard
// ─────────────────────────────────────────────────────────────────────────────

// PortfolioStats is the dashboard headline block.
type PortfolioStats struct {
	Total int `json:"total"`
	// Active counts patents with at least one stage that has been touched
	// and is not yet COMPLETED.
	Active            int `json:"active"`
	InProgress        int `json:"in_progress"`
	Objections        int `json:"objections"`
	Granted           int `json:"granted"`
	Overdue           int `json:"overdue"`
	OverdueStageCount int `json:"overdue_stages"`
	// ByStatus counts the status of each patent's current stage.
	ByStatus   map[TaskStatus]int `json:"by_status"`
	ByCategory map[Category]int   `json:"by_category"`
	// AverageExternalDelay is the mean lateness in days of stages completed
	// under external attribution.
	AverageExternalDelay float64 `json:"average_external_delay_days"`
	TotalOfficialFees    int64   `json:"total_official_fees"`
}

// ComputeStats aggregates patents as of today.
func ComputeStats(patents []*Patent, today Date) PortfolioStats {
	st := PortfolioStats{
		Total:      len(patents),
		ByStatus:   make(map[TaskStatus]int, len(statusLabels)),
		ByCategory: make(map[Category]int, 2),
	}
	for _, p := range patents {
		st.ByCategory[p.Category]++
		if cur, ok := p.CurrentStage(); ok {
			st.ByStatus[cur.Status]++
		}

		var active, wip, objection, granted, overdue bool
		for _, s := range p.Stages {
			switch s.Status {
			case StatusWIP:
				wip = true
			case StatusObjection:
				objection = true
			}
			if s.Status != StatusCompleted && s.Status != StatusNotStarted {
				active = true
			}
			if s.Name == GrantStageName && s.IsCompleted() {
				granted = true
			}
			if IsOverdue(s, today) {
				overdue = true
				st.OverdueStageCount++
			}
			st.TotalOfficialFees += s.OfficialFees
		}
		if active {
			st.Active++
		}
		if wip {
			st.InProgress++
		}
		if objection {
			st.Objections++
		}
		if granted {
			st.Granted++
		}
		if overdue {
			st.Overdue++
		}
	}
	st.AverageExternalDelay = AverageExternalDelay(patents)
	return st
}

// AverageExternalDelay averages max(0, completedAt - deadline) in days over
// completed stages attributed to RoleExternal.  It returns 0 when there are
// none.
func AverageExternalDelay(patents []*Patent) float64 {
	var sum, n int
	for _, p := range patents {
		for _, s := range p.Stages {
			if !s.IsCompleted() || s.CompletedAt == nil || s.UpdatedBy != RoleExternal {
				continue
			}
			if d := s.CompletedAt.DaysSince(s.SLADeadline); d > 0 {
				sum += d
			}
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// HistoryEntry is one completed stage in the portfolio activity feed.
type HistoryEntry struct {
	PatentID    string `json:"patent_id"`
	RefID       string `json:"ref_id"`
	Title       string `json:"title"`
	StageID     string `json:"stage_id"`
	StageName   string `json:"stage_name"`
	CompletedAt Date   `json:"completed_at"`
	UpdatedBy   Role   `json:"updated_by"`
}

// History lists completed stages across patents, most recent first.  A
// non-positive limit returns everything.
func History(patents []*Patent, limit int) []HistoryEntry {
	var out []HistoryEntry
	for _, p := range patents {
		for _, s := range p.Stages {
			if !s.IsCompleted() || s.CompletedAt == nil {
				continue
			}
			out = append(out, HistoryEntry{
				PatentID:    p.ID,
				RefID:       p.RefID,
				Title:       p.Title,
				StageID:     s.ID,
				StageName:   s.Name,
				CompletedAt: *s.CompletedAt,
				UpdatedBy:   s.UpdatedBy,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// OverdueStage is a stage past its deadline.
type OverdueStage struct {
	PatentID    string     `json:"patent_id"`
	RefID       string     `json:"ref_id"`
	Title       string     `json:"title"`
	StageID     string     `json:"stage_id"`
	StageName   string     `json:"stage_name"`
	Status      TaskStatus `json:"status"`
	POC         string     `json:"poc"`
	SLADeadline Date       `json:"sla_deadline"`
	DaysOverdue int        `json:"days_overdue"`
}

// OverdueStages lists every overdue stage, most overdue first.
func OverdueStages(patents []*Patent, today Date) []OverdueStage {
	var out []OverdueStage
	for _, p := range patents {
		for _, s := range p.Stages {
			if !IsOverdue(s, today) {
				continue
			}
			out = append(out, OverdueStage{
				PatentID:    p.ID,
				RefID:       p.RefID,
				Title:       p.Title,
				StageID:     s.ID,
				StageName:   s.Name,
				Status:      s.Status,
				POC:         s.POC,
				SLADeadline: s.SLADeadline,
				DaysOverdue: DaysOverdue(s, today),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysOverdue > out[j].DaysOverdue
	})
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Kanban
// ─────────────────────────────────────────────────────────────────────────────

// KanbanMilestones are the stage ids shown as board columns.
var KanbanMilestones = []string{"S1", "S7", "S9", "S13", "S20"}

// KanbanColumn groups patents under one milestone.
type KanbanColumn struct {
	StageID   string   `json:"stage_id"`
	StageName string   `json:"stage_name"`
	PatentIDs []string `json:"patent_ids"`
}

// Board places each patent under every milestone that is its current stage
// or that it has in WIP.  names resolves column titles; a missing name falls
// back to the id.
func Board(patents []*Patent, milestones []string, names map[string]string) []KanbanColumn {
	cols := make([]KanbanColumn, 0, len(milestones))
	for _, id := range milestones {
		col := KanbanColumn{StageID: id, StageName: names[id], PatentIDs: []string{}}
		if col.StageName == "" {
			col.StageName = id
		}
		for _, p := range patents {
			if p.CurrentStageID == id {
				col.PatentIDs = append(col.PatentIDs, p.ID)
				continue
			}
			if s, ok := p.Stage(id); ok && s.Status == StatusWIP {
				col.PatentIDs = append(col.PatentIDs, p.ID)
			}
		}
		cols = append(cols, col)
	}
	return cols
}

//Personal.AI order the ending
