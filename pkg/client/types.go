package client

import "time"

// Wire types of the lifecycle API.  Dates are "YYYY-MM-DD" strings and
// enumerations are their upper-case API names.

// Task statuses.
const (
	StatusNotStarted    = "NOT_STARTED"
	StatusStarted       = "STARTED"
	StatusWaitingArctic = "WAITING_ARCTIC"
	StatusWIP           = "WIP"
	StatusCompleted     = "COMPLETED"
	StatusDelayed       = "DELAYED"
	StatusObjection     = "OBJECTION"
)

// Roles.
const (
	RoleInternal = "INTERNAL"
	RoleExternal = "EXTERNAL"
)

type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DefaultPOC  string `json:"default_poc"`
	IsMandatory bool   `json:"is_mandatory"`
	SLADays     int    `json:"sla_days"`
	Description string `json:"description"`
}

// TemplateUpdate changes only the non-nil fields.
type TemplateUpdate struct {
	Name        *string `json:"name,omitempty"`
	DefaultPOC  *string `json:"default_poc,omitempty"`
	IsMandatory *bool   `json:"is_mandatory,omitempty"`
	SLADays     *int    `json:"sla_days,omitempty"`
	Description *string `json:"description,omitempty"`
}

type Stage struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Status       string  `json:"status"`
	SLADeadline  string  `json:"sla_deadline"`
	CompletedAt  string  `json:"completed_at,omitempty"`
	POC          string  `json:"poc"`
	UpdatedBy    string  `json:"updated_by"`
	IsMandatory  bool    `json:"is_mandatory"`
	Remarks      *string `json:"remarks,omitempty"`
	OfficialFees int64   `json:"official_fees"`
	FeePurpose   string  `json:"fee_purpose"`
	FeeDate      string  `json:"fee_date,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	Description  string  `json:"description"`
}

type Patent struct {
	ID              string    `json:"id"`
	RefID           string    `json:"ref_id"`
	Title           string    `json:"title"`
	Category        string    `json:"category"`
	Type            string    `json:"type"`
	Jurisdictions   []string  `json:"jurisdictions"`
	CurrentStageID  string    `json:"current_stage_id"`
	Stages          []Stage   `json:"stages"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	AutoSummary     string    `json:"auto_summary"`
	Version         int64     `json:"version"`
	Progress        int       `json:"progress"`
	CurrencySymbol  string    `json:"currency_symbol"`
	OverdueStageIDs []string  `json:"overdue_stage_ids"`
}

// Stage returns the stage with id, or nil.
func (p *Patent) Stage(id string) *Stage {
	for i := range p.Stages {
		if p.Stages[i].ID == id {
			return &p.Stages[i]
		}
	}
	return nil
}

type CreatePatentRequest struct {
	Title                string   `json:"title"`
	Category             string   `json:"category,omitempty"`
	Type                 string   `json:"type,omitempty"`
	Jurisdictions        []string `json:"jurisdictions"`
	StageIDs             []string `json:"stage_ids"`
	UseMandatoryDefaults bool     `json:"use_mandatory_defaults,omitempty"`
}

// StageUpdate changes only the non-nil fields of one stage.
type StageUpdate struct {
	Status       *string `json:"status,omitempty"`
	CompletedAt  *string `json:"completed_at,omitempty"`
	Remarks      *string `json:"remarks,omitempty"`
	POC          *string `json:"poc,omitempty"`
	UpdatedBy    *string `json:"updated_by,omitempty"`
	OfficialFees *int64  `json:"official_fees,omitempty"`
	FeePurpose   *string `json:"fee_purpose,omitempty"`
	FeeDate      *string `json:"fee_date,omitempty"`
	SLADeadline  *string `json:"sla_deadline,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

type ListPatentsOptions struct {
	Query    string
	Category string
	Limit    int
	Offset   int
}

type PatentList struct {
	Items  []Patent `json:"items"`
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

type Stats struct {
	Total             int            `json:"total"`
	Active            int            `json:"active"`
	InProgress        int            `json:"in_progress"`
	Objections        int            `json:"objections"`
	Granted           int            `json:"granted"`
	Overdue           int            `json:"overdue"`
	OverdueStageCount int            `json:"overdue_stages"`
	ByStatus          map[string]int `json:"by_status"`
	ByCategory        map[string]int `json:"by_category"`
	// AverageExternalDelay is in days.
	AverageExternalDelay float64 `json:"average_external_delay_days"`
}

type KanbanColumn struct {
	StageID   string   `json:"stage_id"`
	StageName string   `json:"stage_name"`
	PatentIDs []string `json:"patent_ids"`
}

type Dashboard struct {
	AsOf  string         `json:"as_of"`
	Stats Stats          `json:"stats"`
	Board []KanbanColumn `json:"board"`
}

type HistoryEntry struct {
	PatentID    string `json:"patent_id"`
	RefID       string `json:"ref_id"`
	Title       string `json:"title"`
	StageID     string `json:"stage_id"`
	StageName   string `json:"stage_name"`
	CompletedAt string `json:"completed_at"`
	UpdatedBy   string `json:"updated_by"`
}

type OverdueStage struct {
	PatentID    string `json:"patent_id"`
	RefID       string `json:"ref_id"`
	Title       string `json:"title"`
	StageID     string `json:"stage_id"`
	StageName   string `json:"stage_name"`
	Status      string `json:"status"`
	POC         string `json:"poc"`
	SLADeadline string `json:"sla_deadline"`
	DaysOverdue int    `json:"days_overdue"`
}

//Personal.AI order the ending
