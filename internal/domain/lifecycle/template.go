package lifecycle

import (
	"fmt"
	"strings"

	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// StageTemplate is the master definition of a possible stage.  Patents copy
// the fields they need at creation time and never read the template again.
type StageTemplate struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	DefaultPOC  string `json:"default_poc" yaml:"default_poc"`
	IsMandatory bool   `json:"is_mandatory" yaml:"is_mandatory"`
	SLADays     int    `json:"sla_days" yaml:"sla_days"`
	Description string `json:"description" yaml:"description"`
}

// Validate checks the template's own fields.
func (t StageTemplate) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.Validation(errors.ErrCodeTemplateInvalid, "template id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return errors.Validation(errors.ErrCodeTemplateInvalid, "template name is required").WithDetail("id=" + t.ID)
	}
	if t.SLADays < 0 {
		return errors.Validation(errors.ErrCodeTemplateInvalid, "sla days must not be negative").
			WithDetail(fmt.Sprintf("id=%s sla_days=%d", t.ID, t.SLADays))
	}
	return nil
}

// TemplateChanges is a partial update of a StageTemplate; nil fields are left
// untouched.  The id cannot be changed.
type TemplateChanges struct {
	Name        *string `json:"name,omitempty"`
	DefaultPOC  *string `json:"default_poc,omitempty"`
	IsMandatory *bool   `json:"is_mandatory,omitempty"`
	SLADays     *int    `json:"sla_days,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Apply returns t with the changes merged in.
func (c TemplateChanges) Apply(t StageTemplate) StageTemplate {
	if c.Name != nil {
		t.Name = *c.Name
	}
	if c.DefaultPOC != nil {
		t.DefaultPOC = *c.DefaultPOC
	}
	if c.IsMandatory != nil {
		t.IsMandatory = *c.IsMandatory
	}
	if c.SLADays != nil {
		t.SLADays = *c.SLADays
	}
	if c.Description != nil {
		t.Description = *c.Description
	}
	return t
}

// DefaultTemplates returns the built-in lifecycle catalogue in canonical order.
func DefaultTemplates() []StageTemplate {
	return []StageTemplate{
		{ID: "S1", Name: "Invention Disclosure", DefaultPOC: "IP Team", IsMandatory: true, SLADays: 7, Description: "Initial submission of the technical disclosure form by the inventor."},
		{ID: "S2", Name: "Novelty Search", DefaultPOC: "Arctic", IsMandatory: true, SLADays: 14, Description: "Prior art search to determine if the invention meets novelty requirements."},
		{ID: "S3", Name: "Patentability Report", DefaultPOC: "Arctic", IsMandatory: true, SLADays: 5, Description: "Formal assessment report on the likelihood of patent grant."},
		{ID: "S4", Name: "Internal IP Review", DefaultPOC: "IP Committee", IsMandatory: true, SLADays: 10, Description: "Board review to decide on filing strategy and budget approval."},
		{ID: "S5", Name: "Provisional Drafting", DefaultPOC: "Arctic", IsMandatory: false, SLADays: 15, Description: "Drafting the temporary specification to secure a priority date."},
		{ID: "S6", Name: "Provisional Filing", DefaultPOC: "NT", IsMandatory: false, SLADays: 2, Description: "Submission to the patent office to establish earliest priority."},
		{ID: "S7", Name: "Non-Provisional Drafting", DefaultPOC: "Arctic", IsMandatory: true, SLADays: 20, Description: "Detailed full specification drafting including claims and drawings."},
		{ID: "S8", Name: "Technical Review", DefaultPOC: "NT", IsMandatory: true, SLADays: 7, Description: "Internal verification of technical accuracy of the draft."},
		{ID: "S9", Name: "Formal Filing", DefaultPOC: "NT", IsMandatory: true, SLADays: 3, Description: "Final submission of the complete application to the patent office."},
		{ID: "S10", Name: "PCT International Filing", DefaultPOC: "Arctic", IsMandatory: false, SLADays: 10, Description: "Filing the international application under the Patent Cooperation Treaty."},
		{ID: "S11", Name: "Publication (18m)", DefaultPOC: "Auto", IsMandatory: true, SLADays: 540, Description: "Official publication of the application in the patent journal."},
		{ID: "S12", Name: "Request for Examination", DefaultPOC: "NT", IsMandatory: true, SLADays: 30, Description: "Formal request to the patent office to begin technical examination."},
		{ID: "S13", Name: "First Office Action (FER)", DefaultPOC: "Examining Office", IsMandatory: true, SLADays: 180, Description: "Initial report from the examiner detailing objections or allowed claims."},
		{ID: "S14", Name: "Response to FER", DefaultPOC: "Arctic", IsMandatory: true, SLADays: 90, Description: "Drafting and filing arguments/amendments to overcome office objections."},
		{ID: "S15", Name: "Subsequent Office Actions", DefaultPOC: "Arctic", IsMandatory: false, SLADays: 60, Description: "Handling second or third reports from the examiner."},
		{ID: "S16", Name: "Hearing Notice", DefaultPOC: "Examining Office", IsMandatory: false, SLADays: 30, Description: "Appointment of an oral hearing with the patent controller."},
		{ID: "S17", Name: "Oral Hearing", DefaultPOC: "Arctic", IsMandatory: false, SLADays: 15, Description: "Representing the invention during the technical discussion with the controller."},
		{ID: "S18", Name: "Post-Hearing Submission", DefaultPOC: "Arctic", IsMandatory: false, SLADays: 15, Description: "Filing written summaries and final claim sets after the hearing."},
		{ID: "S19", Name: "Notice of Allowance", DefaultPOC: "Examining Office", IsMandatory: true, SLADays: 60, Description: "Official confirmation that the patent is ready for grant."},
		{ID: "S20", Name: "Grant", DefaultPOC: "Examining Office", IsMandatory: true, SLADays: 30, Description: "Issuance of the formal patent certificate."},
	}
}

// NewStageTemplate returns the placeholder added from the settings screen.
func NewStageTemplate(id string) StageTemplate {
	return StageTemplate{
		ID:          id,
		Name:        "New Patent Stage",
		DefaultPOC:  "NT",
		IsMandatory: false,
		SLADays:     30,
		Description: "Standard operational stage.",
	}
}

//Personal.AI order the ending
