package lifecycle

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// Initializer defaults.
const (
	DefaultExternalPOC = "Arctic"
	DefaultFeePurpose  = "Govt. Fees"
	DefaultRefIDPrefix = "NT-IP"

	minTitleLength = 4
)

// PatentMetadata is the caller-supplied part of a new patent.
type PatentMetadata struct {
	Title         string         `json:"title"`
	Category      Category       `json:"category"`
	Type          FilingType     `json:"type"`
	Jurisdictions []Jurisdiction `json:"jurisdictions"`
}

// Initializer turns a template selection plus metadata into a new Patent.
type Initializer struct {
	templates   TemplateSource
	clock       Clock
	newID       func() string
	newRefID    func(now time.Time) string
	externalPOC string
	feePurpose  string
	refPrefix   string
}

// InitializerOption configures an Initializer.
type InitializerOption func(*Initializer)

// WithInitializerClock overrides the wall clock.
func WithInitializerClock(c Clock) InitializerOption {
	return func(i *Initializer) { i.clock = c }
}

// WithIDGenerator overrides patent id generation.
func WithIDGenerator(fn func() string) InitializerOption {
	return func(i *Initializer) { i.newID = fn }
}

// WithRefIDGenerator overrides display code generation.
func WithRefIDGenerator(fn func(now time.Time) string) InitializerOption {
	return func(i *Initializer) { i.newRefID = fn }
}

// WithExternalPOC sets the point-of-contact literal that maps to RoleExternal.
func WithExternalPOC(poc string) InitializerOption {
	return func(i *Initializer) {
		if poc != "" {
			i.externalPOC = poc
		}
	}
}

// WithFeePurpose sets the default fee purpose label of new stages.
func WithFeePurpose(purpose string) InitializerOption {
	return func(i *Initializer) {
		if purpose != "" {
			i.feePurpose = purpose
		}
	}
}

// WithRefIDPrefix sets the prefix of generated display codes.
func WithRefIDPrefix(prefix string) InitializerOption {
	return func(i *Initializer) {
		if prefix != "" {
			i.refPrefix = prefix
		}
	}
}

// NewInitializer creates an Initializer reading templates from src.
func NewInitializer(src TemplateSource, opts ...InitializerOption) *Initializer {
	i := &Initializer{
		templates:   src,
		clock:       SystemClock{},
		newID:       uuid.NewString,
		externalPOC: DefaultExternalPOC,
		feePurpose:  DefaultFeePurpose,
		refPrefix:   DefaultRefIDPrefix,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.newRefID == nil {
		prefix := i.refPrefix
		i.newRefID = func(now time.Time) string {
			return fmt.Sprintf("%s-%d-00%d", prefix, now.Year(), 100+rand.Intn(900))
		}
	}
	return i
}

// ExternalPOC returns the literal mapped to RoleExternal.
func (i *Initializer) ExternalPOC() string { return i.externalPOC }

// Initialize validates meta and the selection and builds the patent.  On any
// validation failure nothing is constructed.
//
// An empty Category defaults to Core and an empty Type to Non-Provisional.
func (i *Initializer) Initialize(meta PatentMetadata, selected []string) (*Patent, error) {
	title := strings.TrimSpace(meta.Title)
	if utf8.RuneCountInString(title) < minTitleLength {
		return nil, errors.Validation(errors.ErrCodeTitleTooShort, "title must be longer than 3 characters").
			WithDetail(fmt.Sprintf("title=%q", meta.Title))
	}
	if len(meta.Jurisdictions) == 0 {
		return nil, errors.Validation(errors.ErrCodeNoJurisdiction, "at least one jurisdiction is required")
	}
	if len(selected) == 0 {
		return nil, errors.Validation(errors.ErrCodeNoStageSelected, "at least one stage must be selected")
	}

	category := meta.Category
	if category == "" {
		category = CategoryCore
	}
	if !category.IsValid() {
		return nil, errors.Validation(errors.ErrCodeValidation, "invalid category").WithDetail(string(category))
	}
	filingType := meta.Type
	if filingType == "" {
		filingType = FilingNonProvisional
	}
	if !filingType.IsValid() {
		return nil, errors.Validation(errors.ErrCodeValidation, "invalid filing type").WithDetail(string(filingType))
	}
	jurisdictions, err := dedupeJurisdictions(meta.Jurisdictions)
	if err != nil {
		return nil, err
	}

	templates, err := i.templates.Select(selected)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, errors.Validation(errors.ErrCodeNoStageSelected, "at least one stage must be selected")
	}

	now := i.clock.Now()
	today := DateOf(now)

	stages := make([]Stage, 0, len(templates))
	for _, t := range templates {
		stages = append(stages, Stage{
			ID:          t.ID,
			Name:        t.Name,
			Status:      StatusNotStarted,
			SLADeadline: today.AddDays(t.SLADays),
			POC:         t.DefaultPOC,
			UpdatedBy:   RoleForPOC(t.DefaultPOC, i.externalPOC),
			IsMandatory: t.IsMandatory,
			FeePurpose:  i.feePurpose,
			Description: t.Description,
		})
	}

	p := &Patent{
		ID:             i.newID(),
		RefID:          i.newRefID(now),
		Title:          title,
		Category:       category,
		Type:           filingType,
		Jurisdictions:  jurisdictions,
		CurrentStageID: stages[0].ID,
		Stages:         stages,
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        1,
	}
	// The summary follows the same format from creation on, so a new patent
	// reads "Currently: <first stage> (0% progress)".
	p.AutoSummary = Summarize(p)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func dedupeJurisdictions(in []Jurisdiction) ([]Jurisdiction, error) {
	seen := make(map[Jurisdiction]struct{}, len(in))
	out := make([]Jurisdiction, 0, len(in))
	for _, j := range in {
		if !j.IsValid() {
			return nil, errors.Validation(errors.ErrCodeValidation, "invalid jurisdiction").WithDetail(string(j))
		}
		if _, dup := seen[j]; dup {
			continue
		}
		seen[j] = struct{}{}
		out = append(out, j)
	}
	return out, nil
}

//Personal.AI order the ending
