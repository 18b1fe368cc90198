package lifecycle

import (
	"fmt"
	"strings"
	"sync"

	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// TemplateSource resolves a selection of template ids into templates in
// canonical order.  The Initializer depends on this rather than on Registry.
type TemplateSource interface {
	Select(ids []string) ([]StageTemplate, error)
}

// Registry is the ordered stage template catalogue.  Insertion order is the
// canonical lifecycle order.  It is safe for concurrent use and hands out
// copies, so mutations never reach patents created earlier.
type Registry struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]StageTemplate
}

// NewRegistry builds a registry from templates in the given order.
func NewRegistry(templates ...StageTemplate) (*Registry, error) {
	r := &Registry{byID: make(map[string]StageTemplate, len(templates))}
	for _, t := range templates {
		if err := r.Add(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewDefaultRegistry returns a registry holding DefaultTemplates.
func NewDefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultTemplates()...)
	if err != nil {
		panic(fmt.Sprintf("lifecycle: default templates are invalid: %v", err))
	}
	return r
}

// List returns all templates in canonical order.
func (r *Registry) List() []StageTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]StageTemplate, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the number of templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Get returns the template with the given id.
func (r *Registry) Get(id string) (StageTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return StageTemplate{}, templateNotFound(id)
	}
	return t, nil
}

// Add appends t at the end of the canonical order.
func (r *Registry) Add(t StageTemplate) error {
	t.ID = strings.TrimSpace(t.ID)
	if err := t.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[t.ID]; exists {
		return errors.New(errors.ErrCodeTemplateExists, "stage template already exists").WithDetail("id=" + t.ID)
	}
	r.byID[t.ID] = t
	r.order = append(r.order, t.ID)
	return nil
}

// AddDefault appends a placeholder template under the next free S<n> id.
func (r *Registry) AddDefault() (StageTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := NewStageTemplate(r.nextIDLocked())
	r.byID[t.ID] = t
	r.order = append(r.order, t.ID)
	return t, nil
}

// NextID returns the id AddDefault would assign.
func (r *Registry) NextID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nextIDLocked()
}

// nextIDLocked returns S<len+1>, skipping ids left behind by earlier removals.
func (r *Registry) nextIDLocked() string {
	for n := len(r.order) + 1; ; n++ {
		id := fmt.Sprintf("S%d", n)
		if _, taken := r.byID[id]; !taken {
			return id
		}
	}
}

// Update merges changes into the template with the given id and returns the
// updated copy.  Existing patents are unaffected.
func (r *Registry) Update(id string, changes TemplateChanges) (StageTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return StageTemplate{}, templateNotFound(id)
	}
	updated := changes.Apply(current)
	if err := updated.Validate(); err != nil {
		return StageTemplate{}, err
	}
	r.byID[id] = updated
	return updated, nil
}

// Remove deletes the template with the given id.  Existing patents are
// unaffected.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return templateNotFound(id)
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// MandatoryIDs returns the ids of mandatory templates in canonical order.
// New patents preselect this set.
func (r *Registry) MandatoryIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.order))
	for _, id := range r.order {
		if r.byID[id].IsMandatory {
			ids = append(ids, id)
		}
	}
	return ids
}

// Select returns the templates named in ids, in canonical registry order
// regardless of the order of ids.  Duplicates are ignored; an unknown id
// fails the whole selection.
func (r *Registry) Select(ids []string) ([]StageTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := r.byID[id]; !ok {
			return nil, templateNotFound(id)
		}
		wanted[id] = struct{}{}
	}

	out := make([]StageTemplate, 0, len(wanted))
	for _, id := range r.order {
		if _, ok := wanted[id]; ok {
			out = append(out, r.byID[id])
		}
	}
	return out, nil
}

func templateNotFound(id string) *errors.AppError {
	return errors.New(errors.ErrCodeTemplateNotFound, "stage template not found").WithDetail("id=" + id)
}

//Personal.AI order the ending
