// Package memory provides the in-process patent store.  State lives for the
// lifetime of the process; every read and write crosses the boundary as a
// deep copy so callers never share memory with the store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/turtacn/KeyIP-Lifecycle/internal/domain/lifecycle"
	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// PatentRepository is a versioned, concurrency-safe lifecycle.Repository.
type PatentRepository struct {
	mu      sync.RWMutex
	patents map[string]*lifecycle.Patent
	order   []string
}

var _ lifecycle.Repository = (*PatentRepository)(nil)

// NewPatentRepository returns an empty store.
func NewPatentRepository() *PatentRepository {
	return &PatentRepository{patents: make(map[string]*lifecycle.Patent)}
}

// Create stores a copy of p at version 1.
func (r *PatentRepository) Create(ctx context.Context, p *lifecycle.Patent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil || p.ID == "" {
		return errors.InvalidParam("patent with an id is required")
	}
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.patents[p.ID]; exists {
		return errors.Conflict("patent already exists").WithDetail("id=" + p.ID)
	}
	stored := p.Clone()
	stored.Version = 1
	r.patents[p.ID] = stored
	r.order = append(r.order, p.ID)
	p.Version = 1
	return nil
}

// Get returns a snapshot of the patent with id.
func (r *PatentRepository) Get(ctx context.Context, id string) (*lifecycle.Patent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patents[id]
	if !ok {
		return nil, lifecycle.NewPatentNotFound(id)
	}
	return p.Clone(), nil
}

// List returns snapshots in creation order and the number of matches before
// pagination.
func (r *PatentRepository) List(ctx context.Context, opts ...lifecycle.QueryOption) ([]*lifecycle.Patent, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	o := lifecycle.ApplyQueryOptions(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*lifecycle.Patent, 0, len(r.order))
	for _, id := range r.order {
		if p := r.patents[id]; o.Matches(p) {
			matched = append(matched, p)
		}
	}
	total := len(matched)
	if o.Offset >= total {
		return []*lifecycle.Patent{}, total, nil
	}
	end := o.Offset + o.Limit
	if end > total {
		end = total
	}
	out := make([]*lifecycle.Patent, 0, end-o.Offset)
	for _, p := range matched[o.Offset:end] {
		out = append(out, p.Clone())
	}
	return out, total, nil
}

// Replace stores p when the stored version equals expectedVersion and
// returns the new snapshot with its version incremented.
func (r *PatentRepository) Replace(ctx context.Context, p *lifecycle.Patent, expectedVersion int64) (*lifecycle.Patent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.InvalidParam("patent is required")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.patents[p.ID]
	if !ok {
		return nil, lifecycle.NewPatentNotFound(p.ID)
	}
	if current.Version != expectedVersion {
		return nil, errors.New(errors.ErrCodeVersionConflict, "patent was modified concurrently").
			WithDetail(fmt.Sprintf("id=%s expected_version=%d current_version=%d", p.ID, expectedVersion, current.Version))
	}
	stored := p.Clone()
	stored.Version = current.Version + 1
	r.patents[p.ID] = stored
	return stored.Clone(), nil
}

// Delete removes the patent with id regardless of its progress.
func (r *PatentRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.patents[id]; !ok {
		return lifecycle.NewPatentNotFound(id)
	}
	delete(r.patents, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count returns the number of stored patents.
func (r *PatentRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.patents), nil
}

//Personal.AI order the ending
