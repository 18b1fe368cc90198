package lifecycle

import (
	"context"
)

// QueryOptions defines filtering and pagination for patent listings.
type QueryOptions struct {
	Limit    int
	Offset   int
	Query    string
	Category Category
}

// QueryOption defines a functional option for patent listings.
type QueryOption func(*QueryOptions)

// WithLimit sets the page size.
func WithLimit(limit int) QueryOption {
	return func(o *QueryOptions) {
		o.Limit = limit
	}
}

// WithOffset sets the number of matches to skip.
func WithOffset(offset int) QueryOption {
	return func(o *QueryOptions) {
		o.Offset = offset
	}
}

// WithQuery filters by case-insensitive substring of title or display code.
func WithQuery(q string) QueryOption {
	return func(o *QueryOptions) {
		o.Query = q
	}
}

// WithCategory restricts the listing to one category.
func WithCategory(c Category) QueryOption {
	return func(o *QueryOptions) {
		o.Category = c
	}
}

// MaxListLimit caps a single page.
const MaxListLimit = 500

// ApplyQueryOptions applies the given options and returns the final configuration.
// A zero limit means "everything up to MaxListLimit".
func ApplyQueryOptions(opts ...QueryOption) QueryOptions {
	options := QueryOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Limit <= 0 || options.Limit > MaxListLimit {
		options.Limit = MaxListLimit
	}
	if options.Offset < 0 {
		options.Offset = 0
	}
	return options
}

// Matches reports whether p passes the filters in o.
func (o QueryOptions) Matches(p *Patent) bool {
	if o.Category != "" && p.Category != o.Category {
		return false
	}
	return MatchesQuery(p, o.Query)
}

// Repository is the persistence contract for patents.  Implementations hand
// out snapshots: callers never hold a reference into repository state.
type Repository interface {
	// Create stores a new patent.  The stored version is 1.
	Create(ctx context.Context, p *Patent) error
	// Get returns a snapshot of the patent with id.
	Get(ctx context.Context, id string) (*Patent, error)
	// List returns snapshots in creation order plus the total match count
	// before pagination.
	List(ctx context.Context, opts ...QueryOption) ([]*Patent, int, error)
	// Replace stores p if the stored version equals expectedVersion and
	// returns the stored snapshot with its version incremented.
	Replace(ctx context.Context, p *Patent, expectedVersion int64) (*Patent, error)
	// Delete removes the patent with id.
	Delete(ctx context.Context, id string) error
	// Count returns the number of stored patents.
	Count(ctx context.Context) (int, error)
}

//Personal.AI order the ending
