package lifecycle

import (
	"context"
	"time"

	domain "github.com/turtacn/KeyIP-Lifecycle/internal/domain/lifecycle"
	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// Locker serializes writers of one patent across processes.  Acquire blocks
// until the lock is held or fails with ErrCodeLockNotAcquired.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}

// EventPublisher delivers committed lifecycle events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Metrics receives operational measurements.  Labels are plain strings so
// that metric backends need not import the domain.
type Metrics interface {
	ObserveOperation(op, outcome string, d time.Duration)
	StageTransition(from, to string)
	StageCompleted(stageID string)
	EventPublished(eventType string, ok bool)
	SetPatentCount(n int)
}

type noopLocker struct{}

func (noopLocker) Acquire(context.Context, string) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

// NoopLocker returns a Locker that never blocks.  The per-patent version
// still detects concurrent writers.
func NoopLocker() Locker { return noopLocker{} }

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, domain.Event) error { return nil }

// NoopPublisher returns an EventPublisher that drops every event.
func NoopPublisher() EventPublisher { return noopPublisher{} }

type noopMetrics struct{}

func (noopMetrics) ObserveOperation(string, string, time.Duration) {}
func (noopMetrics) StageTransition(string, string)                 {}
func (noopMetrics) StageCompleted(string)                          {}
func (noopMetrics) EventPublished(string, bool)                    {}
func (noopMetrics) SetPatentCount(int)                             {}

// NoopMetrics returns a Metrics that records nothing.
func NoopMetrics() Metrics { return noopMetrics{} }

// Operation outcomes reported to Metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Outcome classifies err for metrics and log levels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.IsValidation(err):
		return OutcomeInvalid
	case errors.IsNotFound(err):
		return OutcomeNotFound
	case errors.IsConflict(err):
		return OutcomeConflict
	default:
		return OutcomeError
	}
}

//Personal.AI order the ending
