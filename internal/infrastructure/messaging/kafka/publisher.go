package kafka

import (
	"context"
	"encoding/json"

	"github.com/turtacn/KeyIP-Lifecycle/internal/domain/lifecycle"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

const (
	// EnvelopeSource identifies this service as the producer.
	EnvelopeSource = "keyip-lifecycle"
	// SchemaVersion is bumped on incompatible payload changes.
	SchemaVersion = "1"

	HeaderEventType = "event_type"
	HeaderSchema    = "schema_version"
)

// Envelope wraps every event on the wire.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	SchemaVersion string          `json:"schema_version"`
	RequestID     string          `json:"request_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// Sender is the part of Producer the publisher needs.
type Sender interface {
	Publish(ctx context.Context, msg Message) error
}

// EventPublisher sends lifecycle events keyed by patent id, so that one
// patent's events stay ordered within a partition.
type EventPublisher struct {
	sender Sender
}

// NewEventPublisher returns a publisher writing through sender.
func NewEventPublisher(sender Sender) *EventPublisher {
	return &EventPublisher{sender: sender}
}

// Publish encodes ev in an Envelope and sends it.
func (p *EventPublisher) Publish(ctx context.Context, ev lifecycle.Event) error {
	msg, err := EncodeEvent(ev, logging.RequestIDFromContext(ctx))
	if err != nil {
		return err
	}
	return p.sender.Publish(ctx, msg)
}

// EncodeEvent builds the wire message of ev.
func EncodeEvent(ev lifecycle.Event, requestID string) (Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return Message{}, errors.Wrap(err, errors.ErrCodeSerialization, "encode lifecycle event")
	}
	value, err := json.Marshal(Envelope{
		EventID:       ev.ID,
		EventType:     string(ev.Type),
		Source:        EnvelopeSource,
		SchemaVersion: SchemaVersion,
		RequestID:     requestID,
		Payload:       payload,
	})
	if err != nil {
		return Message{}, errors.Wrap(err, errors.ErrCodeSerialization, "encode event envelope")
	}
	return Message{
		Key:   []byte(ev.PatentID),
		Value: value,
		Headers: map[string]string{
			HeaderEventType: string(ev.Type),
			HeaderSchema:    SchemaVersion,
		},
		Time: ev.OccurredAt,
	}, nil
}

// DecodeEvent parses a wire message produced by EncodeEvent.
func DecodeEvent(value []byte) (Envelope, lifecycle.Event, error) {
	var env Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		return Envelope{}, lifecycle.Event{}, errors.Wrap(err, errors.ErrCodeSerialization, "decode event envelope")
	}
	if env.SchemaVersion != SchemaVersion {
		return env, lifecycle.Event{}, errors.New(errors.ErrCodeSerialization, "unsupported event schema version").
			WithDetail("schema_version=" + env.SchemaVersion)
	}
	var ev lifecycle.Event
	if err := json.Unmarshal(env.Payload, &ev); err != nil {
		return env, lifecycle.Event{}, errors.Wrap(err, errors.ErrCodeSerialization, "decode lifecycle event")
	}
	return env, ev, nil
}

//Personal.AI order the ending
