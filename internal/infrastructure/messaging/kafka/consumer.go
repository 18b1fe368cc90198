package kafka

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/KeyIP-Lifecycle/internal/config"
	"github.com/turtacn/KeyIP-Lifecycle/internal/domain/lifecycle"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventHandler receives each decoded event.  Returning an error stops the
// consumer without committing the message.
type EventHandler func(ctx context.Context, env Envelope, ev lifecycle.Event) error

// EventConsumer reads lifecycle events from the topic as part of a consumer
// group.
type EventConsumer struct {
	reader ReaderInterface
	logger logging.Logger
}

// NewEventConsumer joins cfg.GroupID on cfg.Topic.  fromStart selects the
// earliest offset for a group with no committed position.
func NewEventConsumer(cfg config.KafkaConfig, fromStart bool, logger logging.Logger) (*EventConsumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.InvalidParam("kafka brokers are required")
	}
	if cfg.Topic == "" || cfg.GroupID == "" {
		return nil, errors.InvalidParam("kafka topic and group id are required")
	}
	start := kafka.LastOffset
	if fromStart {
		start = kafka.FirstOffset
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		MaxWait:     500 * time.Millisecond,
		StartOffset: start,
		Dialer:      &kafka.Dialer{ClientID: cfg.ClientID, Timeout: 10 * time.Second, DualStack: true},
	})
	return NewEventConsumerWithReader(r, logger), nil
}

// NewEventConsumerWithReader wraps an existing reader.
func NewEventConsumerWithReader(r ReaderInterface, logger logging.Logger) *EventConsumer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &EventConsumer{reader: r, logger: logger.Named("kafka-consumer")}
}

// Run fetches, decodes, handles and commits messages until ctx is done or
// the handler fails.  Undecodable messages are logged, committed and
// skipped.  A canceled ctx is a clean stop and returns nil.
func (c *EventConsumer) Run(ctx context.Context, handle EventHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, io.EOF) {
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeMessagingError, "kafka fetch failed")
		}

		env, ev, err := DecodeEvent(msg.Value)
		if err != nil {
			c.logger.Warn("skipping undecodable event",
				logging.Int64("offset", msg.Offset),
				logging.Int("partition", msg.Partition),
				logging.Err(err))
		} else if err := handle(ctx, env, ev); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeMessagingError, "kafka commit failed")
		}
	}
}

// Close leaves the consumer group.
func (c *EventConsumer) Close() error {
	return c.reader.Close()
}

//Personal.AI order the ending
