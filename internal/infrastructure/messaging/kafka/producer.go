// Package kafka streams committed lifecycle events to a Kafka topic and reads
// them back for tailing.
package kafka

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/KeyIP-Lifecycle/internal/config"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

var ErrProducerClosed = errors.New(errors.ErrCodeMessagingError, "kafka producer closed")

// maxMessageBytes mirrors the broker's default message.max.bytes.
const maxMessageBytes = 1 << 20

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Message is one record to produce.
type Message struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
	Time    time.Time
}

// ProducerStats is a snapshot of producer counters.
type ProducerStats struct {
	Sent   int64
	Failed int64
	Bytes  int64
}

// Producer writes messages to a single topic.
type Producer struct {
	writer WriterInterface
	topic  string
	logger logging.Logger
	closed atomic.Bool

	sent   atomic.Int64
	failed atomic.Int64
	bytes  atomic.Int64
}

// NewProducer builds a producer for cfg.Topic.  Messages with the same key
// land on the same partition.
func NewProducer(cfg config.KafkaConfig, logger logging.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.InvalidParam("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.InvalidParam("kafka topic is required")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		MaxAttempts:  cfg.MaxAttempts,
		RequiredAcks: requiredAcks(cfg.RequiredAcks),
		Transport:    &kafka.Transport{ClientID: cfg.ClientID, DialTimeout: 10 * time.Second},
	}
	return NewProducerWithWriter(w, cfg.Topic, logger), nil
}

// NewProducerWithWriter wraps an existing writer.
func NewProducerWithWriter(w WriterInterface, topic string, logger logging.Logger) *Producer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Producer{
		writer: w,
		topic:  topic,
		logger: logger.Named("kafka").With(logging.String("topic", topic)),
	}
}

func requiredAcks(n int) kafka.RequiredAcks {
	switch n {
	case 1:
		return kafka.RequireOne
	case 0:
		return kafka.RequireNone
	default:
		return kafka.RequireAll
	}
}

// Publish writes one message synchronously.
func (p *Producer) Publish(ctx context.Context, msg Message) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if len(msg.Value) == 0 {
		return errors.InvalidParam("message value is required")
	}
	if len(msg.Value) > maxMessageBytes {
		return errors.InvalidParam("message too large")
	}

	start := time.Now()
	if err := p.writer.WriteMessages(ctx, toKafkaMessage(msg)); err != nil {
		p.failed.Add(1)
		return errors.Wrap(err, errors.ErrCodeMessagingError, "kafka write failed")
	}
	p.sent.Add(1)
	p.bytes.Add(int64(len(msg.Value)))
	p.logger.Debug("message published",
		logging.String("key", string(msg.Key)),
		logging.Duration("latency", time.Since(start)))
	return nil
}

// Stats returns the producer counters.
func (p *Producer) Stats() ProducerStats {
	return ProducerStats{Sent: p.sent.Load(), Failed: p.failed.Load(), Bytes: p.bytes.Load()}
}

// Close flushes pending batches.  It is safe to call more than once.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("kafka producer closed", logging.Int64("sent", p.sent.Load()), logging.Int64("failed", p.failed.Load()))
	return err
}

func toKafkaMessage(msg Message) kafka.Message {
	headers := make([]kafka.Header, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	ts := msg.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	return kafka.Message{Key: msg.Key, Value: msg.Value, Headers: headers, Time: ts}
}

//Personal.AI order the ending
