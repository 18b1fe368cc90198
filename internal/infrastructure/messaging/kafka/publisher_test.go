package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applifecycle "github.com/turtacn/KeyIP-Lifecycle/internal/application/lifecycle"
	"github.com/turtacn/KeyIP-Lifecycle/internal/domain/lifecycle"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

var _ applifecycle.EventPublisher = (*EventPublisher)(nil)

func advancedEvent() lifecycle.Event {
	return lifecycle.Event{
		ID:         "ev-1",
		Type:       lifecycle.EventPatentAdvanced,
		PatentID:   "pat-1",
		RefID:      "NT-IP-2024-00123",
		StageID:    "S1",
		FromStage:  "S1",
		ToStage:    "S2",
		Status:     lifecycle.StatusCompleted,
		UpdatedBy:  lifecycle.RoleInternal,
		Version:    2,
		Summary:    "Currently: Novelty Search (33% progress)",
		OccurredAt: time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC),
	}
}

func TestEventPublisher_Publish(t *testing.T) {
	w := &mockKafkaWriter{}
	pub := NewEventPublisher(NewProducerWithWriter(w, "lifecycle", nil))
	ctx := logging.WithRequestID(context.Background(), "req-42")

	require.NoError(t, pub.Publish(ctx, advancedEvent()))
	require.Len(t, w.messages, 1)
	msg := w.messages[0]

	assert.Equal(t, "pat-1", string(msg.Key))
	assert.Equal(t, "patent.advanced", header(msg, HeaderEventType))
	assert.Equal(t, SchemaVersion, header(msg, HeaderSchema))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &raw))
	assert.Equal(t, "ev-1", raw["event_id"])
	assert.Equal(t, EnvelopeSource, raw["source"])
	assert.Equal(t, "req-42", raw["request_id"])
	payload := raw["payload"].(map[string]any)
	assert.Equal(t, "S2", payload["to_stage"])
	assert.Equal(t, "COMPLETED", payload["status"])
	assert.Equal(t, "INTERNAL", payload["updated_by"])

	env, ev, err := DecodeEvent(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, "req-42", env.RequestID)
	assert.Equal(t, advancedEvent(), ev)
}

func TestDecodeEvent_Rejects(t *testing.T) {
	_, _, err := DecodeEvent([]byte("not json"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeSerialization))

	_, _, err = DecodeEvent([]byte(`{"schema_version":"9","payload":{}}`))
	assert.True(t, errors.IsCode(err, errors.ErrCodeSerialization))

	_, _, err = DecodeEvent([]byte(`{"schema_version":"1","payload":{"status":"DONE"}}`))
	assert.True(t, errors.IsCode(err, errors.ErrCodeSerialization))
}

//Personal.AI order the ending
