package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testgram/internal/config"
)

type sent struct {
	topic   string
	key     string
	payload []byte
}

type recordingProducer struct {
	sent []sent
	err  error
}

func (r *recordingProducer) SendMessage(_ context.Context, topic string, key []byte, payload []byte) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, sent{topic: topic, key: string(key), payload: payload})
	return nil
}

func (r *recordingProducer) Close() {}

func TestChatEventPublisherEncodesEvent(t *testing.T) {
	rec := &recordingProducer{}
	pub := NewChatEventPublisher(rec, "chat-events")

	pub.Publish(context.Background(), ChatEvent{Type: EventMessageCreated, ChatID: 12, MessageID: 40, ActorID: 3, Content: "hi"})

	require.Len(t, rec.sent, 1)
	assert.Equal(t, "chat-events", rec.sent[0].topic)
	assert.Equal(t, "12", rec.sent[0].key)

	var got ChatEvent
	require.NoError(t, json.Unmarshal(rec.sent[0].payload, &got))
	assert.Equal(t, EventMessageCreated, got.Type)
	assert.Equal(t, uint(40), got.MessageID)
	assert.Equal(t, "hi", got.Content)
	assert.False(t, got.OccurredAt.IsZero())
}

func TestChatEventPublisherSwallowsErrors(t *testing.T) {
	rec := &recordingProducer{err: errors.New("broker unavailable")}
	pub := NewChatEventPublisher(rec, "chat-events")

	assert.NotPanics(t, func() {
		pub.Publish(context.Background(), ChatEvent{Type: EventChatDeleted, ChatID: 1})
	})

	var nilPub *ChatEventPublisher
	assert.NotPanics(t, func() {
		nilPub.Publish(context.Background(), ChatEvent{Type: EventChatDeleted, ChatID: 1})
	})
}

func TestNewProducerWithoutBrokersIsNoop(t *testing.T) {
	p, err := NewProducer(config.KafkaConfig{})
	require.NoError(t, err)
	assert.IsType(t, NoopProducer{}, p)
	assert.NoError(t, p.SendMessage(context.Background(), "t", nil, nil))
	p.Close()
}
