package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"testgram/internal/logging"
)

// Chat event types published on the chat events topic.
const (
	EventChatCreated    = "chat.created"
	EventChatDeleted    = "chat.deleted"
	EventMessageCreated = "message.created"
	EventMessageDeleted = "message.deleted"
)

// ChatEvent is the payload of every chat event. Events of one chat share
// the partition key so consumers see them in commit order.
type ChatEvent struct {
	Type       string    `json:"type"`
	ChatID     uint      `json:"chat_id"`
	MessageID  uint      `json:"message_id,omitempty"`
	ActorID    uint      `json:"actor_id"`
	Content    string    `json:"content,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ChatEventPublisher emits chat lifecycle events after the corresponding
// transaction committed. Delivery failures are logged and never surface to
// the caller.
type ChatEventPublisher struct {
	producer MessageProducer
	topic    string
	timeout  time.Duration
}

// NewChatEventPublisher publishes to topic through producer.
func NewChatEventPublisher(producer MessageProducer, topic string) *ChatEventPublisher {
	return &ChatEventPublisher{producer: producer, topic: topic, timeout: 5 * time.Second}
}

// Publish sends ev, stamping OccurredAt when unset.
func (p *ChatEventPublisher) Publish(ctx context.Context, ev ChatEvent) {
	if p == nil || p.producer == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	log := logging.Log.WithFields(logrus.Fields{
		"event":   ev.Type,
		"chat_id": ev.ChatID,
		"topic":   p.topic,
	})

	payload, err := json.Marshal(ev)
	if err != nil {
		log.WithError(err).Error("encoding chat event")
		return
	}

	// The request may finish before delivery is confirmed.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	key := []byte(strconv.FormatUint(uint64(ev.ChatID), 10))
	if err := p.producer.SendMessage(sendCtx, p.topic, key, payload); err != nil {
		log.WithError(err).Warn("publishing chat event failed")
		return
	}
	log.Debug("chat event published")
}
