// Package eventbus runs background jobs over an in-process Watermill
// pub/sub. Each event name is published on its own topic.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	topicPrefix  = "jobs."
	outputBuffer = 256

	metadataEventName = "event_name"
)

// Event is a job published on the bus.
type Event interface {
	EventID() string
	EventName() string
	OccurredAt() time.Time
}

// Topic returns the topic events named eventName travel on.
func Topic(eventName string) string {
	return topicPrefix + eventName
}

// EventBus publishes events to in-process subscribers. Messages are lost
// on shutdown.
type EventBus struct {
	pubsub *gochannel.GoChannel
}

func NewEventBus(logger watermill.LoggerAdapter) *EventBus {
	return &EventBus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: outputBuffer}, logger),
	}
}

// Subscriber returns the Watermill subscriber.
func (b *EventBus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Publish enqueues e. The request context's values are kept, its
// cancellation is not.
func (b *EventBus) Publish(ctx context.Context, e Event) error {
	msg, err := Marshal(e)
	if err != nil {
		return err
	}
	msg.SetContext(context.WithoutCancel(ctx))

	if err := b.pubsub.Publish(Topic(e.EventName()), msg); err != nil {
		return fmt.Errorf("publish %s: %w", e.EventName(), err)
	}
	return nil
}

func (b *EventBus) Close() error {
	return b.pubsub.Close()
}

// EventEnvelope is the wire form of an event.
type EventEnvelope struct {
	EventID    string          `json:"event_id"`
	EventName  string          `json:"event_name"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Marshal wraps e in an envelope and returns it as a message whose UUID is
// the event id.
func Marshal(e Event) (*message.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", e.EventName(), err)
	}

	data, err := json.Marshal(EventEnvelope{
		EventID:    e.EventID(),
		EventName:  e.EventName(),
		OccurredAt: e.OccurredAt(),
		Payload:    payload,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", e.EventName(), err)
	}

	msg := message.NewMessage(e.EventID(), data)
	msg.Metadata.Set(metadataEventName, e.EventName())
	return msg, nil
}

// Unmarshal reads the envelope carried by msg.
func Unmarshal(msg *message.Message) (*EventEnvelope, error) {
	var envelope EventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal envelope %s: %w", msg.UUID, err)
	}
	return &envelope, nil
}
