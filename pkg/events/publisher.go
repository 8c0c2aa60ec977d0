package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Publisher abstracts the event bus so services do not depend on the
// transport directly.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// envelope is the wire form of an event on the bus.
type envelope struct {
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// WatermillPublisher publishes events to an in-process watermill
// gochannel topic.
type WatermillPublisher struct {
	pubSub *gochannel.GoChannel
	topic  string
}

var _ Publisher = &WatermillPublisher{}

func NewWatermillPublisher(pubSub *gochannel.GoChannel, topic string) *WatermillPublisher {
	return &WatermillPublisher{
		pubSub: pubSub,
		topic:  topic,
	}
}

func (p *WatermillPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(envelope{
		Type:       event.EventType(),
		Payload:    event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.EventType(), err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	return p.pubSub.Publish(p.topic, msg)
}
