// Package events delivers engine events to observers over an in-process
// watermill pub/sub.
package events

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/xiaot623/gogo/panel/internal/domain"
)

// Topic is the single topic every engine event is published on.
const Topic = "panel.events"

// Publisher is what controllers publish through.
type Publisher interface {
	Publish(eventType domain.EventType, payload interface{})
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(domain.EventType, interface{}) {}

// Bus is a Publisher backed by a watermill GoChannel.
type Bus struct {
	pubsub *gochannel.GoChannel
	seq    atomic.Uint64
}

var _ Publisher = (*Bus)(nil)

// NewBus creates a bus. Publishing never waits for subscribers.
func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, NewWatermillLogger(log.Logger)),
	}
}

// Publish sends an event to all current subscribers. Failures are logged.
func (b *Bus) Publish(eventType domain.EventType, payload interface{}) {
	ev := domain.Event{
		Seq:     b.seq.Add(1),
		Type:    eventType,
		Ts:      time.Now().UnixMilli(),
		Payload: payload,
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("type", string(eventType)).Msg("failed to encode event")
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("type", string(eventType))
	if err := b.pubsub.Publish(Topic, msg); err != nil {
		log.Warn().Err(err).Str("type", string(eventType)).Msg("failed to publish event")
	}
}

// Subscribe returns decoded events until ctx is done or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context) (<-chan domain.Event, error) {
	messages, err := b.pubsub.Subscribe(ctx, Topic)
	if err != nil {
		return nil, errors.Wrap(err, "subscribe to engine events")
	}

	out := make(chan domain.Event, 64)
	go func() {
		defer close(out)
		for msg := range messages {
			var ev domain.Event
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				log.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("dropping undecodable event")
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Close stops the bus and ends every subscription.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
