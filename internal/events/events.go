package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/planpal/planpal-services/models"
	"github.com/rs/zerolog/log"
)

// Notifier publishes group and event activity.
type Notifier interface {
	Notify(ctx context.Context, activity models.Activity) error
	Close()
}

type EventPublisher struct {
	client   pulsar.Client
	producer pulsar.Producer
}

// NewEventPublisher initializes the Pulsar client and producer.
func NewEventPublisher(pulsarURL, topic string) (*EventPublisher, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: pulsarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: topic,
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar producer: %w", err)
	}

	log.Info().Str("topic", topic).Msg("Pulsar client and producer initialized successfully")
	return &EventPublisher{client: client, producer: producer}, nil
}

// Notify publishes an activity message keyed by its group.
func (p *EventPublisher) Notify(ctx context.Context, activity models.Activity) error {
	if activity.Timestamp == 0 {
		activity.Timestamp = time.Now().UTC().Unix()
	}

	message, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("could not serialize activity: %w", err)
	}

	_, err = p.producer.Send(ctx, &pulsar.ProducerMessage{
		Key:     activity.GroupID,
		Payload: message,
	})
	if err != nil {
		return fmt.Errorf("could not send activity to Pulsar: %w", err)
	}

	log.Debug().Str("type", activity.Type).Str("group_id", activity.GroupID).Msg("Activity sent to Pulsar")
	return nil
}

// Close closes the Pulsar producer and client
func (p *EventPublisher) Close() {
	p.producer.Close()
	p.client.Close()
	log.Info().Msg("Pulsar client and producer closed successfully")
}

// NopNotifier drops every activity. Used when no broker is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, models.Activity) error { return nil }

func (NopNotifier) Close() {}
