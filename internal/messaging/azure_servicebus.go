package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/freightdesk/services/forwarding/config"
	"example.com/freightdesk/services/forwarding/internal/models"
)

// EventPublisher publishes shipment lifecycle events after mutations commit.
// A nil *ServiceBusPublisher is a valid no-op publisher, so callers never
// branch on whether the bus is configured.
type EventPublisher interface {
	PublishShipmentEvent(ctx context.Context, event models.ShipmentEvent) error
	Close() error
}

// ServiceBusPublisher implements EventPublisher over Azure Service Bus.
type ServiceBusPublisher struct {
	client    *azservicebus.Client
	sender    *azservicebus.Sender
	queueName string
}

// NewServiceBusPublisher creates a publisher for the configured queue.
func NewServiceBusPublisher(cfg config.AzureConfig) (*ServiceBusPublisher, error) {
	if !cfg.Enabled || cfg.QueueConnStr == "" {
		return nil, errors.New("Azure Service Bus is not configured")
	}

	client, err := azservicebus.NewClientFromConnectionString(cfg.QueueConnStr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Service Bus client")
	}

	sender, err := client.NewSender(cfg.QueueName, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Service Bus sender")
	}

	return &ServiceBusPublisher{
		client:    client,
		sender:    sender,
		queueName: cfg.QueueName,
	}, nil
}

// PublishShipmentEvent sends one event to the queue.
func (p *ServiceBusPublisher) PublishShipmentEvent(ctx context.Context, event models.ShipmentEvent) error {
	if p == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to marshal shipment event")
	}

	msg := &azservicebus.Message{
		Body: data,
		ApplicationProperties: map[string]interface{}{
			"entity_type": event.EntityType,
			"event_type":  event.EventType,
			"time":        time.Now().UTC().Format(time.RFC3339),
		},
	}

	if err := p.sender.SendMessage(ctx, msg, nil); err != nil {
		return errors.Wrap(err, "failed to send shipment event")
	}

	log.Debug().
		Str("entity_type", event.EntityType).
		Str("event_type", event.EventType).
		Str("entity_id", event.EntityID.String()).
		Msg("shipment event published")
	return nil
}

// Close closes the sender and the client.
func (p *ServiceBusPublisher) Close() error {
	if p == nil {
		return nil
	}
	if p.sender != nil {
		if err := p.sender.Close(context.Background()); err != nil {
			return err
		}
	}
	if p.client != nil {
		return p.client.Close(context.Background())
	}
	return nil
}
