package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"listing-service/internal/constants"
	"listing-service/internal/contextkeys"
	"listing-service/internal/contracts"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// messagePublisher - то, что адаптеру нужно от rabbitmq_producer.Publisher
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// ListingEventsPublisherAdapter публикует ListingChangedEvent в fanout-обменник
type ListingEventsPublisherAdapter struct {
	producer   messagePublisher
	routingKey string
}

var _ port.ListingEventsPort = (*ListingEventsPublisherAdapter)(nil)

func NewListingEventsPublisherAdapter(producer messagePublisher, routingKey string) (*ListingEventsPublisherAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &ListingEventsPublisherAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

func (a *ListingEventsPublisherAdapter) PublishListingChanged(ctx context.Context, change domain.ListingChange) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "ListingEventsPublisherAdapter",
		"routing_key": a.routingKey,
		"listing_id":  change.ListingID,
		"kind":        string(change.Kind),
	})

	body, err := json.Marshal(toListingChangedDTO(change))
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal listing change: %w", err)
	}

	// не отправляем то, что сами не смогли бы принять
	if err := contracts.ValidateEvent(constants.ListingChangedEventType, constants.ListingChangedEventVersion, body); err != nil {
		adapterLogger.Error("Outgoing event failed schema validation", err, nil)
		return fmt.Errorf("rabbitmq adapter: invalid listing change event: %w", err)
	}

	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = uuid.New().String()
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    change.EventID.String(),
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			constants.HeaderEventType:    constants.ListingChangedEventType,
			constants.HeaderEventVersion: constants.ListingChangedEventVersion,
			constants.HeaderTraceID:      traceID,
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish listing change", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish listing change: %w", err)
	}

	adapterLogger.Debug("Listing change published", port.Fields{"event_id": change.EventID.String()})
	return nil
}
