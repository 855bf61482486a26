package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"listing-service/internal/constants"
	"listing-service/internal/contextkeys"
	"listing-service/internal/contracts"
	"listing-service/internal/core/port"
	usecases_port "listing-service/internal/core/port/usecases_port"
	"listing-service/pkg/rabbitmq/rabbitmq_common"
	"listing-service/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// CacheInvalidationConsumerAdapter слушает изменения объявлений от всех реплик
// и сбрасывает локальный кеш
type CacheInvalidationConsumerAdapter struct {
	consumer rabbitmq_consumer.Consumer
	useCase  usecases_port.InvalidateListingCacheUseCase
	logger   port.LoggerPort
}

var _ port.EventListenerPort = (*CacheInvalidationConsumerAdapter)(nil)

// NewCacheInvalidationConsumerAdapter объявляет у брокера собственную
// временную очередь реплики, привязанную к fanout-обменнику
func NewCacheInvalidationConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.InvalidateListingCacheUseCase,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*CacheInvalidationConsumerAdapter, error) {

	adapter := &CacheInvalidationConsumerAdapter{
		useCase: useCase,
		logger:  logger,
	}

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	// инвалидация идемпотентна, повторная доставка не нужна
	consumer, err := rabbitmq_consumer.NewDistributingConsumer(consumerCfg, adapter.messageHandler, false, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for listing changes: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

// CacheInvalidationConsumerConfig - топология для одной реплики
func CacheInvalidationConsumerConfig(url, consumerTag string) rabbitmq_consumer.ConsumerConfig {
	return rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitmq_common.Config{URL: url},
		QueueName:              "", // имя сгенерирует брокер
		DeclareQueue:           true,
		DurableQueue:           false,
		ExclusiveQueue:         true,
		AutoDeleteQueue:        true,
		ExchangeNameForBind:    constants.ListingEventsExchange,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    constants.ListingEventsExchangeType,
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.RoutingKeyListingChanged,
		PrefetchCount:          20,
		ConsumerTag:            consumerTag,
	}
}

// Start блокируется до отмены ctx
func (a *CacheInvalidationConsumerAdapter) Start(ctx context.Context) error {
	a.logger.Info("Starting cache invalidation consumer...", nil)
	return a.consumer.StartConsuming(ctx)
}

func (a *CacheInvalidationConsumerAdapter) Close() error {
	a.logger.Info("Closing cache invalidation consumer...", nil)
	return a.consumer.Close()
}

func (a *CacheInvalidationConsumerAdapter) messageHandler(ctx context.Context, d amqp.Delivery) error {
	traceID, _ := d.Headers[constants.HeaderTraceID].(string)
	if traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"message_id":   d.MessageId,
		"adapter_name": "CacheInvalidationConsumerAdapter",
	})

	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	eventType, _ := d.Headers[constants.HeaderEventType].(string)
	eventVersion, _ := d.Headers[constants.HeaderEventVersion].(string)
	if err := contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		msgLogger.Error("Message failed schema validation. Rejecting.", err, nil)
		return err
	}

	var dto ListingChangedDTO
	if err := json.Unmarshal(d.Body, &dto); err != nil {
		return fmt.Errorf("failed to unmarshal listing change DTO: %w", err)
	}

	if err := a.useCase.Execute(ctx, toDomainListingChange(dto)); err != nil {
		msgLogger.Error("Cache invalidation failed", err, port.Fields{"listing_id": dto.ListingID})
		return err
	}
	return nil
}
