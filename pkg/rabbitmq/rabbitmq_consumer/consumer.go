package rabbitmq_consumer

import (
	"context"
	"fmt"

	"listing-service/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler обрабатывает одно сообщение. Пакет сам делает ack/nack.
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

// Consumer - общий контракт потребителей пакета
type Consumer interface {
	StartConsuming(ctx context.Context) error
	Close() error
}

// DistributingConsumer запускает обработчик для каждого сообщения в отдельной горутине
type DistributingConsumer struct {
	base    *baseConsumer
	handler MessageHandler
	// requeue при ошибке обработчика
	requeueOnError bool
}

// NewDistributingConsumer создает потребителя
func NewDistributingConsumer(cfg ConsumerConfig, handler MessageHandler, requeueOnError bool, connManager *rabbitmq_common.ConnectionManager) (*DistributingConsumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("distributing Consumer: message handler is required")
	}

	bc, err := newBaseConsumer(cfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("distributing Consumer: %w", err)
	}

	return &DistributingConsumer{
		base:           bc,
		handler:        handler,
		requeueOnError: requeueOnError,
	}, nil
}

// QueueName возвращает имя очереди, в том числе сгенерированное брокером
func (c *DistributingConsumer) QueueName() string {
	return c.base.actualQueueName
}

// StartConsuming блокируется до отмены ctx или закрытия соединения
func (c *DistributingConsumer) StartConsuming(ctx context.Context) error {
	if c.base.channel == nil || c.base.connection == nil || c.base.connection.IsClosed() {
		return fmt.Errorf("distributing Consumer: not connected")
	}

	msgs, err := c.base.channel.Consume(
		c.base.actualQueueName,
		c.base.config.ConsumerTag,
		false, // auto-ack
		false, // exclusive consumer
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("distributing Consumer %s: failed to register a consumer on queue '%s': %w",
			c.base.config.ConsumerTag, c.base.actualQueueName, err)
	}

	c.base.Logger.Info("Waiting for messages on queue", "queue_name", c.base.actualQueueName)

	go c.dispatch(ctx, msgs)

	notifyClose := make(chan *amqp.Error, 1)
	c.base.connection.NotifyClose(notifyClose)

	select {
	case <-ctx.Done():
		c.base.Logger.Info("Context cancelled. Shutting down consumer.", "consumer_tag", c.base.config.ConsumerTag)
		return nil
	case amqpErr := <-notifyClose:
		if amqpErr == nil {
			return fmt.Errorf("distributing Consumer: connection closed")
		}
		c.base.Logger.Error(amqpErr, "Connection closed for consumer.", "consumer_tag", c.base.config.ConsumerTag)
		return amqpErr
	}
}

func (c *DistributingConsumer) dispatch(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		// сначала неблокирующая проверка отмены, чтобы не брать новые сообщения после остановки
		select {
		case <-ctx.Done():
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case d, ok := <-msgs:
			if !ok {
				c.base.Logger.Info("Deliveries channel closed by RabbitMQ", "consumer_tag", c.base.config.ConsumerTag)
				return
			}
			c.base.wg.Add(1)
			go c.handle(ctx, d)
		}
	}
}

func (c *DistributingConsumer) handle(ctx context.Context, d amqp.Delivery) {
	defer c.base.wg.Done()

	if err := c.handler(ctx, d); err != nil {
		c.base.Logger.Error(err, "Handler error for message",
			"consumer_tag", c.base.config.ConsumerTag,
			"delivery_tag", d.DeliveryTag,
			"requeue", c.requeueOnError && !d.Redelivered)
		// повторно ставим в очередь только один раз
		_ = d.Nack(false, c.requeueOnError && !d.Redelivered)
		return
	}

	_ = d.Ack(false)
	c.base.Logger.Debug("Message Ack'd",
		"consumer_tag", c.base.config.ConsumerTag,
		"delivery_tag", d.DeliveryTag)
}

// Close закрывает канал потребителя
func (c *DistributingConsumer) Close() error {
	c.base.Logger.Info("Closing consumer")
	return c.base.Close()
}
