package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"allgecare/internal/domain/entity"
	"allgecare/pkg/logger"
)

// IngestHandler reacts to new readings landing upstream.
type IngestHandler interface {
	HandleIngested(ctx context.Context, msg *entity.MeasurementsIngestedMessage) error
}

type IngestConsumer struct {
	channel  *amqp.Channel
	queue    string
	handler  IngestHandler
	prefetch int
}

// topology is the part of *amqp.Channel used to declare the ingest queue.
type topology interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	Close() error
}

func NewIngestConsumer(conn *amqp.Connection, exchange, routingKey, queue string, h IngestHandler) (*IngestConsumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	consumer := &IngestConsumer{
		channel:  ch,
		queue:    queue,
		handler:  h,
		prefetch: 1,
	}
	if err := declareIngest(ch, exchange, routingKey, queue, consumer.prefetch); err != nil {
		return nil, err
	}
	return consumer, nil
}

// declareIngest closes ch when any step fails.
func declareIngest(ch topology, exchange, routingKey, queue string, prefetch int) error {
	err := ch.ExchangeDeclare(exchange, ExchangeType, true, false, false, false, nil)
	if err == nil {
		_, err = ch.QueueDeclare(queue, true, false, false, false, nil)
	}
	if err == nil {
		err = ch.QueueBind(queue, routingKey, exchange, false, nil)
	}
	if err == nil {
		err = ch.Qos(prefetch, 0, false)
	}
	if err != nil {
		ch.Close()
		return fmt.Errorf("declare %s on %s: %w", queue, exchange, err)
	}
	return nil
}

// Start consumes until ctx is done or the channel closes. Deliveries are
// handled one at a time; the handler already coalesces bursts.
func (c *IngestConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			logger.Infof("ingest consumer shutting down")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				logger.Warnf("rabbitmq channel closed")
				return nil
			}
			c.handle(ctx, msg)
		}
	}
}

func (c *IngestConsumer) handle(ctx context.Context, msg amqp.Delivery) {
	var event entity.MeasurementsIngestedMessage
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		logger.Errorf("failed to unmarshal ingest event: %v", err)
		msg.Nack(false, false)
		return
	}

	if err := c.handler.HandleIngested(ctx, &event); err != nil {
		logger.Errorf("failed to handle ingest event %s: %v", event.EventID, err)
		msg.Nack(false, !msg.Redelivered)
		return
	}
	msg.Ack(false)
}

func (c *IngestConsumer) Close() error {
	return c.channel.Close()
}
