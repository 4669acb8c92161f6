package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

const ordersExchange = "laundryin.orders"

// AMQPFeed is a Feed backed by a RabbitMQ topic exchange. Events are routed
// by shop id, so each dashboard session binds a private queue to exactly one
// routing key and never sees other shops' traffic.
type AMQPFeed struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPFeed dials the broker and declares the orders exchange
func NewAMQPFeed(url string) (*AMQPFeed, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		ordersExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPFeed{conn: conn, ch: ch}, nil
}

// Publish sends an order event routed by its shop id
func (f *AMQPFeed) Publish(ctx context.Context, event OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return f.ch.PublishWithContext(ctx,
		ordersExchange,
		event.ShopID, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Subscribe binds a private auto-delete queue to the shop's routing key and
// forwards deliveries until the context ends or cancel is called.
func (f *AMQPFeed) Subscribe(ctx context.Context, shopID string) (<-chan OrderEvent, func(), error) {
	// Each session gets its own channel so consumer teardown does not
	// disturb the publisher channel.
	ch, err := f.conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	queue, err := ch.QueueDeclare(
		"",    // server-generated name
		false, // durable
		true,  // auto-delete
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(queue.Name, shopID, ordersExchange, false, nil); err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	deliveries, err := ch.Consume(
		queue.Name,
		"",    // consumer tag
		true,  // auto-ack: events are refresh triggers, losing one is fine
		true,  // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("failed to consume: %w", err)
	}

	events := make(chan OrderEvent, 16)
	done := make(chan struct{})

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				var event OrderEvent
				if err := json.Unmarshal(d.Body, &event); err != nil {
					log.Printf("changefeed: dropping malformed event: %v", err)
					continue
				}
				select {
				case events <- event:
				default:
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = ch.Close()
		})
	}

	return events, cancel, nil
}

// Close tears down the broker connection
func (f *AMQPFeed) Close() error {
	if err := f.ch.Close(); err != nil {
		return err
	}
	return f.conn.Close()
}
