// Package service holds outbound integrations used from request handlers.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/metawall/metawall/internal/queue"
)

// FollowPublisher publishes follow.sync events to RabbitMQ. The broker URL
// is injected at construction; nothing reads the environment here. Errors
// are logged and returned so callers can treat publishing as best effort.
type FollowPublisher struct {
	URL string
}

func NewFollowPublisher(url string) *FollowPublisher {
	return &FollowPublisher{URL: url}
}

// PublishFollowChanged sends one event to the durable follow.sync queue.
// Messages are persistent so a broker restart does not lose pending repairs.
func (p *FollowPublisher) PublishFollowChanged(ctx context.Context, ev q.FollowChangedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare("follow.sync", true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", "follow.sync", false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
