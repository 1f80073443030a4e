package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const followQueueName = "follow.sync"

// FollowRepairer is the slice of the user store the consumer needs. Both
// methods touch both sides of the relation and are idempotent, which is what
// makes re-applying an event a safe repair.
type FollowRepairer interface {
	AddFollow(ctx context.Context, followerID, followeeID string) error
	RemoveFollow(ctx context.Context, followerID, followeeID string) error
}

// StartFollowConsumer connects to RabbitMQ, declares the durable follow.sync
// queue and consumes reconciliation events. It runs a reconnect loop with
// capped backoff and never returns under normal operation; processing errors
// are logged and the message is rejected without requeue so a poison message
// cannot wedge the queue.
func StartFollowConsumer(url string, users FollowRepairer) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("follow-consumer: dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after a successful connect

		if err := consumeLoop(conn, users); err != nil {
			log.Printf("follow-consumer: consume loop ended: %v; reconnecting", err)
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, users FollowRepairer) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("follow-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(followQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(followQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := HandleFollowEvent(context.Background(), users, d.Body); err != nil {
			log.Printf("follow-consumer: handle event failed: %v", err)
			_ = d.Nack(false, false) // reject without requeue
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// HandleFollowEvent decodes one event and re-applies the relation writes on
// both user documents. A self-relation or malformed id is a permanent
// failure; the caller drops the message.
func HandleFollowEvent(ctx context.Context, users FollowRepairer, body []byte) error {
	var ev FollowChangedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch ev.Action {
	case FollowActionFollow:
		return users.AddFollow(ctx, ev.FollowerID, ev.FolloweeID)
	case FollowActionUnfollow:
		return users.RemoveFollow(ctx, ev.FollowerID, ev.FolloweeID)
	default:
		return fmt.Errorf("unknown follow action %q", ev.Action)
	}
}
