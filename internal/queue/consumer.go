package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"tourify/internal/interfaces"
	"tourify/internal/models"
)

// ErrMalformedActivity marks retry messages that can never be inserted.
var ErrMalformedActivity = errors.New("malformed activity message")

// ReplayActivity consumes the retry queue and inserts each entry. It
// reconnects with exponential backoff (capped at 30s) and returns only when
// ctx is done. A failed insert ends the consume loop, so a database outage
// is retried at the same pace as a broker outage.
func ReplayActivity(ctx context.Context, url string, repo interfaces.ActivityRepository) error {
	backoff := time.Second
	wait := func() bool {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
		return true
	}
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("[replay] failed to dial broker: %v; retrying in %s", err, backoff)
			if !wait() {
				return ctx.Err()
			}
			continue
		}

		settled, err := consumeLoop(ctx, conn, repo)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if settled > 0 {
			backoff = time.Second
		}
		log.Printf("[replay] consume loop ended after %d messages: %v; reconnecting in %s", settled, err, backoff)
		if !wait() {
			return ctx.Err()
		}
	}
}

// consumeLoop returns the number of messages it settled without error.
func consumeLoop(ctx context.Context, conn *amqp.Connection, repo interfaces.ActivityRepository) (int, error) {
	ch, err := conn.Channel()
	if err != nil {
		return 0, fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("[replay] set QoS failed: %v", err)
	}
	if err := declareRetryQueue(ch); err != nil {
		return 0, fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(ActivityRetryQueue, "", false, false, false, false, nil)
	if err != nil {
		return 0, fmt.Errorf("queue consume: %w", err)
	}

	settled := 0
	for {
		select {
		case <-ctx.Done():
			return settled, ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return settled, errors.New("deliveries channel closed")
			}
			if err := settleDelivery(ctx, repo, d); err != nil {
				return settled, err
			}
			settled++
		}
	}
}

// settleDelivery acks an inserted entry and drops a malformed one. Any other
// failure requeues the message and is returned to stop consuming.
func settleDelivery(ctx context.Context, repo interfaces.ActivityRepository, d amqp.Delivery) error {
	err := HandleActivityMessage(ctx, repo, d.Body)
	switch {
	case err == nil:
		_ = d.Ack(false)
		return nil
	case errors.Is(err, ErrMalformedActivity):
		log.Printf("[replay] dropping message %s: %v", d.MessageId, err)
		_ = d.Nack(false, false)
		return nil
	default:
		_ = d.Nack(false, true)
		return fmt.Errorf("message %s requeued: %w", d.MessageId, err)
	}
}

// HandleActivityMessage decodes one retry message and inserts it. Inserts
// are idempotent on the entry id.
func HandleActivityMessage(ctx context.Context, repo interfaces.ActivityRepository, body []byte) error {
	var entry models.ActivityEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedActivity, err)
	}
	if entry.ID == "" {
		return fmt.Errorf("%w: entry without id", ErrMalformedActivity)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := repo.Insert(ctx, &entry); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}
