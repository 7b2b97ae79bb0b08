// Package queue moves activity entries that could not be written directly
// through RabbitMQ so they can be replayed later.
package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"tourify/internal/models"
)

// ActivityRetryQueue holds entries whose insert failed.
const ActivityRetryQueue = "tourify.activity.retry"

// Publisher dials per publish. Retries are rare, so no connection is held
// open between them.
type Publisher struct {
	url string
}

func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

func declareRetryQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		ActivityRetryQueue, // name
		true,               // durable
		false,              // autoDelete
		false,              // exclusive
		false,              // noWait
		nil,                // args
	)
	return err
}

// PublishActivity publishes entry as a persistent JSON message. Errors are
// logged and returned.
func (p *Publisher) PublishActivity(ctx context.Context, entry models.ActivityEntry) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("[rabbitmq] dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("[rabbitmq] channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := declareRetryQueue(ch); err != nil {
		log.Printf("[rabbitmq] queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    entry.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", ActivityRetryQueue, false, false, pub); err != nil {
		log.Printf("[rabbitmq] publish failed: %v", err)
		return err
	}
	return nil
}
