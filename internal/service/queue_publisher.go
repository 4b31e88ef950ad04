// Package queue_publisher publishes camp events to RabbitMQ.  Errors are
// logged and returned so callers can ignore failures without interrupting
// the request that triggered the event.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/reliefmap/relief-camps/internal/queue"
)

// Publisher sends CampCreatedEvent messages to a durable queue.  A fresh
// connection is dialled per message; camp creation is rare enough that a
// long-lived channel is not worth the reconnect bookkeeping.
type Publisher struct {
	URL   string
	Queue string
}

// New returns a Publisher for the given broker URL and queue.
func New(url, queue string) *Publisher {
	return &Publisher{URL: url, Queue: queue}
}

// PublishCampCreated publishes ev to the configured queue.  It never panics;
// any error is logged and returned.  Messages are marked as persistent.
func (p *Publisher) PublishCampCreated(ctx context.Context, ev q.CampCreatedEvent) error {
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

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		p.Queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
