package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Queue names shared between the publisher and the consumer.
const (
	createdQueue   = "booking.created"
	cancelledQueue = "booking.cancelled"
)

// Publisher sends booking lifecycle events to RabbitMQ.  Publishing is
// fire-and-forget from the handlers' point of view: every error is logged
// and swallowed so a broker outage never fails a booking that has already
// committed.  A Publisher with an empty URL discards everything.
type Publisher struct {
	url string
	log *zap.SugaredLogger
}

func NewPublisher(url string, log *zap.SugaredLogger) *Publisher {
	return &Publisher{url: url, log: log}
}

// BookingCreated publishes a BookingCreatedEvent.
func (p *Publisher) BookingCreated(ctx context.Context, ev BookingCreatedEvent) {
	p.publish(ctx, createdQueue, ev)
}

// BookingCancelled publishes a BookingCancelledEvent.
func (p *Publisher) BookingCancelled(ctx context.Context, ev BookingCancelledEvent) {
	p.publish(ctx, cancelledQueue, ev)
}

func (p *Publisher) publish(ctx context.Context, queueName string, ev any) {
	if p == nil || p.url == "" {
		return
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warnw("rabbitmq dial failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warnw("rabbitmq channel open failed", "error", err)
		return
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		p.log.Warnw("rabbitmq queue declare failed", "queue", queueName, "error", err)
		return
	}

	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Warnw("marshal event failed", "error", err)
		return
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		p.log.Warnw("rabbitmq publish failed", "queue", queueName, "error", err)
	}
}
