package queue

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// StartBookingConsumer connects to RabbitMQ, declares the booking event
// queues, and appends every delivery to logs/booking.log in a single-line
// format.  It runs a reconnect loop with capped backoff and never returns
// under normal operation; callers start it in its own goroutine.  An empty
// URL disables the consumer.
func StartBookingConsumer(url string, log *zap.SugaredLogger) {
	if url == "" {
		return
	}
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warnw("booking consumer dial failed", "error", err, "retry_in", backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, log); err != nil {
			log.Warnw("booking consumer loop ended", "error", err)
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, log *zap.SugaredLogger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warnw("set QoS failed", "error", err)
	}
	for _, q := range []string{createdQueue, cancelledQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", q, err)
		}
	}

	created, err := ch.Consume(createdQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", createdQueue, err)
	}
	cancelled, err := ch.Consume(cancelledQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", cancelledQueue, err)
	}

	for {
		var d amqp.Delivery
		var ok bool
		var kind string
		select {
		case d, ok = <-created:
			kind = createdQueue
		case d, ok = <-cancelled:
			kind = cancelledQueue
		}
		if !ok {
			return errors.New("deliveries channel closed")
		}
		if err := appendBookingLog(kind, d.Body); err != nil {
			log.Warnw("handle booking event failed", "error", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
}

func appendBookingLog(kind string, body []byte) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s %s\n", time.Now().UTC().Format(time.RFC3339), kind, body)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
