package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// StartCancellationConsumer connects to RabbitMQ, declares the durable
// event.cancelled queue, and consumes messages until the context is
// cancelled. Each message is appended to logs/cancellation.log as a
// single human-readable line, giving operators an on-disk audit trail
// of cancellation batches and their refund outcomes. The consumer runs
// a reconnect loop: broker failures are logged and retried rather than
// propagated, so the API keeps serving even when the broker is down.
func StartCancellationConsumer(ctx context.Context, url string, log zerolog.Logger) {
	go func() {
		for {
			if err := consumeOnce(ctx, url, log); err != nil {
				log.Warn().Err(err).Msg("cancellation consumer disconnected")
			}
			select {
			case <-ctx.Done():
				log.Info().Msg("cancellation consumer stopped")
				return
			case <-time.After(5 * time.Second):
			}
		}
	}()
}

// consumeOnce holds one broker session: dial, declare, consume until
// the channel closes or the context is cancelled.
func consumeOnce(ctx context.Context, url string, log zerolog.Logger) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(CancellationQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	deliveries, err := ch.Consume(CancellationQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	log.Info().Str("queue", CancellationQueue).Msg("cancellation consumer started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			if err := handleDelivery(d.Body); err != nil {
				log.Error().Err(err).Msg("process cancellation message")
				_ = d.Nack(false, false) // drop the poison message
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// handleDelivery appends one cancellation message to the audit log.
func handleDelivery(body []byte) error {
	var msg EventCancelledMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join("logs", "cancellation.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := fmt.Sprintf("%s event=%d %q reason=%q tickets=%d refunds_ok=%d refunds_failed=%d amount=%s\n",
		msg.CancelledAt, msg.EventID, msg.EventName, msg.Reason,
		msg.TotalTickets, msg.RefundsInitiated, msg.RefundsFailed, msg.TotalRefundAmount,
	)
	_, err = f.WriteString(line)
	return err
}
