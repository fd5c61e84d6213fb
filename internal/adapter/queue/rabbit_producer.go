package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ltp2209/stockpos-api/internal/usecase"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMovementPublisher implements usecase.MovementPublisher on a durable
// topic exchange. Ledger rows in MySQL stay authoritative; these messages
// exist for downstream consumers (alerting, analytics).
type RabbitMovementPublisher struct {
	ch         *amqp.Channel
	exchange   string
	routingKey string
}

// NewRabbitMovementPublisher sets up the exchange, queue, and binding once
// at startup.
func NewRabbitMovementPublisher(ch *amqp.Channel, exchange, routingKey, queueName string) (*RabbitMovementPublisher, error) {
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, routingKey, exchange, false, nil); err != nil {
		return nil, fmt.Errorf("queue bind: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}

	return &RabbitMovementPublisher{ch: ch, exchange: exchange, routingKey: routingKey}, nil
}

// PublishMovements sends one message per committed ledger entry.
func (p *RabbitMovementPublisher) PublishMovements(ctx context.Context, orderID int64, reason string, movements []usecase.StockMovement) error {
	now := time.Now().UTC()
	for _, mv := range movements {
		msg := usecase.StockMovementMsg{
			EventID:   uuid.NewString(),
			OrderID:   orderID,
			ItemID:    mv.ItemID,
			SKU:       mv.SKU,
			Delta:     mv.Delta,
			Remaining: mv.Remaining,
			Reason:    reason,
			At:        now,
		}
		body, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal movement: %w", err)
		}

		pub := amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent, // survive broker restarts
			MessageId:    msg.EventID,
			Body:         body,
		}
		if err := p.ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, pub); err != nil {
			return fmt.Errorf("publish movement (item %d): %w", mv.ItemID, err)
		}
	}
	return nil
}

var _ usecase.MovementPublisher = (*RabbitMovementPublisher)(nil)
