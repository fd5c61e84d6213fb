package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler consumes one delivery from a bound queue. Implementations must
// tolerate redelivery: nil acks the message, an error nacks it with the
// router's requeue policy.
type Handler interface {
	Handle(ctx context.Context, d amqp.Delivery) error
}

// JSONFunc adapts a typed function into a Handler that decodes the delivery
// body as JSON before calling it.
func JSONFunc[T any](fn func(ctx context.Context, msg T) error) Handler {
	return jsonHandler[T]{fn: fn}
}

type jsonHandler[T any] struct {
	fn func(ctx context.Context, msg T) error
}

func (h jsonHandler[T]) Handle(ctx context.Context, d amqp.Delivery) error {
	var msg T
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		return fmt.Errorf("decode %s message: %w", d.RoutingKey, err)
	}
	return h.fn(ctx, msg)
}
