// Package notifications carries order status changes to the affected user.
// Dispatch is a hand-off to a queue; delivery happens out of band and is
// best effort. A delivery failure never fails or rolls back the order
// mutation that triggered it.
package notifications

import (
	"encoding/json"
	"log"

	"kedai/internal/models"
	"kedai/pkg/rabbitmq"
)

// Notifier is what the order workflow fires after a genuine status change.
type Notifier interface {
	OrderStatusChanged(order *models.Order)
}

// OrderStatusEvent is the message published to the status queue.
type OrderStatusEvent struct {
	OrderID    string `json:"order_id"`
	UserID     string `json:"user_id"`
	Status     string `json:"status"`
	TotalPrice uint   `json:"total_price"`
}

// AMQPNotifier publishes order status events to RabbitMQ. Publish errors
// are logged and swallowed; the mutation has already committed.
type AMQPNotifier struct {
	mq *rabbitmq.Client
}

// NewAMQPNotifier creates a new AMQPNotifier.
func NewAMQPNotifier(mq *rabbitmq.Client) *AMQPNotifier {
	return &AMQPNotifier{mq: mq}
}

// OrderStatusChanged publishes the event for the updated order.
func (n *AMQPNotifier) OrderStatusChanged(order *models.Order) {
	event := OrderStatusEvent{
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     string(order.Status),
		TotalPrice: order.TotalPrice,
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal status event for order %s: %v", order.ID, err)
		return
	}
	if err := n.mq.PublishStatusEvent(body); err != nil {
		log.Printf("Warning: failed to publish status event for order %s: %v", order.ID, err)
		return
	}
	log.Printf("Published status event for order %s (%s)", order.ID, order.Status)
}
