package notifications

import (
	"encoding/json"
	"log"

	"kedai/internal/models"
	"kedai/internal/repositories"

	amqp "github.com/streadway/amqp"
)

// StatusMailer delivers a status change to a user through an external
// channel. Satisfied by Mailer.
type StatusMailer interface {
	SendOrderStatusChanged(user *models.User, event OrderStatusEvent) error
}

// NewStatusEventHandler returns the queue consumer handler: decode the
// event, load the owning user and send the notification. Every failure is
// logged and the message is still acked; delivery is fire and forget, a
// broken event must not loop through the queue forever.
func NewStatusEventHandler(users repositories.UserRepository, mailer StatusMailer) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var event OrderStatusEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			log.Printf("Dropping malformed status event (tag %d): %v", msg.DeliveryTag, err)
			return nil
		}

		user, err := users.GetByID(event.UserID)
		if err != nil {
			log.Printf("Cannot notify for order %s, user lookup failed: %v", event.OrderID, err)
			return nil
		}

		if err := mailer.SendOrderStatusChanged(user, event); err != nil {
			log.Printf("Failed to deliver status notification for order %s: %v", event.OrderID, err)
			return nil
		}

		log.Printf("Notified %s about order %s (%s)", user.Username, event.OrderID, event.Status)
		return nil
	}
}
