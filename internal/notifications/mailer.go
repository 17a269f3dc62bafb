package notifications

import (
	"fmt"

	"kedai/internal/models"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends order status emails over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer creates a new Mailer.
func NewMailer(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendOrderStatusChanged emails the order's owner about the new status.
func (m *Mailer) SendOrderStatusChanged(user *models.User, event OrderStatusEvent) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", user.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Your order is now %s", event.Status))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nThe status of your order %s changed to %s.\n\nThanks for ordering with us.",
		user.Username, event.OrderID, event.Status,
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send status email to %s: %w", user.Email, err)
	}
	return nil
}
