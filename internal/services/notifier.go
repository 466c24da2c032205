package services

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/messaging"
	"github.com/rs/zerolog/log"

	"health-insurance-web/internal/gate"
	"health-insurance-web/internal/models"
)

// Messenger is the part of the FCM client the notifier needs.
type Messenger interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// AdminNotifier pushes a topic notification to admins when a health provider
// or HMO profile is created and needs review.
type AdminNotifier struct {
	client  Messenger
	topic   string
	timeout time.Duration
}

func NewAdminNotifier(client Messenger, topic string) *AdminNotifier {
	return &AdminNotifier{client: client, topic: topic, timeout: 10 * time.Second}
}

// SendNotification sends one message to the admin topic.
func (n *AdminNotifier) SendNotification(ctx context.Context, title, body string, data map[string]string) error {
	if n.client == nil {
		return nil
	}

	message := &messaging.Message{
		Topic: n.topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	id, err := n.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("send to topic %s: %w", n.topic, err)
	}

	log.Debug().Str("topic", n.topic).Str("message_id", id).Msg("admin notification sent")
	return nil
}

// Handle is a session subscriber.
func (n *AdminNotifier) Handle(ev gate.Event) {
	if ev.Kind != models.EventProfileCreated {
		return
	}
	if ev.Role != models.RoleHP && ev.Role != models.RoleHMO {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	kind := "health provider"
	if ev.Role == models.RoleHMO {
		kind = "HMO"
	}
	err := n.SendNotification(ctx,
		"New "+kind+" awaiting approval",
		ev.Email+" registered and is waiting for review.",
		map[string]string{"role": ev.Role, "uid": ev.UID},
	)
	if err != nil {
		log.Warn().Err(err).Str("uid", ev.UID).Msg("admin notification failed")
	}
}
