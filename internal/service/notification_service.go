package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/contact-service/internal/events"
	"github.com/spec-kit/contact-service/internal/mail"
)

// NotificationService reacts to domain events: it logs them and, when an
// admin address is configured, announces new submissions by email.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     mail.Mailer
	logger     *zap.Logger
	adminEmail string
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer mail.Mailer, logger *zap.Logger, adminEmail string) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
		adminEmail: adminEmail,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventContactCreated, n.handleContactCreated)
	n.dispatcher.Subscribe(events.EventEmailSent, n.handleEmailSent)
}

func (n *NotificationService) handleContactCreated(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.ContactCreatedPayload)
	n.logger.Info("contact created",
		zap.String("contact_id", event.ContactID),
		zap.String("email", payload.Email),
	)

	if n.adminEmail == "" || n.mailer == nil {
		return nil
	}

	// The alert must not slow down the intake response.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		msg := mail.Message{
			To:      n.adminEmail,
			Subject: fmt.Sprintf("Nuevo contacto: %s", payload.FullName),
			Body:    fmt.Sprintf("Se registró un nuevo contacto: %s <%s>", payload.FullName, payload.Email),
		}
		if err := n.mailer.Send(ctx, msg); err != nil {
			n.logger.Warn("admin alert failed", zap.String("contact_id", event.ContactID), zap.Error(err))
		}
	}()
	return nil
}

func (n *NotificationService) handleEmailSent(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.EmailSentPayload)
	n.logger.Debug("email dispatched",
		zap.String("contact_id", event.ContactID),
		zap.String("status", payload.Status),
	)
	return nil
}
