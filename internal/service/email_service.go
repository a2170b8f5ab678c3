package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/contact-service/internal/domain"
	"github.com/spec-kit/contact-service/internal/events"
	"github.com/spec-kit/contact-service/internal/mail"
	"github.com/spec-kit/contact-service/internal/repository"
	apperrors "github.com/spec-kit/contact-service/pkg/util"
)

// Bulk target filters.
const (
	FilterAll        = "todos"
	FilterRecent     = "recientes"
	FilterNoResponse = "sin_respuesta"
)

// BulkFilter selects targets by descriptor instead of explicit ids.
type BulkFilter struct {
	Tipo string
	Dias int
}

// BulkInput describes a bulk send request.
type BulkInput struct {
	ContactIDs []string
	Filter     *BulkFilter
	Subject    string
	Message    string
}

// SendDetail is the per-target outcome of a send.
type SendDetail struct {
	Contact string             `json:"contacto"`
	Email   string             `json:"email"`
	Status  domain.EmailStatus `json:"estado"`
	Error   string             `json:"error,omitempty"`
}

// BulkResult aggregates a bulk send. Successes+Failures always equals the
// number of resolved targets.
type BulkResult struct {
	Successes int          `json:"exitosos"`
	Failures  int          `json:"fallidos"`
	Details   []SendDetail `json:"detalles"`
}

// EmailService dispatches notification emails and records delivery history.
type EmailService struct {
	contacts   repository.ContactRepository
	history    repository.EmailHistoryRepository
	mailer     mail.Mailer
	dispatcher events.Dispatcher
	logger     *zap.Logger
	sendDelay  time.Duration
}

// NewEmailService builds the service. sendDelay throttles bulk sends.
func NewEmailService(contacts repository.ContactRepository, history repository.EmailHistoryRepository, mailer mail.Mailer, dispatcher events.Dispatcher, logger *zap.Logger, sendDelay time.Duration) *EmailService {
	return &EmailService{
		contacts:   contacts,
		history:    history,
		mailer:     mailer,
		dispatcher: dispatcher,
		logger:     logger,
		sendDelay:  sendDelay,
	}
}

// SendToContact dispatches one email to a stored contact. A history row is
// written regardless of the dispatch outcome.
func (s *EmailService) SendToContact(ctx context.Context, senderID, contactID, subject, message string) (*SendDetail, error) {
	contact, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Contacto no encontrado")
		}
		return nil, apperrors.NewDependencyError("Error interno del servidor", err)
	}

	detail := s.dispatch(ctx, senderID, contact, subject, message)
	if detail.Status == domain.EmailStatusFailed {
		return detail, apperrors.NewDependencyError("Error al enviar el correo", errors.New(detail.Error))
	}
	return detail, nil
}

// SendBulk resolves the target set and dispatches sequentially, in input
// order, pausing sendDelay between consecutive sends. One target failing
// never aborts the rest.
func (s *EmailService) SendBulk(ctx context.Context, senderID string, input BulkInput) (*BulkResult, error) {
	targets, err := s.resolveTargets(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, apperrors.NewNotFound("No se encontraron contactos para enviar")
	}

	result := &BulkResult{Details: make([]SendDetail, 0, len(targets))}
	for i := range targets {
		if i > 0 && s.sendDelay > 0 {
			time.Sleep(s.sendDelay)
		}

		detail := s.dispatch(ctx, senderID, &targets[i], input.Subject, input.Message)
		if detail.Status == domain.EmailStatusSent {
			result.Successes++
		} else {
			result.Failures++
		}
		result.Details = append(result.Details, *detail)
	}

	return result, nil
}

// SendDirect delivers a free-form email with no contact reference and no
// history row.
func (s *EmailService) SendDirect(ctx context.Context, to, subject, message string) error {
	if err := s.mailer.Send(ctx, mail.Message{To: to, Subject: subject, Body: message}); err != nil {
		return apperrors.NewDependencyError("Error al enviar el correo", err)
	}
	return nil
}

// History lists delivery history, optionally scoped to one contact.
func (s *EmailService) History(ctx context.Context, contactID string, limit int) ([]domain.EmailLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	entries, err := s.history.List(ctx, contactID, limit)
	if err != nil {
		return nil, apperrors.NewDependencyError("Error al obtener el historial", err)
	}
	return entries, nil
}

// dispatch sends one email and appends the history row. History write
// failures are logged but do not change the send outcome.
func (s *EmailService) dispatch(ctx context.Context, senderID string, contact *domain.Contact, subject, message string) *SendDetail {
	detail := &SendDetail{Contact: contact.FullName, Email: contact.Email}

	record := &domain.EmailRecord{
		ID:        uuid.NewString(),
		ContactID: contact.ID,
		Subject:   subject,
		Message:   message,
		SenderID:  senderID,
		SentAt:    time.Now().UTC(),
	}

	if err := s.mailer.Send(ctx, mail.Message{To: contact.Email, Subject: subject, Body: message}); err != nil {
		errText := err.Error()
		record.Status = domain.EmailStatusFailed
		record.Error = &errText
		detail.Status = domain.EmailStatusFailed
		detail.Error = errText
		s.logger.Warn("email dispatch failed", zap.String("contact_id", contact.ID), zap.Error(err))
	} else {
		record.Status = domain.EmailStatusSent
		detail.Status = domain.EmailStatusSent
	}

	if err := s.history.Create(ctx, record); err != nil {
		s.logger.Error("failed to record email history", zap.String("contact_id", contact.ID), zap.Error(err))
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventEmailSent,
			ContactID: contact.ID,
			Timestamp: record.SentAt,
			Payload: events.EmailSentPayload{
				Subject: subject,
				Status:  string(record.Status),
			},
		})
	}

	return detail
}

func (s *EmailService) resolveTargets(ctx context.Context, input BulkInput) ([]domain.Contact, error) {
	switch {
	case len(input.ContactIDs) > 0:
		targets, err := s.contacts.ListByIDs(ctx, input.ContactIDs)
		if err != nil {
			return nil, apperrors.NewDependencyError("Error interno del servidor", err)
		}
		// preserve the caller's ordering, the query returns its own
		return reorderByIDs(targets, input.ContactIDs), nil
	case input.Filter != nil:
		var (
			targets []domain.Contact
			err     error
		)
		switch input.Filter.Tipo {
		case FilterRecent:
			dias := input.Filter.Dias
			if dias <= 0 {
				dias = 7
			}
			since := time.Now().UTC().AddDate(0, 0, -dias)
			targets, err = s.contacts.ListRegisteredSince(ctx, since)
		case FilterNoResponse:
			targets, err = s.contacts.ListWithoutEmailHistory(ctx)
		case FilterAll, "":
			targets, err = s.contacts.List(ctx)
		default:
			targets, err = s.contacts.List(ctx)
		}
		if err != nil {
			return nil, apperrors.NewDependencyError("Error interno del servidor", err)
		}
		return targets, nil
	default:
		return nil, apperrors.NewBadRequest("Debe especificar contactosIds o filtros")
	}
}

func reorderByIDs(contacts []domain.Contact, ids []string) []domain.Contact {
	byID := make(map[string]domain.Contact, len(contacts))
	for _, c := range contacts {
		byID[c.ID] = c
	}
	ordered := make([]domain.Contact, 0, len(contacts))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered
}
