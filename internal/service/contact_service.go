package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/contact-service/internal/captcha"
	"github.com/spec-kit/contact-service/internal/domain"
	"github.com/spec-kit/contact-service/internal/events"
	"github.com/spec-kit/contact-service/internal/repository"
	apperrors "github.com/spec-kit/contact-service/pkg/util"
)

// StatsCache caches dashboard aggregates. A miss or a broken cache always
// falls through to the database.
type StatsCache interface {
	GetStats(ctx context.Context) (*domain.ContactStats, bool)
	SetStats(ctx context.Context, stats *domain.ContactStats)
}

// ContactInput is a validated intake payload. Fields arrive already
// schema-checked; the service still normalizes whitespace and case.
type ContactInput struct {
	FullName     string
	Email        string
	Phone        string
	Message      string
	CaptchaToken string
}

// ContactService coordinates intake and reporting.
type ContactService struct {
	contacts   repository.ContactRepository
	verifier   captcha.Verifier
	cache      StatsCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewContactService builds the service. verifier and cache may be nil.
func NewContactService(contacts repository.ContactRepository, verifier captcha.Verifier, cache StatsCache, dispatcher events.Dispatcher, logger *zap.Logger) *ContactService {
	return &ContactService{
		contacts:   contacts,
		verifier:   verifier,
		cache:      cache,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Create verifies the captcha token when configured and persists the
// submission: trimmed fields, lower-cased email, server-assigned timestamp.
// Exactly one insert; nothing is written when verification fails.
func (s *ContactService) Create(ctx context.Context, input ContactInput) (*domain.Contact, error) {
	if s.verifier != nil && s.verifier.Enabled() {
		if err := s.verifier.Verify(ctx, input.CaptchaToken); err != nil {
			var failed captcha.ErrVerificationFailed
			if errors.As(err, &failed) {
				return nil, apperrors.NewForbidden("Fallo la validación de reCAPTCHA")
			}
			s.logger.Error("captcha verification unavailable", zap.Error(err))
			return nil, apperrors.NewForbidden("Fallo la validación de reCAPTCHA")
		}
	}

	contact := &domain.Contact{
		ID:           uuid.NewString(),
		FullName:     strings.TrimSpace(input.FullName),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:        strings.TrimSpace(input.Phone),
		Message:      strings.TrimSpace(input.Message),
		RegisteredAt: time.Now().UTC(),
	}

	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, apperrors.NewDependencyError("Error interno del servidor", err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventContactCreated,
			ContactID: contact.ID,
			Timestamp: contact.RegisteredAt,
			Payload: events.ContactCreatedPayload{
				FullName: contact.FullName,
				Email:    contact.Email,
			},
		})
	}

	return contact, nil
}

// List returns every submission, newest first.
func (s *ContactService) List(ctx context.Context) ([]domain.Contact, error) {
	contacts, err := s.contacts.List(ctx)
	if err != nil {
		return nil, apperrors.NewDependencyError("Error interno del servidor", err)
	}
	return contacts, nil
}

// Stats returns aggregate counts, served from cache when fresh.
func (s *ContactService) Stats(ctx context.Context) (*domain.ContactStats, error) {
	if s.cache != nil {
		if stats, ok := s.cache.GetStats(ctx); ok {
			return stats, nil
		}
	}

	stats, err := s.contacts.Stats(ctx)
	if err != nil {
		return nil, apperrors.NewDependencyError("Error interno del servidor", err)
	}

	if s.cache != nil {
		s.cache.SetStats(ctx, stats)
	}
	return stats, nil
}
