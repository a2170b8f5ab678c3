package dto

import (
	"time"

	"github.com/spec-kit/contact-service/internal/domain"
)

// SendDirectRequest is the free-form dashboard send payload.
type SendDirectRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SendToContactRequest targets one stored contact.
type SendToContactRequest struct {
	ContactID string `json:"contactoId"`
	Subject   string `json:"asunto"`
	Message   string `json:"mensaje"`
}

// BulkFilterRequest selects targets by descriptor.
type BulkFilterRequest struct {
	Tipo string `json:"tipo"`
	Dias int    `json:"dias"`
}

// BulkSendRequest targets explicit ids or a filter descriptor.
type BulkSendRequest struct {
	ContactIDs []string           `json:"contactosIds"`
	Filters    *BulkFilterRequest `json:"filtros"`
	Subject    string             `json:"asunto"`
	Message    string             `json:"mensaje"`
}

// EmailLogResponse is a history row as exposed to the dashboard.
type EmailLogResponse struct {
	ID           string             `json:"id"`
	ContactID    string             `json:"contactoId"`
	ContactName  string             `json:"contacto"`
	ContactEmail string             `json:"correo"`
	Subject      string             `json:"asunto"`
	Message      string             `json:"mensaje"`
	SenderName   string             `json:"usuario"`
	SentAt       time.Time          `json:"fecha_envio"`
	Status       domain.EmailStatus `json:"estado"`
	Error        *string            `json:"error,omitempty"`
}

// NewEmailLogResponse maps history entries.
func NewEmailLogResponse(entries []domain.EmailLogEntry) []EmailLogResponse {
	resp := make([]EmailLogResponse, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		resp = append(resp, EmailLogResponse{
			ID:           e.ID,
			ContactID:    e.ContactID,
			ContactName:  e.ContactName,
			ContactEmail: e.ContactEmail,
			Subject:      e.Subject,
			Message:      e.Message,
			SenderName:   e.SenderName,
			SentAt:       e.SentAt,
			Status:       e.Status,
			Error:        e.Error,
		})
	}
	return resp
}
