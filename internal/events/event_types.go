package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventContactCreated EventType = "contact_created"
	EventEmailSent      EventType = "email_sent"
)

// Event represents a domain event emitted by services.
type Event struct {
	Type      EventType   `json:"type"`
	ContactID string      `json:"contact_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ContactCreatedPayload carries the fields the notification hook needs.
type ContactCreatedPayload struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// EmailSentPayload summarizes a dispatch attempt.
type EmailSentPayload struct {
	Subject string `json:"subject"`
	Status  string `json:"status"`
}
