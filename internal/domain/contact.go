package domain

import "time"

// Contact is a submission from the public contact form. Immutable once
// stored.
type Contact struct {
	ID           string
	FullName     string
	Email        string
	Phone        string
	Message      string
	RegisteredAt time.Time
}

// ContactStats aggregates submission counts for the dashboard.
type ContactStats struct {
	Total int64 `json:"total"`
	Today int64 `json:"hoy"`
	Week  int64 `json:"semana"`
	Month int64 `json:"mes"`
}
