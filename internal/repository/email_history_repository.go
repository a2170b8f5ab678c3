package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/contact-service/internal/domain"
)

// EmailHistoryRepository records delivery attempts. Append-only.
type EmailHistoryRepository interface {
	Create(ctx context.Context, record *domain.EmailRecord) error
	List(ctx context.Context, contactID string, limit int) ([]domain.EmailLogEntry, error)
}

type emailHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewEmailHistoryRepository returns a Postgres-backed implementation.
func NewEmailHistoryRepository(pool *pgxpool.Pool) EmailHistoryRepository {
	return &emailHistoryRepository{pool: pool}
}

func (r *emailHistoryRepository) Create(ctx context.Context, record *domain.EmailRecord) error {
	const query = `
        INSERT INTO email_history (id, contact_id, subject, message, sender_id, sent_at, status, error)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.ContactID,
		record.Subject,
		record.Message,
		record.SenderID,
		record.SentAt,
		record.Status,
		record.Error,
	)
	return err
}

func (r *emailHistoryRepository) List(ctx context.Context, contactID string, limit int) ([]domain.EmailLogEntry, error) {
	query := `
        SELECT h.id, h.contact_id, h.subject, h.message, h.sender_id, h.sent_at, h.status, h.error,
               c.full_name, c.email, u.display_name
        FROM email_history h
        JOIN contacts c ON h.contact_id = c.id
        JOIN users u ON h.sender_id = u.id`

	args := make([]any, 0, 2)
	if contactID != "" {
		query += ` WHERE h.contact_id = $1`
		args = append(args, contactID)
	}
	query += ` ORDER BY h.sent_at DESC`
	if limit > 0 {
		if contactID != "" {
			query += ` LIMIT $2`
		} else {
			query += ` LIMIT $1`
		}
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.EmailLogEntry, 0)
	for rows.Next() {
		var entry domain.EmailLogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.ContactID,
			&entry.Subject,
			&entry.Message,
			&entry.SenderID,
			&entry.SentAt,
			&entry.Status,
			&entry.Error,
			&entry.ContactName,
			&entry.ContactEmail,
			&entry.SenderName,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
