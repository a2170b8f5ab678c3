package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/contact-service/internal/domain"
)

// ContactRepository defines persistence access for contact submissions.
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	List(ctx context.Context) ([]domain.Contact, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Contact, error)
	ListRegisteredSince(ctx context.Context, since time.Time) ([]domain.Contact, error)
	ListWithoutEmailHistory(ctx context.Context) ([]domain.Contact, error)
	Stats(ctx context.Context) (*domain.ContactStats, error)
}

type contactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository returns a Postgres-backed implementation.
func NewContactRepository(pool *pgxpool.Pool) ContactRepository {
	return &contactRepository{pool: pool}
}

const contactColumns = `id, full_name, email, phone, message, registered_at`

func (r *contactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	const query = `
        INSERT INTO contacts (id, full_name, email, phone, message, registered_at)
        VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		contact.ID,
		contact.FullName,
		contact.Email,
		contact.Phone,
		contact.Message,
		contact.RegisteredAt,
	)
	return err
}

func (r *contactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	const query = `SELECT ` + contactColumns + ` FROM contacts WHERE id=$1`

	var contact domain.Contact
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&contact.ID,
		&contact.FullName,
		&contact.Email,
		&contact.Phone,
		&contact.Message,
		&contact.RegisteredAt,
	); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) List(ctx context.Context) ([]domain.Contact, error) {
	const query = `SELECT ` + contactColumns + ` FROM contacts ORDER BY registered_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanContacts(rows)
}

func (r *contactRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Contact, error) {
	const query = `SELECT ` + contactColumns + ` FROM contacts WHERE id = ANY($1) ORDER BY registered_at DESC`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	return scanContacts(rows)
}

func (r *contactRepository) ListRegisteredSince(ctx context.Context, since time.Time) ([]domain.Contact, error) {
	const query = `SELECT ` + contactColumns + ` FROM contacts WHERE registered_at >= $1 ORDER BY registered_at DESC`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	return scanContacts(rows)
}

func (r *contactRepository) ListWithoutEmailHistory(ctx context.Context) ([]domain.Contact, error) {
	const query = `
        SELECT c.id, c.full_name, c.email, c.phone, c.message, c.registered_at
        FROM contacts c
        LEFT JOIN email_history h ON c.id = h.contact_id
        WHERE h.contact_id IS NULL
        ORDER BY c.registered_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanContacts(rows)
}

// Stats runs four independent scalar counts: total, today, trailing week,
// trailing month.
func (r *contactRepository) Stats(ctx context.Context) (*domain.ContactStats, error) {
	queries := []struct {
		sql  string
		dest *int64
	}{
		{`SELECT COUNT(*) FROM contacts`, nil},
		{`SELECT COUNT(*) FROM contacts WHERE registered_at::date = NOW()::date`, nil},
		{`SELECT COUNT(*) FROM contacts WHERE registered_at >= NOW() - INTERVAL '7 days'`, nil},
		{`SELECT COUNT(*) FROM contacts WHERE registered_at >= NOW() - INTERVAL '1 month'`, nil},
	}

	var stats domain.ContactStats
	queries[0].dest = &stats.Total
	queries[1].dest = &stats.Today
	queries[2].dest = &stats.Week
	queries[3].dest = &stats.Month

	for _, q := range queries {
		if err := r.pool.QueryRow(ctx, q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}
	return &stats, nil
}

func scanContacts(rows pgx.Rows) ([]domain.Contact, error) {
	defer rows.Close()

	contacts := make([]domain.Contact, 0)
	for rows.Next() {
		var contact domain.Contact
		if err := rows.Scan(
			&contact.ID,
			&contact.FullName,
			&contact.Email,
			&contact.Phone,
			&contact.Message,
			&contact.RegisteredAt,
		); err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}
