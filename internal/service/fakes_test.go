package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/contact-service/internal/domain"
	"github.com/spec-kit/contact-service/internal/mail"
)

type fakeContactRepo struct {
	mu        sync.Mutex
	contacts  []domain.Contact
	replied   map[string]bool
	createErr error
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{replied: make(map[string]bool)}
}

func (r *fakeContactRepo) Create(_ context.Context, contact *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.contacts = append(r.contacts, *contact)
	return nil
}

func (r *fakeContactRepo) GetByID(_ context.Context, id string) (*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.contacts {
		if r.contacts[i].ID == id {
			c := r.contacts[i]
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeContactRepo) List(_ context.Context) ([]domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedCopy(r.contacts), nil
}

func (r *fakeContactRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := make([]domain.Contact, 0, len(ids))
	for _, c := range r.contacts {
		if wanted[c.ID] {
			out = append(out, c)
		}
	}
	return r.sortedCopy(out), nil
}

func (r *fakeContactRepo) ListRegisteredSince(_ context.Context, since time.Time) ([]domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Contact, 0)
	for _, c := range r.contacts {
		if !c.RegisteredAt.Before(since) {
			out = append(out, c)
		}
	}
	return r.sortedCopy(out), nil
}

func (r *fakeContactRepo) ListWithoutEmailHistory(_ context.Context) ([]domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Contact, 0)
	for _, c := range r.contacts {
		if !r.replied[c.ID] {
			out = append(out, c)
		}
	}
	return r.sortedCopy(out), nil
}

func (r *fakeContactRepo) Stats(_ context.Context) (*domain.ContactStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	var stats domain.ContactStats
	for _, c := range r.contacts {
		stats.Total++
		if c.RegisteredAt.Format("2006-01-02") == now.Format("2006-01-02") {
			stats.Today++
		}
		if !c.RegisteredAt.Before(now.AddDate(0, 0, -7)) {
			stats.Week++
		}
		if !c.RegisteredAt.Before(now.AddDate(0, -1, 0)) {
			stats.Month++
		}
	}
	return &stats, nil
}

func (r *fakeContactRepo) sortedCopy(in []domain.Contact) []domain.Contact {
	out := append([]domain.Contact(nil), in...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].RegisteredAt.After(out[j].RegisteredAt)
	})
	return out
}

type fakeHistoryRepo struct {
	mu        sync.Mutex
	records   []domain.EmailRecord
	createErr error
}

func (r *fakeHistoryRepo) Create(_ context.Context, record *domain.EmailRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeHistoryRepo) List(_ context.Context, contactID string, limit int) ([]domain.EmailLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]domain.EmailLogEntry, 0)
	for _, rec := range r.records {
		if contactID != "" && rec.ContactID != contactID {
			continue
		}
		entries = append(entries, domain.EmailLogEntry{EmailRecord: rec})
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	return entries, nil
}

type fakeMailer struct {
	mu      sync.Mutex
	sentTo  []string
	sentAt  []time.Time
	failFor map[string]error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failFor: make(map[string]error)}
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sentAt = append(m.sentAt, time.Now())
	if err, ok := m.failFor[msg.To]; ok {
		return err
	}
	m.sentTo = append(m.sentTo, msg.To)
	return nil
}

type fakeVerifier struct {
	enabled bool
	err     error
	calls   int
}

func (v *fakeVerifier) Enabled() bool { return v.enabled }

func (v *fakeVerifier) Verify(_ context.Context, _ string) error {
	v.calls++
	return v.err
}

type fakeStatsCache struct {
	stats *domain.ContactStats
	gets  int
	sets  int
}

func (c *fakeStatsCache) GetStats(_ context.Context) (*domain.ContactStats, bool) {
	c.gets++
	if c.stats == nil {
		return nil, false
	}
	return c.stats, true
}

func (c *fakeStatsCache) SetStats(_ context.Context, stats *domain.ContactStats) {
	c.sets++
	c.stats = stats
}

type fakeUserRepo struct {
	mu         sync.Mutex
	users      map[string]domain.User
	accessed   []string
	lastAccErr error
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	byName := make(map[string]domain.User, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}
	return &fakeUserRepo{users: byName}
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[username]; ok {
		return &u, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) UpdateLastAccess(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastAccErr != nil {
		return r.lastAccErr
	}
	r.accessed = append(r.accessed, id)
	return nil
}
