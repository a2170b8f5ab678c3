package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/contact-service/internal/domain"
	apperrors "github.com/spec-kit/contact-service/pkg/util"
)

func seedContacts(repo *fakeContactRepo, n int) []domain.Contact {
	now := time.Now().UTC()
	contacts := make([]domain.Contact, 0, n)
	for i := 0; i < n; i++ {
		c := domain.Contact{
			ID:           string(rune('a' + i)),
			FullName:     "Contacto " + string(rune('A'+i)),
			Email:        string(rune('a'+i)) + "@example.com",
			Phone:        "555-0000",
			Message:      "Hola, necesito info",
			RegisteredAt: now.Add(-time.Duration(i) * time.Hour),
		}
		repo.contacts = append(repo.contacts, c)
		contacts = append(contacts, c)
	}
	return contacts
}

func newEmailService(contacts *fakeContactRepo, history *fakeHistoryRepo, mailer *fakeMailer, delay time.Duration) *EmailService {
	return NewEmailService(contacts, history, mailer, nil, zap.NewNop(), delay)
}

func TestSendToContactSuccess(t *testing.T) {
	repo := newFakeContactRepo()
	contacts := seedContacts(repo, 1)
	history := &fakeHistoryRepo{}
	mailer := newFakeMailer()
	svc := newEmailService(repo, history, mailer, 0)

	detail, err := svc.SendToContact(context.Background(), "user-1", contacts[0].ID, "Asunto", "Mensaje")
	require.NoError(t, err)
	assert.Equal(t, domain.EmailStatusSent, detail.Status)
	assert.Equal(t, contacts[0].Email, detail.Email)

	require.Len(t, history.records, 1)
	rec := history.records[0]
	assert.Equal(t, contacts[0].ID, rec.ContactID)
	assert.Equal(t, "user-1", rec.SenderID)
	assert.Equal(t, domain.EmailStatusSent, rec.Status)
	assert.Nil(t, rec.Error)
}

func TestSendToContactNotFound(t *testing.T) {
	repo := newFakeContactRepo()
	history := &fakeHistoryRepo{}
	svc := newEmailService(repo, history, newFakeMailer(), 0)

	_, err := svc.SendToContact(context.Background(), "user-1", "missing", "Asunto", "Mensaje")
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
	assert.Empty(t, history.records, "no history row without a dispatch attempt")
}

func TestSendToContactDispatchFailureStillRecorded(t *testing.T) {
	repo := newFakeContactRepo()
	contacts := seedContacts(repo, 1)
	history := &fakeHistoryRepo{}
	mailer := newFakeMailer()
	mailer.failFor[contacts[0].Email] = errors.New("smtp: connection reset")
	svc := newEmailService(repo, history, mailer, 0)

	detail, err := svc.SendToContact(context.Background(), "user-1", contacts[0].ID, "Asunto", "Mensaje")
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.ToDomainError(err).HTTPStatus)

	require.NotNil(t, detail)
	assert.Equal(t, domain.EmailStatusFailed, detail.Status)

	require.Len(t, history.records, 1)
	rec := history.records[0]
	assert.Equal(t, domain.EmailStatusFailed, rec.Status)
	require.NotNil(t, rec.Error)
	assert.Contains(t, *rec.Error, "connection reset")
}

func TestSendBulkAccountsForEveryTarget(t *testing.T) {
	repo := newFakeContactRepo()
	contacts := seedContacts(repo, 4)
	history := &fakeHistoryRepo{}
	mailer := newFakeMailer()
	mailer.failFor[contacts[1].Email] = errors.New("mailbox full")
	mailer.failFor[contacts[3].Email] = errors.New("rejected")
	svc := newEmailService(repo, history, mailer, 0)

	ids := []string{contacts[0].ID, contacts[1].ID, contacts[2].ID, contacts[3].ID}
	result, err := svc.SendBulk(context.Background(), "user-1", BulkInput{
		ContactIDs: ids,
		Subject:    "Asunto",
		Message:    "Mensaje",
	})
	require.NoError(t, err, "individual failures never fail the batch")

	assert.Equal(t, 2, result.Successes)
	assert.Equal(t, 2, result.Failures)
	assert.Equal(t, len(ids), result.Successes+result.Failures)
	require.Len(t, result.Details, len(ids))
	require.Len(t, history.records, len(ids), "one history row per attempt")

	// Input order is preserved in both details and history.
	for i, id := range ids {
		assert.Equal(t, id, history.records[i].ContactID)
	}
	assert.Equal(t, domain.EmailStatusSent, result.Details[0].Status)
	assert.Equal(t, domain.EmailStatusFailed, result.Details[1].Status)
	assert.Equal(t, domain.EmailStatusSent, result.Details[2].Status)
	assert.Equal(t, domain.EmailStatusFailed, result.Details[3].Status)
}

func TestSendBulkThrottlesBetweenSends(t *testing.T) {
	repo := newFakeContactRepo()
	contacts := seedContacts(repo, 3)
	history := &fakeHistoryRepo{}
	mailer := newFakeMailer()
	delay := 20 * time.Millisecond
	svc := newEmailService(repo, history, mailer, delay)

	start := time.Now()
	_, err := svc.SendBulk(context.Background(), "user-1", BulkInput{
		ContactIDs: []string{contacts[0].ID, contacts[1].ID, contacts[2].ID},
		Subject:    "Asunto",
		Message:    "Mensaje",
	})
	require.NoError(t, err)

	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 2*delay, "two pauses for three sends")

	require.Len(t, mailer.sentAt, 3)
	for i := 1; i < len(mailer.sentAt); i++ {
		gap := mailer.sentAt[i].Sub(mailer.sentAt[i-1])
		assert.GreaterOrEqual(t, gap, delay)
	}
}

func TestSendBulkFilterRecent(t *testing.T) {
	repo := newFakeContactRepo()
	now := time.Now().UTC()
	repo.contacts = []domain.Contact{
		{ID: "fresh", Email: "fresh@example.com", RegisteredAt: now.Add(-24 * time.Hour)},
		{ID: "stale", Email: "stale@example.com", RegisteredAt: now.AddDate(0, 0, -30)},
	}
	history := &fakeHistoryRepo{}
	mailer := newFakeMailer()
	svc := newEmailService(repo, history, mailer, 0)

	result, err := svc.SendBulk(context.Background(), "user-1", BulkInput{
		Filter:  &BulkFilter{Tipo: FilterRecent, Dias: 7},
		Subject: "Asunto",
		Message: "Mensaje",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Successes)
	assert.Equal(t, []string{"fresh@example.com"}, mailer.sentTo)
}

func TestSendBulkFilterNoResponse(t *testing.T) {
	repo := newFakeContactRepo()
	seedContacts(repo, 3)
	repo.replied[repo.contacts[0].ID] = true
	history := &fakeHistoryRepo{}
	svc := newEmailService(repo, history, newFakeMailer(), 0)

	result, err := svc.SendBulk(context.Background(), "user-1", BulkInput{
		Filter:  &BulkFilter{Tipo: FilterNoResponse},
		Subject: "Asunto",
		Message: "Mensaje",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Successes+result.Failures)
}

func TestSendBulkNoTargets(t *testing.T) {
	repo := newFakeContactRepo()
	svc := newEmailService(repo, &fakeHistoryRepo{}, newFakeMailer(), 0)

	_, err := svc.SendBulk(context.Background(), "user-1", BulkInput{
		Filter:  &BulkFilter{Tipo: FilterAll},
		Subject: "Asunto",
		Message: "Mensaje",
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestSendBulkRequiresIDsOrFilter(t *testing.T) {
	repo := newFakeContactRepo()
	seedContacts(repo, 1)
	svc := newEmailService(repo, &fakeHistoryRepo{}, newFakeMailer(), 0)

	_, err := svc.SendBulk(context.Background(), "user-1", BulkInput{Subject: "Asunto", Message: "Mensaje"})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestSendDirect(t *testing.T) {
	mailer := newFakeMailer()
	svc := newEmailService(newFakeContactRepo(), &fakeHistoryRepo{}, mailer, 0)

	err := svc.SendDirect(context.Background(), "someone@example.com", "Asunto", "Mensaje")
	require.NoError(t, err)
	assert.Equal(t, []string{"someone@example.com"}, mailer.sentTo)
}

func TestHistoryFiltersByContact(t *testing.T) {
	history := &fakeHistoryRepo{records: []domain.EmailRecord{
		{ID: "1", ContactID: "a"},
		{ID: "2", ContactID: "b"},
		{ID: "3", ContactID: "a"},
	}}
	svc := newEmailService(newFakeContactRepo(), history, newFakeMailer(), 0)

	entries, err := svc.History(context.Background(), "a", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
