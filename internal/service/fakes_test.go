package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/whistleblow-portal/internal/domain"
	"github.com/spec-kit/whistleblow-portal/internal/repository"
)

// In-memory repository fakes backing the service tests.

type memMessages struct {
	mu       sync.Mutex
	messages []*domain.Message
}

func newMemMessages() *memMessages {
	return &memMessages{}
}

func (m *memMessages) Create(_ context.Context, msg *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now()
	clone := *msg
	m.messages = append(m.messages, &clone)
	return nil
}

func (m *memMessages) ListByReport(_ context.Context, reportID string) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Message
	for _, msg := range m.messages {
		if msg.ReportID == reportID {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (m *memMessages) countFor(reportID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.messages {
		if msg.ReportID == reportID {
			n++
		}
	}
	return n
}

type memReports struct {
	mu           sync.Mutex
	reports      map[string]*domain.Report
	messages     *memMessages
	dupRemaining int
}

func newMemReports(messages *memMessages) *memReports {
	return &memReports{reports: make(map[string]*domain.Report), messages: messages}
}

func (m *memReports) Create(_ context.Context, report *domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dupRemaining > 0 {
		m.dupRemaining--
		return &pgconn.PgError{Code: "23505"}
	}
	for _, existing := range m.reports {
		if existing.CaseCode == report.CaseCode {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	report.ID = uuid.NewString()
	report.CreatedAt = time.Now()
	report.UpdatedAt = report.CreatedAt
	clone := *report
	m.reports[report.ID] = &clone
	return nil
}

func (m *memReports) GetByID(_ context.Context, id string) (*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	report, ok := m.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *report
	return &clone, nil
}

func (m *memReports) GetByCaseCode(_ context.Context, caseCode string) (*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, report := range m.reports {
		if report.CaseCode == caseCode {
			clone := *report
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memReports) UpdateStatus(_ context.Context, id string, status domain.ReportStatus) (*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	report, ok := m.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	report.Status = status
	report.UpdatedAt = time.Now()
	clone := *report
	return &clone, nil
}

func (m *memReports) ListSummaries(_ context.Context) ([]repository.ReportSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.ReportSummary
	for _, report := range m.reports {
		out = append(out, repository.ReportSummary{
			Report:       *report,
			MessageCount: m.messages.countFor(report.ID),
		})
	}
	return out, nil
}

func (m *memReports) ConfirmReceipt(ctx context.Context, reportID string, newStatus domain.ReportStatus, msg *domain.Message) error {
	m.mu.Lock()
	report, ok := m.reports[reportID]
	if !ok {
		m.mu.Unlock()
		return pgx.ErrNoRows
	}
	if report.ConfirmationSent {
		m.mu.Unlock()
		return repository.ErrConfirmationAlreadySent
	}
	report.ConfirmationSent = true
	report.Status = newStatus
	report.UpdatedAt = time.Now()
	m.mu.Unlock()
	return m.messages.Create(ctx, msg)
}

type memAttachments struct {
	mu          sync.Mutex
	attachments map[string]*repository.OwnedAttachment
}

func newMemAttachments() *memAttachments {
	return &memAttachments{attachments: make(map[string]*repository.OwnedAttachment)}
}

func (m *memAttachments) Create(_ context.Context, attachment *domain.Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	attachment.ID = uuid.NewString()
	attachment.CreatedAt = time.Now()
	m.attachments[attachment.ID] = &repository.OwnedAttachment{Attachment: *attachment}
	return nil
}

func (m *memAttachments) ListByMessage(_ context.Context, messageID string) ([]domain.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Attachment
	for _, owned := range m.attachments {
		if owned.Attachment.MessageID == messageID {
			out = append(out, owned.Attachment)
		}
	}
	return out, nil
}

func (m *memAttachments) GetWithOwner(_ context.Context, id string) (*repository.OwnedAttachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owned, ok := m.attachments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *owned
	return &clone, nil
}

func (m *memAttachments) put(owned repository.OwnedAttachment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attachments[owned.Attachment.ID] = &owned
}

type memAdmins struct {
	mu     sync.Mutex
	admins map[string]*domain.AdminUser
}

func newMemAdmins() *memAdmins {
	return &memAdmins{admins: make(map[string]*domain.AdminUser)}
}

func (m *memAdmins) Create(_ context.Context, user *domain.AdminUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.admins {
		if existing.Username == user.Username {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	clone := *user
	m.admins[user.ID] = &clone
	return nil
}

func (m *memAdmins) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.admins[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.admins, id)
	return nil
}

func (m *memAdmins) GetByID(_ context.Context, id string) (*domain.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.admins[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (m *memAdmins) GetByUsername(_ context.Context, username string) (*domain.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.admins {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memAdmins) List(_ context.Context) ([]domain.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AdminUser
	for _, user := range m.admins {
		out = append(out, *user)
	}
	return out, nil
}

func (m *memAdmins) ListEmails(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, user := range m.admins {
		if user.Email != nil && *user.Email != "" {
			out = append(out, *user.Email)
		}
	}
	return out, nil
}

// fakeThrottle counts attempts against a fixed budget.
type fakeThrottle struct {
	mu       sync.Mutex
	max      int
	recorded map[string]int
}

func newFakeThrottle(max int) *fakeThrottle {
	return &fakeThrottle{max: max, recorded: make(map[string]int)}
}

func (t *fakeThrottle) Allow(_ context.Context, scope, client string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recorded[scope+":"+client] < t.max, nil
}

func (t *fakeThrottle) Record(_ context.Context, scope, client string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recorded[scope+":"+client]++
	return nil
}
