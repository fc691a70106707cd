package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/whistleblow-portal/internal/api/dto"
	"github.com/spec-kit/whistleblow-portal/internal/config"
	"github.com/spec-kit/whistleblow-portal/internal/credentials"
	"github.com/spec-kit/whistleblow-portal/internal/domain"
	"github.com/spec-kit/whistleblow-portal/internal/repository"
	"github.com/spec-kit/whistleblow-portal/internal/service"
	"github.com/spec-kit/whistleblow-portal/internal/upload"
	apperrors "github.com/spec-kit/whistleblow-portal/pkg/util"
)

// Minimal in-memory repositories backing handler-level tests.

type stubMessages struct {
	messages []*domain.Message
}

func (m *stubMessages) Create(_ context.Context, msg *domain.Message) error {
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now()
	clone := *msg
	m.messages = append(m.messages, &clone)
	return nil
}

func (m *stubMessages) ListByReport(_ context.Context, reportID string) ([]domain.Message, error) {
	var out []domain.Message
	for _, msg := range m.messages {
		if msg.ReportID == reportID {
			out = append(out, *msg)
		}
	}
	return out, nil
}

type stubReports struct {
	reports  map[string]*domain.Report
	messages *stubMessages
}

func (r *stubReports) Create(_ context.Context, report *domain.Report) error {
	report.ID = uuid.NewString()
	report.CreatedAt = time.Now()
	report.UpdatedAt = report.CreatedAt
	clone := *report
	r.reports[report.ID] = &clone
	return nil
}

func (r *stubReports) GetByID(_ context.Context, id string) (*domain.Report, error) {
	report, ok := r.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *report
	return &clone, nil
}

func (r *stubReports) GetByCaseCode(_ context.Context, caseCode string) (*domain.Report, error) {
	for _, report := range r.reports {
		if report.CaseCode == caseCode {
			clone := *report
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubReports) UpdateStatus(_ context.Context, id string, status domain.ReportStatus) (*domain.Report, error) {
	report, ok := r.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	report.Status = status
	clone := *report
	return &clone, nil
}

func (r *stubReports) ListSummaries(_ context.Context) ([]repository.ReportSummary, error) {
	return nil, nil
}

func (r *stubReports) ConfirmReceipt(ctx context.Context, reportID string, newStatus domain.ReportStatus, msg *domain.Message) error {
	report, ok := r.reports[reportID]
	if !ok {
		return pgx.ErrNoRows
	}
	if report.ConfirmationSent {
		return repository.ErrConfirmationAlreadySent
	}
	report.ConfirmationSent = true
	report.Status = newStatus
	return r.messages.Create(ctx, msg)
}

type stubAttachments struct {
	attachments []*domain.Attachment
}

func (a *stubAttachments) Create(_ context.Context, attachment *domain.Attachment) error {
	attachment.ID = uuid.NewString()
	attachment.CreatedAt = time.Now()
	clone := *attachment
	a.attachments = append(a.attachments, &clone)
	return nil
}

func (a *stubAttachments) ListByMessage(_ context.Context, messageID string) ([]domain.Attachment, error) {
	var out []domain.Attachment
	for _, attachment := range a.attachments {
		if attachment.MessageID == messageID {
			out = append(out, *attachment)
		}
	}
	return out, nil
}

func (a *stubAttachments) GetWithOwner(_ context.Context, _ string) (*repository.OwnedAttachment, error) {
	return nil, pgx.ErrNoRows
}

type stubBlobStore struct {
	files map[string][]byte
}

func (s *stubBlobStore) Save(_ context.Context, key string, payload io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(payload)
	if err != nil {
		return err
	}
	s.files[key] = data
	return nil
}

func (s *stubBlobStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.files[key]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func newTestApp(t *testing.T) (*fiber.App, *AdminHandler, *service.ReportService) {
	t.Helper()
	messages := &stubMessages{}
	reports := &stubReports{reports: make(map[string]*domain.Report), messages: messages}
	reportSvc := service.NewReportService(service.ReportDependencies{
		ReportRepo:     reports,
		MessageRepo:    messages,
		AttachmentRepo: &stubAttachments{},
		Generator:      credentials.NewGenerator(12),
		BcryptCost:     4,
	})
	intake := upload.NewIntake(&stubBlobStore{files: make(map[string][]byte)}, zap.NewNop(),
		config.UploadConfig{MaxFiles: 5, MaxFileSizeByte: 1024 * 1024})
	handler := NewAdminHandler(nil, reportSvc, nil, intake)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": domainErr.Code}})
		},
	})
	return app, handler, reportSvc
}

func multipartMessage(t *testing.T, content string, files ...[3]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("content", content))
	for _, file := range files {
		name, contentType, payload := file[0], file[1], file[2]
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, name))
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(payload))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestAdminAddMessageAcceptsAttachments(t *testing.T) {
	app, handler, reportSvc := newTestApp(t)
	app.Post("/api/admin/reports/:id/messages", handler.AddMessage)

	report, _, err := reportSvc.Submit(context.Background(), "initial", "OTHER", nil)
	require.NoError(t, err)

	body, contentType := multipartMessage(t, "please see the attached request",
		[3]string{"request.pdf", "application/pdf", "pdf-bytes"},
		[3]string{"payload.exe", "application/x-dosexec", "mz-bytes"},
	)

	req, err := http.NewRequest(http.MethodPost, "/api/admin/reports/"+report.ID+"/messages", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var envelope struct {
		Data dto.MessageResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))

	assert.Equal(t, domain.SenderAdmin, envelope.Data.SenderType)
	assert.Equal(t, "please see the attached request", envelope.Data.Content)
	// The allowed file is attached, the disallowed one silently dropped.
	require.Len(t, envelope.Data.Attachments, 1)
	assert.Equal(t, "request.pdf", envelope.Data.Attachments[0].DisplayName)

	updated, _, err := reportSvc.Thread(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusInProgress, updated.Status)
}

func TestAdminAddMessageRejectsClosedCase(t *testing.T) {
	app, handler, reportSvc := newTestApp(t)
	app.Post("/api/admin/reports/:id/messages", handler.AddMessage)

	report, _, err := reportSvc.Submit(context.Background(), "initial", "OTHER", nil)
	require.NoError(t, err)
	_, err = reportSvc.UpdateStatus(context.Background(), report.ID, domain.ReportStatusClosed)
	require.NoError(t, err)

	body, contentType := multipartMessage(t, "too late")
	req, err := http.NewRequest(http.MethodPost, "/api/admin/reports/"+report.ID+"/messages", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
