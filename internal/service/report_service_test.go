package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/whistleblow-portal/internal/credentials"
	"github.com/spec-kit/whistleblow-portal/internal/domain"
	"github.com/spec-kit/whistleblow-portal/internal/upload"
	apperrors "github.com/spec-kit/whistleblow-portal/pkg/util"
)

func newTestReportService(t *testing.T) (*ReportService, *memReports, *memMessages) {
	t.Helper()
	messages := newMemMessages()
	reports := newMemReports(messages)
	svc := NewReportService(ReportDependencies{
		ReportRepo:     reports,
		MessageRepo:    messages,
		AttachmentRepo: newMemAttachments(),
		Generator:      credentials.NewGenerator(12),
		BcryptCost:     4,
	})
	return svc, reports, messages
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	return domainErr.Code
}

func TestSubmitRequiresContentOrAttachment(t *testing.T) {
	svc, _, _ := newTestReportService(t)

	_, _, err := svc.Submit(context.Background(), "   ", "OTHER", nil)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
}

func TestSubmitAttachmentOnlyIsAccepted(t *testing.T) {
	svc, _, messages := newTestReportService(t)

	files := []upload.StoredFile{{StorageKey: "abc.pdf", DisplayName: "evidence.pdf", MimeType: "application/pdf", SizeBytes: 42}}
	report, creds, err := svc.Submit(context.Background(), "", "THEFT", files)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^WH-\d{3}-[A-HJ-NP-Z]{3}$`), creds.CaseCode)
	assert.Len(t, creds.Secret, 12)
	assert.Equal(t, domain.ReportStatusNew, report.Status)
	assert.Equal(t, 1, messages.countFor(report.ID))
}

func TestSubmitCoercesUnknownCategory(t *testing.T) {
	svc, _, _ := newTestReportService(t)

	report, _, err := svc.Submit(context.Background(), "something happened", "BANANAS", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryOther, report.Category)
}

func TestSubmitRetriesOnCaseCodeCollision(t *testing.T) {
	svc, reports, _ := newTestReportService(t)
	reports.dupRemaining = 3

	report, creds, err := svc.Submit(context.Background(), "collision test", "OTHER", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.NotEmpty(t, creds.CaseCode)
}

func TestSubmitNeverReturnsSecretHash(t *testing.T) {
	svc, _, _ := newTestReportService(t)

	report, creds, err := svc.Submit(context.Background(), "hash check", "OTHER", nil)
	require.NoError(t, err)
	assert.NotEqual(t, creds.Secret, report.SecretHash)
	assert.NotContains(t, report.SecretHash, creds.Secret)
}

func TestAddMessageRejectsClosedCase(t *testing.T) {
	svc, _, _ := newTestReportService(t)

	report, _, err := svc.Submit(context.Background(), "initial", "OTHER", nil)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), report.ID, domain.ReportStatusClosed)
	require.NoError(t, err)

	for _, sender := range []domain.SenderType{domain.SenderWhistleblower, domain.SenderAdmin} {
		_, err = svc.AddMessage(context.Background(), report.ID, sender, "still there?", nil)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
	}
}

func TestAdminMessageAdvancesNewCase(t *testing.T) {
	svc, _, _ := newTestReportService(t)

	report, _, err := svc.Submit(context.Background(), "initial", "OTHER", nil)
	require.NoError(t, err)

	_, err = svc.AddMessage(context.Background(), report.ID, domain.SenderAdmin, "we are looking into it", nil)
	require.NoError(t, err)

	updated, _, err := svc.Thread(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusInProgress, updated.Status)
}

func TestWhistleblowerMessageDoesNotAdvance(t *testing.T) {
	svc, _, _ := newTestReportService(t)

	report, _, err := svc.Submit(context.Background(), "initial", "OTHER", nil)
	require.NoError(t, err)

	_, err = svc.AddMessage(context.Background(), report.ID, domain.SenderWhistleblower, "one more detail", nil)
	require.NoError(t, err)

	updated, _, err := svc.Thread(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusNew, updated.Status)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc, _, _ := newTestReportService(t)

	report, _, err := svc.Submit(context.Background(), "initial", "OTHER", nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), report.ID, "ARCHIVED")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
}

func TestUpdateStatusCanReopenClosedCase(t *testing.T) {
	svc, _, _ := newTestReportService(t)

	report, _, err := svc.Submit(context.Background(), "initial", "OTHER", nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), report.ID, domain.ReportStatusClosed)
	require.NoError(t, err)
	updated, err := svc.UpdateStatus(context.Background(), report.ID, domain.ReportStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusInProgress, updated.Status)
}

func TestConfirmReceiptIsOneTime(t *testing.T) {
	svc, _, messages := newTestReportService(t)

	report, _, err := svc.Submit(context.Background(), "initial", "OTHER", nil)
	require.NoError(t, err)

	msg, err := svc.ConfirmReceipt(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SenderAdmin, msg.SenderType)
	assert.Contains(t, msg.Content, "confirm receipt")

	updated, _, err := svc.Thread(context.Background(), report.ID)
	require.NoError(t, err)
	assert.True(t, updated.ConfirmationSent)
	assert.Equal(t, domain.ReportStatusInProgress, updated.Status)

	_, err = svc.ConfirmReceipt(context.Background(), report.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", errorCode(t, err))

	// The failed retry must not append a second confirmation message.
	assert.Equal(t, 2, messages.countFor(report.ID))
}

func TestConfirmReceiptKeepsInProgressStatus(t *testing.T) {
	svc, _, _ := newTestReportService(t)

	report, _, err := svc.Submit(context.Background(), "initial", "OTHER", nil)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), report.ID, domain.ReportStatusInProgress)
	require.NoError(t, err)

	_, err = svc.ConfirmReceipt(context.Background(), report.ID)
	require.NoError(t, err)

	updated, _, err := svc.Thread(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusInProgress, updated.Status)
}
