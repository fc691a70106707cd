package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/spec-kit/whistleblow-portal/internal/domain"
)

// ExportService renders a printable case protocol for the record file.
type ExportService struct {
	reports *ReportService
}

// NewExportService builds the service.
func NewExportService(reports *ReportService) *ExportService {
	return &ExportService{reports: reports}
}

// CaseProtocol renders the full case thread as a PDF. Returns the document
// bytes and a suggested filename.
func (s *ExportService) CaseProtocol(ctx context.Context, reportID string) ([]byte, string, error) {
	report, msgs, err := s.reports.Thread(ctx, reportID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Case Protocol %s", report.CaseCode), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	confirmation := "no"
	if report.ConfirmationSent {
		confirmation = "yes"
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{
		fmt.Sprintf("Status: %s", report.Status),
		fmt.Sprintf("Category: %s", report.Category),
		fmt.Sprintf("Submitted: %s", report.CreatedAt.Format("2006-01-02 15:04")),
		fmt.Sprintf("Receipt confirmed: %s", confirmation),
		fmt.Sprintf("Exported: %s", time.Now().Format("2006-01-02 15:04")),
	} {
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	for _, msg := range msgs {
		writeMessage(pdf, msg)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("Protocol_%s_%s.pdf", report.CaseCode, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func writeMessage(pdf *gofpdf.Fpdf, msg domain.Message) {
	sender := "Reporter"
	if msg.SenderType == domain.SenderAdmin {
		sender = "Case handler"
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("%s, %s", sender, msg.CreatedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if msg.Content != "" {
		pdf.MultiCell(0, 5, msg.Content, "", "L", false)
	}
	for _, att := range msg.Attachments {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 5, fmt.Sprintf("Attachment: %s (%d bytes)", att.DisplayName, att.SizeBytes), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}
