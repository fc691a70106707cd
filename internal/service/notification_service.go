package service

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/whistleblow-portal/internal/config"
	"github.com/spec-kit/whistleblow-portal/internal/events"
	"github.com/spec-kit/whistleblow-portal/internal/persistence"
	"github.com/spec-kit/whistleblow-portal/internal/repository"
)

// NotificationService fans case events out to the configured channels:
// email to case handlers and the message broker for external consumers.
// Outbound payloads carry the case code, never report content. Failures
// are logged and swallowed; notifications never fail a request.
type NotificationService struct {
	cfg    config.Config
	admins repository.AdminUserRepository
	broker *persistence.AMQP
	logger *zap.Logger
	send   func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewNotificationService builds the service.
func NewNotificationService(cfg config.Config, admins repository.AdminUserRepository, broker *persistence.AMQP, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		cfg:    cfg,
		admins: admins,
		broker: broker,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// HandleReportSubmitted notifies case handlers about a new submission.
func (s *NotificationService) HandleReportSubmitted(ctx context.Context, event events.Event) error {
	s.publishToBroker(ctx, event)

	go s.emailAdmins(event.CaseCode)
	return nil
}

// HandleMessageAdded forwards message events to the broker only; handlers
// poll the dashboard for thread activity.
func (s *NotificationService) HandleMessageAdded(ctx context.Context, event events.Event) error {
	s.publishToBroker(ctx, event)
	return nil
}

// HandleStatusChanged forwards status transitions to the broker.
func (s *NotificationService) HandleStatusChanged(ctx context.Context, event events.Event) error {
	s.publishToBroker(ctx, event)
	return nil
}

func (s *NotificationService) publishToBroker(ctx context.Context, event events.Event) {
	if err := s.broker.Publish(ctx, event); err != nil {
		s.logger.Warn("broker publish failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}

// emailAdmins sends the new-report notification. The body names the case
// code and the dashboard URL and nothing else.
func (s *NotificationService) emailAdmins(caseCode string) {
	if !s.cfg.Notification.SMTPEnabled() {
		return
	}

	recipients, err := s.admins.ListEmails(context.Background())
	if err != nil {
		s.logger.Warn("listing admin emails failed", zap.Error(err))
		return
	}
	if len(recipients) == 0 {
		return
	}

	n := s.cfg.Notification
	body := fmt.Sprintf("A new report has been submitted.\r\n\r\nCase code: %s\r\nDashboard: %s/admin\r\n",
		caseCode, strings.TrimRight(s.cfg.App.BaseURL, "/"))
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: New report received (%s)\r\n\r\n%s",
		n.EmailFrom, strings.Join(recipients, ", "), caseCode, body))

	addr := fmt.Sprintf("%s:%d", n.SMTPHost, n.SMTPPort)
	auth := smtp.PlainAuth("", n.SMTPUser, n.SMTPPass, n.SMTPHost)
	if err := s.send(addr, auth, n.EmailFrom, recipients, msg); err != nil {
		s.logger.Warn("notification email failed",
			zap.String("case_code", caseCode),
			zap.Error(err))
		return
	}
	s.logger.Info("notification email sent",
		zap.String("case_code", caseCode),
		zap.Int("recipients", len(recipients)))
}
