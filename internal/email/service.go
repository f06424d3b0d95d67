package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/nutrivo/practice-api/internal/config"
	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/pkg/logger"
)

type Service interface {
	SendPatientReport(ctx context.Context, to string, report *model.PatientReport) error
}

type smtpService struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
	logger *logger.Logger
}

func NewSMTPService(cfg config.SMTPConfig, logger *logger.Logger) Service {
	return &smtpService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger,
	}
}

// SendPatientReport mails the rendered plain-text report. The report is
// regenerated per send, never attached from storage.
func (s *smtpService) SendPatientReport(ctx context.Context, to string, report *model.PatientReport) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Relatório do paciente - %s", report.PatientName))
	m.SetBody("text/plain", report.Render())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send report email: %w", err)
	}
	s.logger.Info(fmt.Sprintf("report email sent to %s", to))
	return nil
}
