package report

import (
	"bytes"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/finplan/advisor-service/internal/config"
)

// Mailer sends generated reports over SMTP.
type Mailer struct {
	cfg *config.Config
	log *logrus.Logger
}

// NewMailer creates a report mailer.
func NewMailer(cfg *config.Config, log *logrus.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// Configured reports whether SMTP delivery is set up at all.
func (m *Mailer) Configured() bool {
	return m.cfg.SMTPHost != ""
}

// SendReport emails the PDF to the client as an attachment.
func (m *Mailer) SendReport(to, clientName string, pdf []byte, filename string) error {
	if !m.Configured() {
		return fmt.Errorf("SMTP is not configured")
	}

	e := email.NewEmail()
	e.From = m.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Your Asset Allocation Report"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Please find your personalized asset allocation report attached.\n"+
			"The report covers your financial profile, goals and the recommended allocation.\n\n"+
			"Best regards,\nPersonal Finance App",
		clientName,
	)
	e.Text = []byte(body)

	if _, err := e.Attach(bytes.NewReader(pdf), filename, "application/pdf"); err != nil {
		return fmt.Errorf("failed to attach report: %w", err)
	}

	addr := fmt.Sprintf("%s:%s", m.cfg.SMTPHost, m.cfg.SMTPPort)
	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		m.log.Errorf("Failed to send report to %s: %v", to, err)
		return fmt.Errorf("failed to send report: %w", err)
	}

	m.log.Infof("Report emailed to %s", to)
	return nil
}
