package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendBookingConfirmed(ctx context.Context, to, patientName, serviceName, date, timeOfDay string) error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your appointment for <b>%s</b> on %s at %s has been confirmed.</p><p>PureDent Clinic</p>",
		patientName, serviceName, date, timeOfDay,
	)
	return s.send(to, "Appointment confirmed", body)
}

func (s *smtpService) SendReceipt(ctx context.Context, to, subject, htmlBody string) error {
	return s.send(to, subject, htmlBody)
}

func (s *smtpService) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
