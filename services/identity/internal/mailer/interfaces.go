package mailer

import "github.com/voyago/travelbook/pkg/config"

// Service delivers password-reset tokens out of band. Delivery failures are
// logged by the caller and never fail the forgot-password flow.
type Service interface {
	SendPasswordResetEmail(toEmail, toName, resetToken string) error
}

// New picks an implementation from config: dev mode logs instead of
// sending, a MailerSend API key wins over SMTP, SMTP is the fallback.
func New(cfg config.EmailConfig) Service {
	if cfg.DevMode {
		return NewDevMailer()
	}
	if cfg.MailerSendKey != "" {
		return NewMailerSend(cfg.MailerSendKey, "Travelbook", cfg.SMTPFrom)
	}
	return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass)
}
