package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendClient struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	return &MailerSendClient{
		client: mailersend.NewMailersend(apiKey),
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}
}

func (m *MailerSendClient) SendPasswordResetEmail(toEmail, toName, resetToken string) error {
	subject := "Reset your Travelbook password"
	text := fmt.Sprintf("Hi %s,\n\nWe received a request to reset your password. Use this reset token: %s\n\nIf you didn't request this, ignore this email and your password stays unchanged.", toName, resetToken)
	html := fmt.Sprintf(`
		<h2>Reset your Travelbook password</h2>
		<p>Hi %s,</p>
		<p>We received a request to reset your password. Use this reset token:</p>
		<p><strong style="font-size: 20px;">%s</strong></p>
		<p>If you didn't request this, ignore this email and your password stays unchanged.</p>
	`, toName, resetToken)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	msg.SetText(text)
	msg.SetHTML(html)

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
