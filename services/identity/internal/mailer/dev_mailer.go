package mailer

import (
	"fmt"

	"github.com/voyago/travelbook/pkg/logger"
)

// DevMailer prints reset tokens to the log instead of sending mail.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendPasswordResetEmail(toEmail, toName, resetToken string) error {
	logger.Info("[DEV MAIL] Password reset email",
		"to", toEmail,
		"name", toName,
		"reset_token", resetToken,
	)

	fmt.Printf("\n"+
		"-----------------------------------------------------------------\n"+
		"PASSWORD RESET EMAIL (DEV MODE)\n"+
		"-----------------------------------------------------------------\n"+
		"To: %s (%s)\n"+
		"Subject: Reset your Travelbook password\n"+
		"\n"+
		"Reset token: %s\n"+
		"-----------------------------------------------------------------\n\n",
		toEmail, toName, resetToken)

	return nil
}
