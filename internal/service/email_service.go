// Package service implements the application's business logic on top
// of the repository and storage layers.
package service

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/omnilingu/backend/internal/config"
)

// EmailSender sends transactional email. Defined as an interface so
// the reset flow can be tested without a SendGrid account.
type EmailSender interface {
	SendPasswordResetEmail(toEmail, toName, resetLink string) error
}

// EmailService sends email through SendGrid.
type EmailService struct {
	cfg *config.EmailSettings
}

// NewEmailService creates a new EmailService.
func NewEmailService(cfg *config.EmailSettings) (*EmailService, error) {
	if cfg.SendGridAPIKey == "" {
		return nil, fmt.Errorf("SendGrid API key not configured (set SENDGRID_API_KEY)")
	}
	return &EmailService{cfg: cfg}, nil
}

// SendPasswordResetEmail sends a password reset email containing the
// given reset link.
func (s *EmailService) SendPasswordResetEmail(toEmail, toName, resetLink string) error {
	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromAddress)
	to := mail.NewEmail(toName, toEmail)
	subject := "Password Reset Request"
	plainTextContent := fmt.Sprintf("Please use the following link to reset your password: %s", resetLink)
	htmlContent := fmt.Sprintf("<strong>Please use the following link to reset your password:</strong> <a href=%q>Reset Password</a>", resetLink)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(s.cfg.SendGridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		log.Error().Err(err).Msg("Failed to send password reset email")
		return err
	}

	log.Info().
		Int("status_code", response.StatusCode).
		Msg("Password reset email sent")
	return nil
}

// NopEmailSender logs reset links instead of delivering them. Used in
// development when no mail provider is configured.
type NopEmailSender struct{}

// SendPasswordResetEmail logs the reset link at warn level.
func (NopEmailSender) SendPasswordResetEmail(toEmail, toName, resetLink string) error {
	log.Warn().
		Str("to", toEmail).
		Str("reset_link", resetLink).
		Msg("Email delivery disabled, reset link logged instead")
	return nil
}
