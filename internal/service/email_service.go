package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"minuteshub/internal/fault"
	"minuteshub/internal/mailer"
	"minuteshub/internal/model"
	"minuteshub/pkg/metrics"
)

// EmailService is the single compose-and-send flow. Credentials are resolved
// per call: the request's own credential wins, then the stored gmail_config
// preference.
type EmailService struct {
	transport MailTransport
	prefs     PreferenceStore
	logger    *zap.Logger
}

func NewEmailService(transport MailTransport, prefs PreferenceStore, logger *zap.Logger) *EmailService {
	return &EmailService{
		transport: transport,
		prefs:     prefs,
		logger:    logger,
	}
}

// TestConnection verifies the credential without sending mail. Success here
// is no guarantee for a later Send.
func (s *EmailService) TestConnection(ctx context.Context, creds mailer.Credentials) error {
	if err := validateCredentials(creds); err != nil {
		return err
	}
	return s.transport.Verify(creds)
}

type SendInput struct {
	Credentials *mailer.Credentials `json:"credentials,omitempty"`
	Message     mailer.Message      `json:"message"`
}

// Send validates the message, resolves a credential and transmits exactly
// one email. Validation failures never reach the transport.
func (s *EmailService) Send(ctx context.Context, in SendInput) (string, error) {
	if err := validateMessage(&in.Message); err != nil {
		return "", err
	}

	creds, err := s.resolveCredentials(ctx, in.Credentials)
	if err != nil {
		return "", err
	}

	messageID, err := s.transport.Send(creds, &in.Message)
	if err != nil {
		metrics.IncrementEmailSent("failed")
		s.logger.Error("email send failed",
			zap.Strings("to", in.Message.To),
			zap.Error(err),
		)
		return "", err
	}

	metrics.IncrementEmailSent("sent")
	s.logger.Info("email sent",
		zap.Strings("to", in.Message.To),
		zap.String("message_id", messageID),
	)
	return messageID, nil
}

func (s *EmailService) resolveCredentials(ctx context.Context, override *mailer.Credentials) (mailer.Credentials, error) {
	if override != nil {
		if err := validateCredentials(*override); err != nil {
			return mailer.Credentials{}, err
		}
		return *override, nil
	}

	var cfg model.GmailConfig
	if err := s.prefs.Get(ctx, model.PrefGmailConfig, &cfg); err != nil {
		if fault.IsNotFound(err) {
			return mailer.Credentials{}, fault.Validation("no credentials", map[string]string{
				"credentials": "no credentials supplied and no gmail_config preference stored",
			})
		}
		return mailer.Credentials{}, err
	}
	creds := mailer.Credentials{Email: cfg.Email, Password: cfg.Password}
	if err := validateCredentials(creds); err != nil {
		return mailer.Credentials{}, err
	}
	return creds, nil
}

func validateCredentials(creds mailer.Credentials) error {
	fields := map[string]string{}
	if strings.TrimSpace(creds.Email) == "" {
		fields["email"] = "email must not be empty"
	}
	if creds.Password == "" {
		fields["password"] = "password must not be empty"
	}
	if len(fields) > 0 {
		return fault.Validation("invalid credentials", fields)
	}
	return nil
}

func validateMessage(msg *mailer.Message) error {
	fields := map[string]string{}
	if len(msg.To) == 0 {
		fields["to"] = "at least one recipient is required"
	}
	if strings.TrimSpace(msg.Subject) == "" {
		fields["subject"] = "subject must not be empty"
	}
	if msg.Text == "" && msg.HTML == "" {
		fields["body"] = "one of text or html is required"
	}
	if len(fields) > 0 {
		return fault.Validation("invalid email", fields)
	}
	return nil
}
