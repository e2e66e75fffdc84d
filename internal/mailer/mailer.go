// Package mailer is the SMTP side of the one compose-and-send flow.
package mailer

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"minuteshub/internal/fault"
)

// Credentials are supplied per call. A successful Verify does not guarantee a
// later Send: the credential may be revoked between calls.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Attachment struct {
	Filename    string `json:"filename"`
	Content     []byte `json:"content"`
	ContentType string `json:"contentType"`
}

type Message struct {
	To          []string     `json:"to"`
	CC          []string     `json:"cc,omitempty"`
	BCC         []string     `json:"bcc,omitempty"`
	Subject     string       `json:"subject"`
	Text        string       `json:"text,omitempty"`
	HTML        string       `json:"html,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// SMTPTransport dials the configured SMTP host with per-call credentials.
type SMTPTransport struct {
	host string
	port int
}

func NewSMTPTransport(host string, port int) *SMTPTransport {
	return &SMTPTransport{host: host, port: port}
}

// Verify checks the credential by dialing and authenticating, without
// sending mail.
func (t *SMTPTransport) Verify(creds Credentials) error {
	d := gomail.NewDialer(t.host, t.port, creds.Email, creds.Password)
	conn, err := d.Dial()
	if err != nil {
		return classifyDialErr(err)
	}
	return conn.Close()
}

// Send transmits one message and returns its generated message id. No
// idempotency: calling twice sends twice.
func (t *SMTPTransport) Send(creds Credentials, msg *Message) (string, error) {
	messageID := fmt.Sprintf("<%s@minuteshub>", uuid.New().String())

	m := gomail.NewMessage()
	m.SetHeader("From", creds.Email)
	m.SetHeader("To", msg.To...)
	if len(msg.CC) > 0 {
		m.SetHeader("Cc", msg.CC...)
	}
	if len(msg.BCC) > 0 {
		m.SetHeader("Bcc", msg.BCC...)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", messageID)

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}

	for _, att := range msg.Attachments {
		content := att.Content
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
		}
		if att.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {att.ContentType},
			}))
		}
		m.Attach(att.Filename, settings...)
	}

	d := gomail.NewDialer(t.host, t.port, creds.Email, creds.Password)
	if err := d.DialAndSend(m); err != nil {
		return "", classifyDialErr(err)
	}

	return messageID, nil
}

func classifyDialErr(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "535") || strings.Contains(msg, "auth") || strings.Contains(msg, "username and password"):
		return fault.Wrap(fault.KindAuth, "smtp credential rejected", err)
	case strings.Contains(msg, "connect") || strings.Contains(msg, "dial") || strings.Contains(msg, "timeout") || strings.Contains(msg, "no such host"):
		return fault.Wrap(fault.KindNetwork, "smtp server unreachable", err)
	default:
		return fault.Wrap(fault.KindSend, "smtp failure", err)
	}
}
