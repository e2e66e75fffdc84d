package model

// Preference keys. Stored one row per key with a JSON value.
const (
	PrefDefaultRecipients = "default_email_recipients" // []string
	PrefAutoSendSummary   = "auto_send_summary"        // bool
	PrefPreferredTemplate = "preferred_template"       // TemplateType
	PrefGmailConfig       = "gmail_config"             // GmailConfig
)

// GmailConfig holds the SMTP credential used when a send request does not
// carry one. The password is an app password, supplied per call to the
// transport, never cached as a session.
type GmailConfig struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
