package providers

// EmailProvider delivers one email. Implementations report failure both in
// the result and the error so callers can fail over between providers.
type EmailProvider interface {
	Send(emailData *EmailData) (*EmailResult, error)
	GetName() string
}

type EmailData struct {
	To      []string
	From    string
	Subject string
	HTML    string
	Text    string
}

type EmailResult struct {
	Success   bool
	MessageID string
	Error     string
	Provider  string
}
