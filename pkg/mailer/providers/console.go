package providers

import "log"

const consoleProviderName = "console"

// ConsoleProvider writes mail to the process log instead of delivering it.
// Used in development and tests where no SES credentials exist.
type ConsoleProvider struct{}

func NewConsoleProvider() *ConsoleProvider {
	return &ConsoleProvider{}
}

func (p *ConsoleProvider) GetName() string {
	return consoleProviderName
}

func (p *ConsoleProvider) Send(emailData *EmailData) (*EmailResult, error) {
	log.Printf("mail: to=%v subject=%q\n%s", emailData.To, emailData.Subject, emailData.Text)
	return &EmailResult{
		Success:  true,
		Provider: consoleProviderName,
	}, nil
}
