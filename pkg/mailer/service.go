package mailer

import (
	"errors"
	"fmt"
	"net/mail"

	"wrfcloud/pkg/mailer/providers"
)

var (
	ErrAtLeastOneProviderRequired = errors.New("at least one email provider is required")
	ErrProviderCannotBeNil        = errors.New("email provider cannot be nil")
	ErrEmailDataRequired          = errors.New("email data is required")
	ErrAtLeastOneRecipient        = errors.New("at least one recipient is required")
	ErrInvalidFromEmail           = errors.New("invalid from email address")
	ErrAllProvidersFailed         = errors.New("all email providers failed")
)

// Sender is the narrow surface the action layer depends on.
type Sender interface {
	Send(emailData *providers.EmailData) (*providers.EmailResult, error)
}

// EmailService tries each configured provider in order until one delivers.
type EmailService struct {
	providers   []providers.EmailProvider
	defaultFrom string
}

func NewEmailService(defaultFrom string, providerList ...providers.EmailProvider) (*EmailService, error) {
	if len(providerList) == 0 {
		return nil, ErrAtLeastOneProviderRequired
	}
	for _, provider := range providerList {
		if provider == nil {
			return nil, ErrProviderCannotBeNil
		}
	}
	if defaultFrom != "" {
		if _, err := mail.ParseAddress(defaultFrom); err != nil {
			return nil, ErrInvalidFromEmail
		}
	}

	return &EmailService{
		providers:   providerList,
		defaultFrom: defaultFrom,
	}, nil
}

func (s *EmailService) Send(emailData *providers.EmailData) (*providers.EmailResult, error) {
	if err := validate(emailData); err != nil {
		return nil, err
	}
	if emailData.From == "" {
		emailData.From = s.defaultFrom
	}

	var lastErr error
	for _, provider := range s.providers {
		result, err := provider.Send(emailData)
		if err == nil && result != nil && result.Success {
			return result, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %w", ErrAllProvidersFailed, lastErr)
}

func validate(emailData *providers.EmailData) error {
	if emailData == nil {
		return ErrEmailDataRequired
	}
	if len(emailData.To) == 0 {
		return ErrAtLeastOneRecipient
	}
	for _, to := range emailData.To {
		if _, err := mail.ParseAddress(to); err != nil {
			return fmt.Errorf("invalid recipient %q: %w", to, err)
		}
	}
	return nil
}
