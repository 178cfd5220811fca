// Package templates renders the transactional emails the service sends.
package templates

import (
	"bytes"
	"fmt"
	"text/template"
)

const welcomeText = `Welcome to WRF Cloud

Hi {{if .FullName}}{{.FullName}}{{else}}there{{end}},

An account has been created for you. Visit the link below to choose a
password and activate it:

{{.ActivationURL}}

If you were not expecting this email, you can safely ignore it.
`

const passwordResetText = `Reset Your Password

Hi {{if .FullName}}{{.FullName}}{{else}}there{{end}},

We received a request to reset the password for your WRF Cloud account.
Visit this link to choose a new password:

{{.ResetURL}}

This link will expire in {{.ExpiryHours}} hour(s). If you didn't request a
password reset, you can safely ignore this email.
`

var (
	welcomeTmpl       = template.Must(template.New("welcome").Parse(welcomeText))
	passwordResetTmpl = template.Must(template.New("password_reset").Parse(passwordResetText))
)

type WelcomeContext struct {
	FullName      string
	ActivationURL string
}

type PasswordResetContext struct {
	FullName    string
	ResetURL    string
	ExpiryHours int
}

func Welcome(ctx WelcomeContext) (subject, text string, err error) {
	var buf bytes.Buffer
	if err := welcomeTmpl.Execute(&buf, ctx); err != nil {
		return "", "", fmt.Errorf("failed to render welcome email: %w", err)
	}
	return "Welcome to WRF Cloud", buf.String(), nil
}

func PasswordReset(ctx PasswordResetContext) (subject, text string, err error) {
	if ctx.ExpiryHours <= 0 {
		ctx.ExpiryHours = 1
	}
	var buf bytes.Buffer
	if err := passwordResetTmpl.Execute(&buf, ctx); err != nil {
		return "", "", fmt.Errorf("failed to render password reset email: %w", err)
	}
	return "Reset your WRF Cloud password", buf.String(), nil
}
