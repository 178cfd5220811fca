package actions

import (
	"crypto/subtle"
	"fmt"
	"log"
	"net/url"
	"time"

	"wrfcloud/internal/api"
	"wrfcloud/internal/auth"
	"wrfcloud/internal/domain/user"
	"wrfcloud/pkg/mailer/providers"
	"wrfcloud/pkg/mailer/templates"
	"wrfcloud/pkg/password"
	"wrfcloud/pkg/validator"
)

const resetTokenTTL = time.Hour

// RequestPasswordRecoveryToken emails a short-lived reset link. The
// response is identical whether or not the address exists.
type RequestPasswordRecoveryToken struct {
	api.ActionBase
	deps *Deps
}

func (a *RequestPasswordRecoveryToken) RequiredFields() []string { return []string{"email"} }

func (a *RequestPasswordRecoveryToken) Perform(rc *api.Context) bool {
	email, _ := api.StringField(rc.Request.Data, "email")
	email = user.NormalizeEmail(email)

	a.SetResponse(map[string]any{"message": msgRecoveryEmailSent})

	u, err := a.deps.Users.Get(rc.Ctx, email)
	if err != nil || !u.Active {
		return true
	}

	token, err := a.deps.Tokens.IssueResetToken(u.Email, resetTokenTTL)
	if err != nil {
		log.Printf("[%s] failed to issue reset token for %s: %v", rc.RefID, u.Email, err)
		return true
	}

	resetURL := fmt.Sprintf("%s/reset-password?email=%s&token=%s",
		a.deps.AppURL, url.QueryEscape(u.Email), url.QueryEscape(token))

	subject, text, err := templates.PasswordReset(templates.PasswordResetContext{
		FullName:    u.FullName,
		ResetURL:    resetURL,
		ExpiryHours: int(resetTokenTTL.Hours()),
	})
	if err != nil {
		log.Printf("[%s] failed to render reset email for %s: %v", rc.RefID, u.Email, err)
		return true
	}

	if _, err := a.deps.Mail.Send(&providers.EmailData{
		To:      []string{u.Email},
		Subject: subject,
		Text:    text,
	}); err != nil {
		log.Printf("[%s] failed to send reset email to %s: %v", rc.RefID, u.Email, err)
	}

	return true
}

// ResetPassword applies a recovery token minted by the action above.
type ResetPassword struct {
	api.ActionBase
	deps *Deps
}

func (a *ResetPassword) RequiredFields() []string {
	return []string{"email", "reset_token", "new_password"}
}

func (a *ResetPassword) Perform(rc *api.Context) bool {
	email, _ := api.StringField(rc.Request.Data, "email")
	token, _ := api.StringField(rc.Request.Data, "reset_token")
	next, _ := api.StringField(rc.Request.Data, "new_password")
	email = user.NormalizeEmail(email)

	claims, ok := a.deps.Tokens.ValidateUse(token, auth.TokenUseReset)
	if !ok || claims.Email() != email {
		return a.Fail(msgResetTokenInvalid)
	}

	if err := validator.Password(next); err != nil {
		return a.Fail(err.Error())
	}

	u, err := a.deps.Users.Get(rc.Ctx, email)
	if err != nil {
		return a.Fail(msgResetTokenInvalid)
	}

	hash, err := password.Hash(next)
	if err != nil {
		log.Printf("[%s] failed to hash password for %s: %v", rc.RefID, email, err)
		return false
	}

	u.PasswordHash = hash
	if err := a.deps.Users.Update(rc.Ctx, u); err != nil {
		log.Printf("[%s] failed to update password for %s: %v", rc.RefID, email, err)
		return false
	}

	a.SetResponse(map[string]any{"message": msgPasswordUpdated})
	return true
}

// ActivateUser turns an inactive account active, given the activation key
// from the welcome email and a first password.
type ActivateUser struct {
	api.ActionBase
	deps *Deps
}

func (a *ActivateUser) RequiredFields() []string {
	return []string{"email", "activation_key", "new_password"}
}

func (a *ActivateUser) Perform(rc *api.Context) bool {
	email, _ := api.StringField(rc.Request.Data, "email")
	key, _ := api.StringField(rc.Request.Data, "activation_key")
	next, _ := api.StringField(rc.Request.Data, "new_password")
	email = user.NormalizeEmail(email)

	u, err := a.deps.Users.Get(rc.Ctx, email)
	if err != nil {
		return a.Fail(msgActivationFailed)
	}

	if u.Active || u.ActivationKey == "" ||
		subtle.ConstantTimeCompare([]byte(u.ActivationKey), []byte(key)) != 1 {
		return a.Fail(msgActivationFailed)
	}

	if err := validator.Password(next); err != nil {
		return a.Fail(err.Error())
	}

	hash, err := password.Hash(next)
	if err != nil {
		log.Printf("[%s] failed to hash password for %s: %v", rc.RefID, email, err)
		return false
	}

	u.PasswordHash = hash
	u.Active = true
	u.ActivationKey = ""
	if err := a.deps.Users.Update(rc.Ctx, u); err != nil {
		log.Printf("[%s] failed to activate user %s: %v", rc.RefID, email, err)
		return false
	}

	a.SetResponse(map[string]any{"user": u.Sanitized()})
	return true
}
