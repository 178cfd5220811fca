package actions

import (
	"log"

	"wrfcloud/internal/api"
	"wrfcloud/internal/auth"
	"wrfcloud/internal/domain/user"
	"wrfcloud/pkg/password"
	"wrfcloud/pkg/validator"
)

// Login exchanges an email/password pair for a session token pair.
type Login struct {
	api.ActionBase
	deps *Deps
}

func (a *Login) RequiredFields() []string { return []string{"email", "password"} }

func (a *Login) Perform(rc *api.Context) bool {
	email, _ := api.StringField(rc.Request.Data, "email")
	plaintext, _ := api.StringField(rc.Request.Data, "password")
	email = user.NormalizeEmail(email)

	u, err := a.deps.Users.Get(rc.Ctx, email)
	if err != nil {
		// Run bcrypt against a dummy hash so an unknown email takes as
		// long as a wrong password. Without this the response time leaks
		// whether the address exists.
		password.Verify(plaintext, password.DummyHash)
		return a.Fail(msgInvalidCredentials)
	}

	if !password.Verify(plaintext, u.PasswordHash) {
		return a.Fail(msgInvalidCredentials)
	}

	if !u.Active {
		return a.Fail(msgInvalidCredentials)
	}

	pair, err := a.deps.Tokens.Issue(u.Email, u.RoleID)
	if err != nil {
		log.Printf("[%s] failed to issue tokens for %s: %v", rc.RefID, u.Email, err)
		return false
	}

	a.SetResponse(map[string]any{
		"jwt":     pair.JWT,
		"refresh": pair.Refresh,
		"user":    u.Sanitized(),
	})
	return true
}

// RefreshToken exchanges a valid refresh token for a fresh token pair. The
// identity comes from the refresh token itself, so the action is reachable
// anonymously; the user record is re-checked so a deactivated account
// cannot keep renewing its session.
type RefreshToken struct {
	api.ActionBase
	deps *Deps
}

func (a *RefreshToken) RequiredFields() []string { return []string{"refresh"} }

func (a *RefreshToken) Perform(rc *api.Context) bool {
	refresh, _ := api.StringField(rc.Request.Data, "refresh")

	claims, ok := a.deps.Tokens.ValidateUse(refresh, auth.TokenUseRefresh)
	if !ok {
		return a.Fail(api.MsgNotLoggedIn)
	}

	u, err := a.deps.Users.Get(rc.Ctx, claims.Email())
	if err != nil || !u.Active {
		return a.Fail(api.MsgNotLoggedIn)
	}

	pair, err := a.deps.Tokens.Issue(u.Email, u.RoleID)
	if err != nil {
		log.Printf("[%s] failed to refresh tokens for %s: %v", rc.RefID, u.Email, err)
		return false
	}

	a.SetResponse(map[string]any{
		"jwt":     pair.JWT,
		"refresh": pair.Refresh,
	})
	return true
}

// ValidateToken echoes the verified claims of the presented token. A pure
// read: identical requests produce identical payloads.
type ValidateToken struct {
	api.ActionBase
}

func (a *ValidateToken) RequiredFields() []string { return nil }

func (a *ValidateToken) Perform(rc *api.Context) bool {
	a.SetResponse(map[string]any{
		"email":   rc.Claims.Email(),
		"role_id": rc.Claims.Role,
		"expires": rc.Claims.ExpiresAt.Unix(),
	})
	return true
}

// WhoAmI returns the calling user's sanitized record.
type WhoAmI struct {
	api.ActionBase
	deps *Deps
}

func (a *WhoAmI) RequiredFields() []string { return nil }

func (a *WhoAmI) Perform(rc *api.Context) bool {
	u, err := a.deps.Users.Get(rc.Ctx, rc.Email())
	if err != nil {
		return a.Fail(msgUserNotFound)
	}
	a.SetResponse(map[string]any{"user": u.Sanitized()})
	return true
}

// ChangePassword verifies the current password and applies a new one.
type ChangePassword struct {
	api.ActionBase
	deps *Deps
}

func (a *ChangePassword) RequiredFields() []string {
	return []string{"password0", "password1", "password2"}
}

func (a *ChangePassword) Perform(rc *api.Context) bool {
	current, _ := api.StringField(rc.Request.Data, "password0")
	next, _ := api.StringField(rc.Request.Data, "password1")
	confirm, _ := api.StringField(rc.Request.Data, "password2")

	u, err := a.deps.Users.Get(rc.Ctx, rc.Email())
	if err != nil {
		return a.Fail(msgUserNotFound)
	}

	if !password.Verify(current, u.PasswordHash) {
		return a.Fail(msgCurrentPasswordWrong)
	}

	if next != confirm {
		return a.Fail(msgPasswordsDoNotMatch)
	}

	if err := validator.Password(next); err != nil {
		return a.Fail(err.Error())
	}

	hash, err := password.Hash(next)
	if err != nil {
		log.Printf("[%s] failed to hash password for %s: %v", rc.RefID, u.Email, err)
		return false
	}

	u.PasswordHash = hash
	if err := a.deps.Users.Update(rc.Ctx, u); err != nil {
		log.Printf("[%s] failed to update password for %s: %v", rc.RefID, u.Email, err)
		return false
	}

	a.SetResponse(map[string]any{"message": msgPasswordUpdated})
	return true
}
