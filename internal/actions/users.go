package actions

import (
	"errors"
	"fmt"
	"log"
	"net/url"

	"github.com/google/uuid"

	"wrfcloud/internal/api"
	"wrfcloud/internal/domain/user"
	apperrors "wrfcloud/pkg/errors"
	"wrfcloud/pkg/mailer/providers"
	"wrfcloud/pkg/mailer/templates"
	"wrfcloud/pkg/validator"
)

// userPayload is the shape of the "user" payload field.
type userPayload struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	RoleID   string `json:"role_id"`
	Active   *bool  `json:"active,omitempty"`
}

// CreateUser stores an inactive user and emails an activation link.
type CreateUser struct {
	api.ActionBase
	deps *Deps
}

func (a *CreateUser) RequiredFields() []string { return []string{"user"} }

func (a *CreateUser) Perform(rc *api.Context) bool {
	var payload userPayload
	if !api.DecodeField(rc.Request.Data, "user", &payload) {
		return a.Fail("Invalid user payload")
	}

	email := user.NormalizeEmail(payload.Email)
	if err := validator.Email(email); err != nil {
		return a.Fail(err.Error())
	}
	if !user.ValidRole(payload.RoleID) {
		return a.Fail(fmt.Sprintf("Unknown role: %s", payload.RoleID))
	}

	u := &user.User{
		Email:         email,
		FullName:      payload.FullName,
		RoleID:        payload.RoleID,
		Active:        false,
		ActivationKey: uuid.NewString(),
	}

	if err := a.deps.Users.Create(rc.Ctx, u); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return a.Fail(msgEmailInUse)
		}
		log.Printf("[%s] failed to create user %s: %v", rc.RefID, email, err)
		return false
	}

	activationURL := fmt.Sprintf("%s/activate?email=%s&key=%s",
		a.deps.AppURL, url.QueryEscape(u.Email), url.QueryEscape(u.ActivationKey))

	subject, text, err := templates.Welcome(templates.WelcomeContext{
		FullName:      u.FullName,
		ActivationURL: activationURL,
	})
	if err != nil {
		log.Printf("[%s] failed to render welcome email for %s: %v", rc.RefID, u.Email, err)
	} else if _, err := a.deps.Mail.Send(&providers.EmailData{
		To:      []string{u.Email},
		Subject: subject,
		Text:    text,
	}); err != nil {
		log.Printf("[%s] failed to send welcome email to %s: %v", rc.RefID, u.Email, err)
	}

	a.SetResponse(map[string]any{"user": u.Sanitized()})
	return true
}

// ListUsers returns every user record, sanitized.
type ListUsers struct {
	api.ActionBase
	deps *Deps
}

func (a *ListUsers) RequiredFields() []string { return nil }

func (a *ListUsers) Perform(rc *api.Context) bool {
	users, err := a.deps.Users.List(rc.Ctx)
	if err != nil {
		log.Printf("[%s] failed to list users: %v", rc.RefID, err)
		return false
	}

	sanitized := make([]map[string]any, len(users))
	for i := range users {
		sanitized[i] = users[i].Sanitized()
	}
	a.SetResponse(map[string]any{"users": sanitized})
	return true
}

// UpdateUser applies the mutable fields of a user payload: full name,
// role and active flag. Email is the record key and cannot change.
type UpdateUser struct {
	api.ActionBase
	deps *Deps
}

func (a *UpdateUser) RequiredFields() []string { return []string{"user"} }

func (a *UpdateUser) Perform(rc *api.Context) bool {
	var payload userPayload
	if !api.DecodeField(rc.Request.Data, "user", &payload) {
		return a.Fail("Invalid user payload")
	}

	email := user.NormalizeEmail(payload.Email)
	u, err := a.deps.Users.Get(rc.Ctx, email)
	if err != nil {
		return a.Fail(msgUserNotFound)
	}

	if payload.FullName != "" {
		u.FullName = payload.FullName
	}
	if payload.RoleID != "" {
		if !user.ValidRole(payload.RoleID) {
			return a.Fail(fmt.Sprintf("Unknown role: %s", payload.RoleID))
		}
		u.RoleID = payload.RoleID
	}
	if payload.Active != nil {
		u.Active = *payload.Active
	}

	if err := a.deps.Users.Update(rc.Ctx, u); err != nil {
		log.Printf("[%s] failed to update user %s: %v", rc.RefID, email, err)
		return false
	}

	a.SetResponse(map[string]any{"user": u.Sanitized()})
	return true
}

// DeleteUser removes a user record. Deleting your own account is refused.
type DeleteUser struct {
	api.ActionBase
	deps *Deps
}

func (a *DeleteUser) RequiredFields() []string { return []string{"email"} }

func (a *DeleteUser) Perform(rc *api.Context) bool {
	email, _ := api.StringField(rc.Request.Data, "email")
	email = user.NormalizeEmail(email)

	if email == rc.Email() {
		return a.Fail(msgCannotDeleteSelf)
	}

	if _, err := a.deps.Users.Get(rc.Ctx, email); err != nil {
		return a.Fail(msgUserNotFound)
	}

	if err := a.deps.Users.Delete(rc.Ctx, email); err != nil {
		log.Printf("[%s] failed to delete user %s: %v", rc.RefID, email, err)
		return false
	}

	a.SetResponse(map[string]any{"email": email})
	return true
}
