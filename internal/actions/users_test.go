package actions

import (
	"context"
	"strings"
	"testing"

	"wrfcloud/internal/domain/user"
)

func TestCreateUser(t *testing.T) {
	f := newFixture(t)

	action := &CreateUser{deps: f.deps}
	ok := action.Perform(rc(testAdminEmail, user.RoleAdmin, map[string]any{
		"user": map[string]any{
			"email":     "New.Person@Example.com",
			"full_name": "New Person",
			"role_id":   user.RoleRegular,
		},
	}))
	if !ok {
		t.Fatalf("create failed: %v", action.Errors())
	}

	stored, err := f.users.Get(context.Background(), "new.person@example.com")
	if err != nil {
		t.Fatalf("stored user not found: %v", err)
	}
	if stored.Active {
		t.Error("new users must start inactive")
	}
	if stored.ActivationKey == "" {
		t.Error("new users must get an activation key")
	}

	if len(f.mail.sent) != 1 {
		t.Fatalf("expected one welcome email, got %d", len(f.mail.sent))
	}
	sent := f.mail.sent[0]
	if sent.To[0] != "new.person@example.com" {
		t.Errorf("welcome email sent to %v", sent.To)
	}
	if !strings.Contains(sent.Text, testAppURL+"/activate?") {
		t.Errorf("welcome email missing activation link: %q", sent.Text)
	}
	if !strings.Contains(sent.Text, stored.ActivationKey) {
		t.Error("welcome email missing the activation key")
	}
}

func TestCreateUserRejections(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		wantMsg string
	}{
		{
			name:    "invalid email",
			payload: map[string]any{"email": "not-an-email", "role_id": user.RoleRegular},
		},
		{
			name:    "unknown role",
			payload: map[string]any{"email": "a@example.com", "role_id": "superuser"},
		},
		{
			name:    "anonymous role not assignable",
			payload: map[string]any{"email": "a@example.com", "role_id": user.RoleAnonymous},
		},
		{
			name:    "duplicate email",
			payload: map[string]any{"email": testEmail, "role_id": user.RoleRegular},
			wantMsg: msgEmailInUse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.addUser(t, testEmail, user.RoleRegular, true)

			action := &CreateUser{deps: f.deps}
			if action.Perform(rc(testAdminEmail, user.RoleAdmin, map[string]any{"user": tt.payload})) {
				t.Fatal("expected rejection")
			}
			if tt.wantMsg != "" && action.Errors()[0] != tt.wantMsg {
				t.Errorf("expected %q, got %v", tt.wantMsg, action.Errors())
			}
			if len(f.mail.sent) != 0 {
				t.Error("no email should be sent on a rejected create")
			}
		})
	}
}

func TestActivateUser(t *testing.T) {
	f := newFixture(t)

	create := &CreateUser{deps: f.deps}
	if !create.Perform(rc(testAdminEmail, user.RoleAdmin, map[string]any{
		"user": map[string]any{"email": testEmail, "full_name": "Test User", "role_id": user.RoleRegular},
	})) {
		t.Fatalf("create failed: %v", create.Errors())
	}
	stored, err := f.users.Get(context.Background(), testEmail)
	if err != nil {
		t.Fatalf("stored user not found: %v", err)
	}

	activate := &ActivateUser{deps: f.deps}
	ok := activate.Perform(rc("", "", map[string]any{
		"email":          testEmail,
		"activation_key": stored.ActivationKey,
		"new_password":   testPassword,
	}))
	if !ok {
		t.Fatalf("activation failed: %v", activate.Errors())
	}

	activated, err := f.users.Get(context.Background(), testEmail)
	if err != nil {
		t.Fatalf("activated user not found: %v", err)
	}
	if !activated.Active || activated.ActivationKey != "" {
		t.Error("activation must set active and clear the key")
	}

	login := &Login{deps: f.deps}
	if !login.Perform(rc("", "", map[string]any{"email": testEmail, "password": testPassword})) {
		t.Errorf("login after activation failed: %v", login.Errors())
	}

	// The key is single-use.
	again := &ActivateUser{deps: f.deps}
	if again.Perform(rc("", "", map[string]any{
		"email":          testEmail,
		"activation_key": stored.ActivationKey,
		"new_password":   testPassword,
	})) {
		t.Error("activation key must not be reusable")
	}
}

func TestActivateUserWrongKey(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, testEmail, user.RoleRegular, false)
	u.ActivationKey = "real-key"
	if err := f.users.Update(context.Background(), u); err != nil {
		t.Fatalf("failed to set activation key: %v", err)
	}

	action := &ActivateUser{deps: f.deps}
	if action.Perform(rc("", "", map[string]any{
		"email":          testEmail,
		"activation_key": "wrong-key",
		"new_password":   testPassword,
	})) {
		t.Fatal("expected activation to fail with a wrong key")
	}
	if action.Errors()[0] != msgActivationFailed {
		t.Errorf("expected %q, got %v", msgActivationFailed, action.Errors())
	}
}

func TestListUsersSanitizes(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, testEmail, user.RoleRegular, true)
	f.addUser(t, testAdminEmail, user.RoleAdmin, true)

	action := &ListUsers{deps: f.deps}
	if !action.Perform(rc(testAdminEmail, user.RoleAdmin, map[string]any{})) {
		t.Fatalf("list failed: %v", action.Errors())
	}

	users, _ := action.Response()["users"].([]map[string]any)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, u := range users {
		if _, leaked := u["password_hash"]; leaked {
			t.Error("password hash must never appear in a listing")
		}
	}
}

func TestUpdateUser(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, testEmail, user.RoleRegular, true)

	active := false
	action := &UpdateUser{deps: f.deps}
	ok := action.Perform(rc(testAdminEmail, user.RoleAdmin, map[string]any{
		"user": map[string]any{
			"email":     testEmail,
			"full_name": "Renamed User",
			"role_id":   user.RoleReadonly,
			"active":    active,
		},
	}))
	if !ok {
		t.Fatalf("update failed: %v", action.Errors())
	}

	stored, err := f.users.Get(context.Background(), testEmail)
	if err != nil {
		t.Fatalf("stored user not found: %v", err)
	}
	if stored.FullName != "Renamed User" || stored.RoleID != user.RoleReadonly || stored.Active {
		t.Errorf("update not applied: %+v", stored)
	}
}

func TestUpdateUserUnknown(t *testing.T) {
	f := newFixture(t)

	action := &UpdateUser{deps: f.deps}
	if action.Perform(rc(testAdminEmail, user.RoleAdmin, map[string]any{
		"user": map[string]any{"email": "ghost@example.com", "full_name": "Ghost"},
	})) {
		t.Fatal("expected update of unknown user to fail")
	}
	if action.Errors()[0] != msgUserNotFound {
		t.Errorf("expected %q, got %v", msgUserNotFound, action.Errors())
	}
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, testEmail, user.RoleRegular, true)
	f.addUser(t, testAdminEmail, user.RoleAdmin, true)

	action := &DeleteUser{deps: f.deps}
	if !action.Perform(rc(testAdminEmail, user.RoleAdmin, map[string]any{"email": testEmail})) {
		t.Fatalf("delete failed: %v", action.Errors())
	}

	if _, err := f.users.Get(context.Background(), testEmail); err == nil {
		t.Error("deleted user still present")
	}
}

func TestDeleteUserRefusesSelf(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, testAdminEmail, user.RoleAdmin, true)

	action := &DeleteUser{deps: f.deps}
	if action.Perform(rc(testAdminEmail, user.RoleAdmin, map[string]any{"email": testAdminEmail})) {
		t.Fatal("expected self-deletion to be refused")
	}
	if action.Errors()[0] != msgCannotDeleteSelf {
		t.Errorf("expected %q, got %v", msgCannotDeleteSelf, action.Errors())
	}
	if _, err := f.users.Get(context.Background(), testAdminEmail); err != nil {
		t.Error("account should still exist after refused self-deletion")
	}
}
