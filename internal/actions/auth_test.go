package actions

import (
	"context"
	"testing"

	"wrfcloud/internal/api"
	"wrfcloud/internal/auth"
	"wrfcloud/internal/domain/user"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		seed     func(f *fixture)
		email    string
		password string
		ok       bool
	}{
		{
			name:     "valid credentials",
			seed:     func(f *fixture) { f.addUser(t, testEmail, user.RoleRegular, true) },
			email:    testEmail,
			password: testPassword,
			ok:       true,
		},
		{
			name:     "uppercase email is normalized",
			seed:     func(f *fixture) { f.addUser(t, testEmail, user.RoleRegular, true) },
			email:    "Forecaster@Example.COM",
			password: testPassword,
			ok:       true,
		},
		{
			name:     "wrong password",
			seed:     func(f *fixture) { f.addUser(t, testEmail, user.RoleRegular, true) },
			email:    testEmail,
			password: "not-the-password",
			ok:       false,
		},
		{
			name:     "unknown email",
			seed:     func(f *fixture) {},
			email:    "nobody@example.com",
			password: testPassword,
			ok:       false,
		},
		{
			name:     "inactive account",
			seed:     func(f *fixture) { f.addUser(t, testEmail, user.RoleRegular, false) },
			email:    testEmail,
			password: testPassword,
			ok:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.seed(f)

			action := &Login{deps: f.deps}
			ok := action.Perform(rc("", "", map[string]any{
				"email":    tt.email,
				"password": tt.password,
			}))

			if ok != tt.ok {
				t.Fatalf("Perform = %v, expected %v (errors: %v)", ok, tt.ok, action.Errors())
			}

			if !tt.ok {
				// Every failure mode reports the same message so callers
				// cannot tell a bad password from a missing account.
				if len(action.Errors()) != 1 || action.Errors()[0] != msgInvalidCredentials {
					t.Errorf("expected only %q, got %v", msgInvalidCredentials, action.Errors())
				}
				return
			}

			data := action.Response()
			jwt, _ := data["jwt"].(string)
			if _, valid := f.tokens.Validate(jwt); !valid {
				t.Error("issued access token does not validate")
			}
			refresh, _ := data["refresh"].(string)
			if _, valid := f.tokens.ValidateUse(refresh, auth.TokenUseRefresh); !valid {
				t.Error("issued refresh token does not validate")
			}
			userData, _ := data["user"].(map[string]any)
			if userData["email"] != testEmail {
				t.Errorf("expected sanitized user in response, got %v", data["user"])
			}
			if _, leaked := userData["password_hash"]; leaked {
				t.Error("password hash must never appear in a response")
			}
		})
	}
}

func TestRefreshToken(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, testEmail, user.RoleRegular, true)

	pair, err := f.tokens.Issue(testEmail, user.RoleRegular)
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}

	action := &RefreshToken{deps: f.deps}
	if !action.Perform(rc("", "", map[string]any{"refresh": pair.Refresh})) {
		t.Fatalf("refresh failed: %v", action.Errors())
	}

	jwt, _ := action.Response()["jwt"].(string)
	claims, valid := f.tokens.Validate(jwt)
	if !valid || claims.Email() != testEmail {
		t.Error("refreshed access token does not validate for the same identity")
	}
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, testEmail, user.RoleRegular, true)

	pair, err := f.tokens.Issue(testEmail, user.RoleRegular)
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}

	action := &RefreshToken{deps: f.deps}
	if action.Perform(rc("", "", map[string]any{"refresh": pair.JWT})) {
		t.Fatal("an access token must not be accepted as a refresh token")
	}
}

func TestRefreshTokenRejectsDeactivatedUser(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, testEmail, user.RoleRegular, true)

	pair, err := f.tokens.Issue(testEmail, user.RoleRegular)
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}

	u.Active = false
	if err := f.users.Update(context.Background(), u); err != nil {
		t.Fatalf("failed to deactivate user: %v", err)
	}

	action := &RefreshToken{deps: f.deps}
	if action.Perform(rc("", "", map[string]any{"refresh": pair.Refresh})) {
		t.Fatal("a deactivated account must not be able to refresh its session")
	}
}

func TestValidateTokenEchoesClaims(t *testing.T) {
	f := newFixture(t)

	pair, err := f.tokens.Issue(testEmail, user.RoleRegular)
	if err != nil {
		t.Fatalf("failed to issue tokens: %v", err)
	}
	claims, valid := f.tokens.Validate(pair.JWT)
	if !valid {
		t.Fatal("token failed validation")
	}

	ctx := rc(testEmail, user.RoleRegular, map[string]any{})
	ctx.Claims = claims

	action := &ValidateToken{}
	if !action.Perform(ctx) {
		t.Fatalf("validate failed: %v", action.Errors())
	}

	data := action.Response()
	if data["email"] != testEmail || data["role_id"] != user.RoleRegular {
		t.Errorf("unexpected claims echo: %v", data)
	}
	if _, ok := data["expires"].(int64); !ok {
		t.Errorf("expected unix expiry, got %T", data["expires"])
	}
}

func TestWhoAmI(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, testEmail, user.RoleReadonly, true)

	action := &WhoAmI{deps: f.deps}
	if !action.Perform(rc(testEmail, user.RoleReadonly, map[string]any{})) {
		t.Fatalf("whoami failed: %v", action.Errors())
	}

	userData, _ := action.Response()["user"].(map[string]any)
	if userData["email"] != testEmail || userData["role_id"] != user.RoleReadonly {
		t.Errorf("unexpected user payload: %v", userData)
	}
}

func TestChangePassword(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		confirm string
		ok      bool
		wantMsg string
	}{
		{"valid change", testPassword, "a-new-longer-password", "a-new-longer-password", true, ""},
		{"wrong current password", "nope", "a-new-longer-password", "a-new-longer-password", false, msgCurrentPasswordWrong},
		{"mismatched confirmation", testPassword, "a-new-longer-password", "different-password", false, msgPasswordsDoNotMatch},
		{"too short", testPassword, "short", "short", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.addUser(t, testEmail, user.RoleRegular, true)

			action := &ChangePassword{deps: f.deps}
			ok := action.Perform(rc(testEmail, user.RoleRegular, map[string]any{
				"password0": tt.current,
				"password1": tt.next,
				"password2": tt.confirm,
			}))

			if ok != tt.ok {
				t.Fatalf("Perform = %v, expected %v (errors: %v)", ok, tt.ok, action.Errors())
			}
			if tt.wantMsg != "" && (len(action.Errors()) == 0 || action.Errors()[0] != tt.wantMsg) {
				t.Errorf("expected %q, got %v", tt.wantMsg, action.Errors())
			}

			if tt.ok {
				login := &Login{deps: f.deps}
				if !login.Perform(rc("", "", map[string]any{"email": testEmail, "password": tt.next})) {
					t.Error("login with the new password failed")
				}
			}
		})
	}
}

var _ api.Action = (*Login)(nil)
