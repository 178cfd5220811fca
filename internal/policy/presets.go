package policy

import "wrfcloud/internal/domain/user"

// Default returns the shipped role → action table.
//
// Every authenticated role may refresh its own session and change its own
// password; job inspection is open to all authenticated roles, while job
// submission needs "regular" and user/configuration administration needs
// "admin".
func Default() map[string][]string {
	readOps := []string{
		"ValidateToken",
		"WhoAmI",
		"ChangePassword",
		"RefreshToken",
		"ListJobs",
		"SubscribeJobs",
		"GetWrfMetaData",
		"GetWrfGeoJson",
		"ListModelConfigurations",
	}

	regularOps := append([]string{
		"RunWrf",
		"CancelJob",
		"DeleteJob",
	}, readOps...)

	adminOps := append([]string{
		"CreateUser",
		"ListUsers",
		"UpdateUser",
		"DeleteUser",
		"AddModelConfiguration",
		"UpdateModelConfiguration",
		"DeleteModelConfiguration",
	}, regularOps...)

	return map[string][]string{
		RoleAnonymous: {
			"Login",
			"RefreshToken",
			"RequestPasswordRecoveryToken",
			"ResetPassword",
			"ActivateUser",
		},
		user.RoleReadonly: readOps,
		user.RoleRegular:  regularOps,
		user.RoleAdmin:    adminOps,
	}
}
