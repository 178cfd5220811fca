package actions

// User-facing messages. Everything here is safe to show a caller; internal
// failure detail stays in the server log.
const (
	msgInvalidCredentials    = "Invalid credentials"
	msgCurrentPasswordWrong  = "Current password is incorrect"
	msgPasswordsDoNotMatch   = "New passwords do not match"
	msgRecoveryEmailSent     = "If the account exists, a recovery email has been sent"
	msgResetTokenInvalid     = "Password reset link is invalid or expired"
	msgActivationFailed      = "Account activation failed"
	msgPasswordUpdated       = "Password updated"
	msgEmailInUse            = "Email already in use"
	msgUserNotFound          = "User not found"
	msgCannotDeleteSelf      = "You cannot delete your own account"
	msgJobNotFound           = "Job not found"
	msgJobAlreadyFinished    = "Job already finished"
	msgJobStillActive        = "Job is still active; cancel it first"
	msgJobNotFinished        = "Job has not finished"
	msgForecastDataNotFound  = "Forecast data not found"
	msgUnknownConfiguration  = "Unknown model configuration"
	msgConfigurationInUse    = "Configuration name already in use"
	msgConfigurationNotFound = "Model configuration not found"
	msgWebSocketRequired     = "This action requires a WebSocket connection"
)
