package routes

const (
	// Health
	Health = "/health"

	// Auth (base)
	AuthBase    = "/auth/v1"
	AuthLogin   = "/auth/v1/login"
	AuthRefresh = "/auth/v1/refresh"
	AuthMe      = "/auth/v1/me"
	AuthLogout  = "/auth/v1/logout"

	// Password reset
	PasswordForgot = "/auth/v1/password/forgot"
	PasswordReset  = "/auth/v1/password/reset"

	// Admin
	AdminTokenCleanup      = "/auth/v1/admin/tokens/cleanup"
	AdminUserPasswordReset = "/auth/v1/admin/users/{id}/password-reset"
)
