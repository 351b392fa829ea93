package admin

import "errors"

// Repository-level errors
var (
	ErrUserNotFound  = errors.New("admin user not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrOTPNotFound   = errors.New("no one-time code issued")
)

// Login flow errors
var (
	// Step one
	ErrInvalidCredentials         = errors.New("invalid username or password")
	ErrMissingContactEmail        = errors.New("admin account has no email address for the login code")
	ErrNotificationDeliveryFailed = errors.New("could not deliver the login code")

	// Step two
	ErrSessionExpired       = errors.New("login session expired, please sign in again")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
)
