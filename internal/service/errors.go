package service

import "errors"

// Sentinel errors the controllers map to HTTP status codes.
var (
	// ErrInvalidCredentials covers unknown email, wrong password and
	// password-less OAuth accounts alike so login failures stay generic.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrRoleMismatch is returned when a user logs in through a portal
	// that does not match their role.
	ErrRoleMismatch = errors.New("access denied for this portal")

	// ErrAdminPending is returned for admin accounts awaiting approval.
	ErrAdminPending = errors.New("admin account pending approval")

	ErrEmailTaken       = errors.New("email already registered")
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrInvalidProvider  = errors.New("unsupported oauth provider")
	ErrInvalidState     = errors.New("invalid oauth state")
)
