package services

import "errors"

// Typed failures returned by the auth services. Handlers translate these to
// HTTP statuses; the services themselves never pick a status code.
var (
	ErrValidation       = errors.New("validation failed")
	ErrDuplicateAccount = errors.New("account already exists")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email not verified")

	ErrInvalidOrExpiredToken = errors.New("invalid or expired verification token")

	ErrNoOutstandingRequest = errors.New("no outstanding reset request")
	ErrInvalidOTP           = errors.New("invalid otp")
	ErrExpiredOTP           = errors.New("otp expired")

	ErrNotificationDelivery = errors.New("notification delivery failed")

	ErrInvalidSession = errors.New("invalid session token")
	ErrExpiredSession = errors.New("session token expired")
)
