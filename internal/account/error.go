package account

import "errors"

var (
	// -- Registration / verification --
	ErrEmailExists   = errors.New("email already registered")
	ErrEmailDelivery = errors.New("failed to send verification email")
	ErrInvalidOTP    = errors.New("invalid OTP")
	ErrOTPExpired    = errors.New("OTP has expired")
	ErrNotVerified   = errors.New("please verify your email")

	// -- Authentication --
	ErrInvalidCredentials = errors.New("invalid email or password")

	// -- Lookup --
	ErrAccountNotFound = errors.New("account not found")

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)
