package errors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalid      = errors.New("invalid")
	ErrConflict     = errors.New("conflict")
	ErrTooMany      = errors.New("too many requests")
	ErrInternal     = errors.New("internal")
	ErrNotVerified  = errors.New("email not verified")

	ErrOTPNotFound        = errors.New("otp not found")
	ErrOTPExpired         = errors.New("otp expired")
	ErrOTPTooManyAttempts = errors.New("otp too many attempts")
	ErrOTPInvalidCode     = errors.New("otp invalid code")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsOTPTerminal reports whether err ends the lifecycle of a one-time passcode.
func IsOTPTerminal(err error) bool {
	return errors.Is(err, ErrOTPExpired) || errors.Is(err, ErrOTPTooManyAttempts)
}
