package otp

import (
	"context"

	"github.com/xxxsen/sportmate/internal/model"
)

// Store persists one-time passcodes. Implementations keep at most one record
// per email: Replace swaps out whatever the email held, for any purpose, in a
// single atomic step.
type Store interface {
	Replace(ctx context.Context, code *model.OTP) error
	// Get returns appErr.ErrNotFound when no record exists for (email, purpose).
	Get(ctx context.Context, email string, purpose model.OTPPurpose) (*model.OTP, error)
	Delete(ctx context.Context, id string) error
	// IncrementAttempts bumps the counter and returns the new value.
	IncrementAttempts(ctx context.Context, id string) (int, error)
	DeleteExpired(ctx context.Context, before int64) (int64, error)
}

// Sender delivers a plain code to its owner.
type Sender interface {
	SendCode(ctx context.Context, email, code string, purpose model.OTPPurpose) error
}
