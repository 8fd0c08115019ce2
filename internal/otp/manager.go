// Package otp issues and verifies one-time passcodes for signup and login.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/sportmate/internal/model"
	appErr "github.com/xxxsen/sportmate/internal/pkg/errors"
	"github.com/xxxsen/sportmate/internal/pkg/password"
)

const (
	DefaultTTL         = 5 * time.Minute
	DefaultMaxAttempts = 3
	DefaultCodeLength  = 6
)

type Config struct {
	TTL         time.Duration
	MaxAttempts int
	CodeLength  int
}

type Manager struct {
	store       Store
	sender      Sender
	ttl         time.Duration
	maxAttempts int
	codeLength  int
	now         func() time.Time
	generate    func(length int) (string, error)
}

func NewManager(store Store, sender Sender, cfg Config) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = DefaultCodeLength
	}
	return &Manager{
		store:       store,
		sender:      sender,
		ttl:         cfg.TTL,
		maxAttempts: cfg.MaxAttempts,
		codeLength:  cfg.CodeLength,
		now:         time.Now,
		generate:    generateCode,
	}
}

// Issue creates a fresh code for email, replacing any live code the email
// already has, and hands it to the sender. Delivery is best effort: a send
// failure is logged and Issue still succeeds.
func (m *Manager) Issue(ctx context.Context, email string, purpose model.OTPPurpose) error {
	email = normalizeEmail(email)
	if email == "" || !purpose.Valid() {
		return appErr.ErrInvalid
	}
	code, err := m.generate(m.codeLength)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	hash, err := password.Hash(code)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}
	now := m.now()
	item := &model.OTP{
		ID:        uuid.NewString(),
		Email:     email,
		CodeHash:  hash,
		Purpose:   purpose,
		ExpiresAt: now.Add(m.ttl).Unix(),
		Attempts:  0,
		Ctime:     now.Unix(),
	}
	if err := m.store.Replace(ctx, item); err != nil {
		return fmt.Errorf("store code: %w", err)
	}
	if m.sender == nil {
		return nil
	}
	if err := m.sender.SendCode(ctx, email, code, purpose); err != nil {
		logutil.GetLogger(ctx).Warn("send otp failed, code stays valid",
			zap.String("email", email),
			zap.String("purpose", string(purpose)),
			zap.Error(err),
		)
	}
	return nil
}

// Verify checks code against the live record for (email, purpose).
//
// It returns nil on a match and consumes the record. Failures are
// ErrOTPNotFound, ErrOTPExpired, ErrOTPTooManyAttempts or ErrOTPInvalidCode;
// only ErrOTPInvalidCode leaves the record in place for another try.
func (m *Manager) Verify(ctx context.Context, email string, purpose model.OTPPurpose, code string) error {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" || !purpose.Valid() {
		return appErr.ErrInvalid
	}
	item, err := m.store.Get(ctx, email, purpose)
	if err != nil {
		if errors.Is(err, appErr.ErrNotFound) {
			return appErr.ErrOTPNotFound
		}
		return err
	}
	// expires_at is floored to the second; compare at full clock precision
	// so a code is never accepted past issue time + ttl.
	if m.now().After(time.Unix(item.ExpiresAt, 0)) {
		m.discard(ctx, item)
		return appErr.ErrOTPExpired
	}
	if item.Attempts >= m.maxAttempts {
		m.discard(ctx, item)
		return appErr.ErrOTPTooManyAttempts
	}
	if err := password.Compare(item.CodeHash, code); err != nil {
		attempts, incErr := m.store.IncrementAttempts(ctx, item.ID)
		if incErr != nil {
			if errors.Is(incErr, appErr.ErrNotFound) {
				return appErr.ErrOTPNotFound
			}
			return incErr
		}
		if attempts >= m.maxAttempts {
			m.discard(ctx, item)
			return appErr.ErrOTPTooManyAttempts
		}
		return appErr.ErrOTPInvalidCode
	}
	if err := m.store.Delete(ctx, item.ID); err != nil {
		if errors.Is(err, appErr.ErrNotFound) {
			// consumed by a concurrent verify
			return appErr.ErrOTPNotFound
		}
		return err
	}
	return nil
}

// Purge removes every record that expired before now.
func (m *Manager) Purge(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx, m.now().Unix())
}

func (m *Manager) discard(ctx context.Context, item *model.OTP) {
	if err := m.store.Delete(ctx, item.ID); err != nil && !errors.Is(err, appErr.ErrNotFound) {
		logutil.GetLogger(ctx).Error("delete otp failed", zap.String("email", item.Email), zap.Error(err))
	}
}

func generateCode(length int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
