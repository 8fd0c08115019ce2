// Package mailer delivers one-time passcodes. Senders are picked by the
// mail.type config key and built from mail.data.
package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/xxxsen/sportmate/internal/config"
	"github.com/xxxsen/sportmate/internal/model"
)

type Sender interface {
	SendCode(ctx context.Context, email, code string, purpose model.OTPPurpose) error
}

// Factory builds a sender from its config block. codeTTL is the lifetime
// stated in the message body.
type Factory func(args interface{}, codeTTL time.Duration) (Sender, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(cfg config.MailConfig, codeTTL time.Duration) (Sender, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Type))
	if key == "" {
		return nil, fmt.Errorf("mail.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported mail type: %s", cfg.Type)
	}
	return factory(cfg.Data, codeTTL)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("mail config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode mail config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode mail config: %w", err)
	}
	return nil
}

const (
	appName        = "Sports Teammate Finder"
	defaultCodeTTL = 5 * time.Minute
)

// message renders the subject and plain text body for a code.
func message(code string, purpose model.OTPPurpose, ttl time.Duration) (string, string) {
	subject := "Login OTP - " + appName
	greeting := "Welcome back!"
	reason := "login"
	if purpose == model.OTPPurposeSignup {
		subject = "Verify your email - " + appName
		greeting = "Welcome!"
		reason = "account verification"
	}
	body := fmt.Sprintf("%s\n\nYour one-time password for %s is: %s\n\nThis code is valid for %s.\n"+
		"If you didn't request this code, please ignore this email.\n", greeting, reason, code, lifetime(ttl))
	return subject, body
}

// lifetime renders ttl in whole minutes, rounded down. Below a minute it
// uses seconds.
func lifetime(ttl time.Duration) string {
	if ttl <= 0 {
		ttl = defaultCodeTTL
	}
	if ttl < time.Minute {
		return fmt.Sprintf("%d seconds", int(ttl/time.Second))
	}
	minutes := int(ttl / time.Minute)
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
