package mailer

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/sportmate/internal/model"
)

// logSender writes codes to the log instead of mailing them. It is the
// fallback when no mail provider is configured.
type logSender struct{}

func init() {
	Register("log", func(interface{}, time.Duration) (Sender, error) {
		return NewLogSender(), nil
	})
}

func NewLogSender() Sender {
	return logSender{}
}

func (logSender) SendCode(ctx context.Context, email, code string, purpose model.OTPPurpose) error {
	logutil.GetLogger(ctx).Info("mail provider not configured, otp logged",
		zap.String("email", email),
		zap.String("purpose", string(purpose)),
		zap.String("code", code),
	)
	return nil
}
