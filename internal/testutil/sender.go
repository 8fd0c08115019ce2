package testutil

import (
	"context"
	"sync"

	"github.com/xxxsen/sportmate/internal/model"
)

type SentCode struct {
	Email   string
	Code    string
	Purpose model.OTPPurpose
}

// Outbox records codes instead of delivering them.
type Outbox struct {
	mu   sync.Mutex
	sent []SentCode
}

func (o *Outbox) SendCode(_ context.Context, email, code string, purpose model.OTPPurpose) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, SentCode{Email: email, Code: code, Purpose: purpose})
	return nil
}

// Last returns the most recent code sent to email.
func (o *Outbox) Last(email string) (SentCode, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.sent) - 1; i >= 0; i-- {
		if o.sent[i].Email == email {
			return o.sent[i], true
		}
	}
	return SentCode{}, false
}

func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sent)
}
