package otp

import (
	"context"
	"sync"

	"github.com/xxxsen/sportmate/internal/model"
	appErr "github.com/xxxsen/sportmate/internal/pkg/errors"
)

// MemoryStore is an in-process Store keyed by email.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]model.OTP
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]model.OTP)}
}

func (s *MemoryStore) Replace(_ context.Context, code *model.OTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[code.Email] = *code
	return nil
}

func (s *MemoryStore) Get(_ context.Context, email string, purpose model.OTPPurpose) (*model.OTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[email]
	if !ok || item.Purpose != purpose {
		return nil, appErr.ErrNotFound
	}
	return &item, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, item := range s.items {
		if item.ID == id {
			delete(s.items, email)
			return nil
		}
	}
	return appErr.ErrNotFound
}

func (s *MemoryStore) IncrementAttempts(_ context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, item := range s.items {
		if item.ID == id {
			item.Attempts++
			s.items[email] = item
			return item.Attempts, nil
		}
	}
	return 0, appErr.ErrNotFound
}

func (s *MemoryStore) DeleteExpired(_ context.Context, before int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for email, item := range s.items {
		if item.ExpiresAt < before {
			delete(s.items, email)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
