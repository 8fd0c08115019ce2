package service

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	appErr "github.com/xxxsen/sportmate/internal/pkg/errors"
)

type PresenceStore interface {
	Touch(ctx context.Context, userID string, now int64) error
	MarkIdle(ctx context.Context, before int64) (int64, error)
}

// PresenceService records user activity. Writes for the same user are
// collapsed to one per interval.
type PresenceService struct {
	users PresenceStore
	seen  *expirable.LRU[string, int64]
	now   func() time.Time
}

func NewPresenceService(users PresenceStore, interval time.Duration, size int) *PresenceService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if size <= 0 {
		size = 10000
	}
	return &PresenceService{
		users: users,
		seen:  expirable.NewLRU[string, int64](size, nil, interval),
		now:   time.Now,
	}
}

// Touch marks userID active now. An unknown user is ErrUnauthorized.
func (s *PresenceService) Touch(ctx context.Context, userID string) error {
	if _, ok := s.seen.Get(userID); ok {
		return nil
	}
	now := s.now().Unix()
	if err := s.users.Touch(ctx, userID, now); err != nil {
		if appErr.IsNotFound(err) {
			return appErr.ErrUnauthorized
		}
		return err
	}
	s.seen.Add(userID, now)
	return nil
}

// Forget drops the throttle entry so the next request writes through.
func (s *PresenceService) Forget(userID string) {
	s.seen.Remove(userID)
}

// MarkIdle clears the active flag of users not seen within idle.
func (s *PresenceService) MarkIdle(ctx context.Context, idle time.Duration) (int64, error) {
	return s.users.MarkIdle(ctx, s.now().Add(-idle).Unix())
}
