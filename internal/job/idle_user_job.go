package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type IdleMarker interface {
	MarkIdle(ctx context.Context, idle time.Duration) (int64, error)
}

// IdleUserJob clears the active flag of users that stopped showing up.
type IdleUserJob struct {
	presence IdleMarker
	idle     time.Duration
}

func NewIdleUserJob(presence IdleMarker, idle time.Duration) *IdleUserJob {
	return &IdleUserJob{presence: presence, idle: idle}
}

func (j *IdleUserJob) Name() string {
	return "idle_user"
}

func (j *IdleUserJob) Run(ctx context.Context) error {
	if j.presence == nil {
		return nil
	}
	idle := j.idle
	if idle <= 0 {
		idle = 24 * time.Hour
	}
	n, err := j.presence.MarkIdle(ctx, idle)
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("idle users marked inactive", zap.Int64("count", n))
	return nil
}
