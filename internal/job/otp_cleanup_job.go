package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type CodePurger interface {
	Purge(ctx context.Context) (int64, error)
}

// OTPCleanupJob deletes passcodes that expired without being used.
type OTPCleanupJob struct {
	codes CodePurger
}

func NewOTPCleanupJob(codes CodePurger) *OTPCleanupJob {
	return &OTPCleanupJob{codes: codes}
}

func (j *OTPCleanupJob) Name() string {
	return "otp_cleanup"
}

func (j *OTPCleanupJob) Run(ctx context.Context) error {
	if j.codes == nil {
		return nil
	}
	n, err := j.codes.Purge(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logutil.GetLogger(ctx).Info("expired otps removed", zap.Int64("count", n))
	}
	return nil
}
