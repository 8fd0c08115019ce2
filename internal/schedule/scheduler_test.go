package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubJob struct {
	name string
	err  error
	runs int
	dl   bool
}

func (j *stubJob) Name() string { return j.name }

func (j *stubJob) Run(ctx context.Context) error {
	j.runs++
	_, j.dl = ctx.Deadline()
	return j.err
}

func TestAddJobRejectsDuplicatesAndBadSpec(t *testing.T) {
	s := NewCronScheduler(0)
	require.NoError(t, s.AddJob(&stubJob{name: "a"}, "*/5 * * * *"))
	require.Error(t, s.AddJob(&stubJob{name: "a"}, "*/5 * * * *"))
	require.Error(t, s.AddJob(&stubJob{name: "b"}, "not a spec"))
}

func TestRunJobAppliesTimeout(t *testing.T) {
	job := &stubJob{name: "a"}
	require.NoError(t, runJob(context.Background(), job, time.Second, zap.NewNop()))
	require.True(t, job.dl)

	job = &stubJob{name: "b", err: errors.New("boom")}
	require.Error(t, runJob(context.Background(), job, 0, zap.NewNop()))
	require.False(t, job.dl)
	require.Equal(t, 1, job.runs)
}
