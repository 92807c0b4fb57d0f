package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

func (j *countingJob) Name() string { return "counting" }

func TestScheduler_AddJob(t *testing.T) {
	s := New(zerolog.Nop())

	require.NoError(t, s.AddJob("@every 1h", &countingJob{}))
	require.NoError(t, s.AddJob("", &countingJob{}), "empty schedule disables")
	assert.Len(t, s.cron.Entries(), 1)

	assert.Error(t, s.AddJob("@every 2h", &countingJob{}), "names are unique")
	assert.Error(t, s.AddJob("not a schedule", &namedJob{name: "other"}))
	assert.Equal(t, []string{"counting"}, s.Jobs())
}

type namedJob struct {
	countingJob
	name string
}

func (j *namedJob) Name() string { return j.name }

func TestScheduler_RunsJobs(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{err: errors.New("boom")}
	require.NoError(t, s.AddJob("@every 1s", job))

	s.Start()
	assert.Eventually(t, func() bool { return job.runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	s.Stop()
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{}
	require.NoError(t, s.RunNow(job))
	assert.Equal(t, int32(1), job.runs.Load())

	failing := &countingJob{err: errors.New("boom")}
	assert.EqualError(t, s.RunNow(failing), "boom")
}

type fakeWarmer struct {
	calls    int
	deadline bool
}

func (w *fakeWarmer) Warm(ctx context.Context) time.Duration {
	w.calls++
	_, w.deadline = ctx.Deadline()
	return time.Millisecond
}

func TestWarmupJob(t *testing.T) {
	warmer := &fakeWarmer{}
	job := NewWarmupJob(warmer, zerolog.Nop())

	require.NoError(t, job.Run())
	assert.Equal(t, 1, warmer.calls)
	assert.True(t, warmer.deadline)
	assert.Equal(t, "cache_warmup", job.Name())
}
