package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contenthub/internal/feed"
)

type fakeJob struct {
	runs    int32
	started chan struct{}
	release chan struct{}
}

func newFakeJob() *fakeJob {
	return &fakeJob{started: make(chan struct{}, 16)}
}

func (j *fakeJob) Refresh(ctx context.Context) *feed.RefreshResult {
	atomic.AddInt32(&j.runs, 1)
	j.started <- struct{}{}
	if j.release != nil {
		select {
		case <-j.release:
		case <-ctx.Done():
		}
	}
	return &feed.RefreshResult{SourcesFetched: 2, SourcesFailed: 1, ArticlesKept: 7, ViewsWritten: 30, Duration: time.Millisecond}
}

func waitStarted(t *testing.T, j *fakeJob) {
	t.Helper()
	select {
	case <-j.started:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestRunOnceRecordsStatus(t *testing.T) {
	job := newFakeJob()
	r := New(job, time.Minute, false, nil)

	assert.True(t, r.RunOnce(context.Background()))

	st := r.Status()
	assert.Equal(t, 1, st.Runs)
	assert.Equal(t, 1, st.LastFailures)
	assert.Equal(t, 7, st.LastArticles)
	assert.Equal(t, 30, st.LastViews)
	assert.False(t, st.LastRun.IsZero())
}

func TestRunOnceSkipsOverlappingRuns(t *testing.T) {
	job := newFakeJob()
	job.release = make(chan struct{})
	r := New(job, time.Minute, false, nil)

	done := make(chan bool)
	go func() { done <- r.RunOnce(context.Background()) }()
	waitStarted(t, job)

	assert.False(t, r.RunOnce(context.Background()), "a run is in progress")
	close(job.release)
	assert.True(t, <-done)

	st := r.Status()
	assert.Equal(t, 1, st.Runs)
	assert.Equal(t, 1, st.Skipped)
	assert.EqualValues(t, 1, atomic.LoadInt32(&job.runs))
}

func TestStartRunsImmediately(t *testing.T) {
	job := newFakeJob()
	r := New(job, time.Hour, true, nil)

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	waitStarted(t, job)
	st := r.Status()
	assert.True(t, st.Running)
	assert.Equal(t, "1h0m0s", st.Interval)
	assert.False(t, st.NextRun.IsZero())
}

func TestStartRunsOnTicks(t *testing.T) {
	job := newFakeJob()
	r := New(job, time.Second, false, nil)

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	waitStarted(t, job)
}

func TestStartValidation(t *testing.T) {
	r := New(newFakeJob(), 0, false, nil)
	assert.Error(t, r.Start(context.Background()))

	r = New(newFakeJob(), time.Hour, false, nil)
	require.NoError(t, r.Start(context.Background()))
	assert.Error(t, r.Start(context.Background()), "second start")
	r.Stop()
	r.Stop()
}

func TestStopCancelsInFlightRun(t *testing.T) {
	job := newFakeJob()
	job.release = make(chan struct{})
	r := New(job, time.Hour, true, nil)

	require.NoError(t, r.Start(context.Background()))
	waitStarted(t, job)

	stopped := make(chan struct{})
	go func() {
		r.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return")
	}
	assert.False(t, r.Status().Running)
}

func TestStartRollsBackWhenSchedulingFails(t *testing.T) {
	r := New(newFakeJob(), time.Hour, false, nil)
	r.spec = "every now and then"

	require.Error(t, r.Start(context.Background()))
	assert.False(t, r.Status().Running)
	require.NotNil(t, r.ctx)
	assert.ErrorIs(t, r.ctx.Err(), context.Canceled)

	r.spec = "@every 1h"
	require.NoError(t, r.Start(context.Background()), "a failed start can be retried")
	assert.True(t, r.Status().Running)
	r.Stop()
}
