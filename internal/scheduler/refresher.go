// Package scheduler keeps the feed cache warm by refreshing it on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/contenthub/internal/feed"
	"github.com/contenthub/pkg/logger"
)

// Job runs one refresh of every feed view
type Job interface {
	Refresh(ctx context.Context) *feed.RefreshResult
}

// Status describes the refresher's recent activity
type Status struct {
	Running      bool          `json:"running"`
	Interval     string        `json:"interval"`
	Runs         int           `json:"runs"`
	Skipped      int           `json:"skipped"`
	LastRun      time.Time     `json:"last_run,omitempty"`
	LastDuration time.Duration `json:"last_duration"`
	LastFailures int           `json:"last_failures"`
	LastViews    int           `json:"last_views"`
	LastArticles int           `json:"last_articles"`
	NextRun      time.Time     `json:"next_run,omitempty"`
}

// Refresher runs a Job at start and on every interval tick. Runs never
// overlap: a tick that arrives while a run is in progress is skipped.
type Refresher struct {
	job        Job
	interval   time.Duration
	spec       string
	runOnStart bool
	cron       *cron.Cron
	entry      cron.EntryID
	runLock    sync.Mutex
	log        *logger.Logger

	mu     sync.Mutex
	status Status
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a refresher; call Start to begin
func New(job Job, interval time.Duration, runOnStart bool, log *logger.Logger) *Refresher {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("scheduler")
	return &Refresher{
		job:        job,
		interval:   interval,
		spec:       "@every " + interval.String(),
		runOnStart: runOnStart,
		cron:       cron.New(cron.WithLogger(cronLogger{log})),
		log:        log,
		status:     Status{Interval: interval.String()},
	}
}

// Start schedules the job and, when configured, runs it once in the background
func (r *Refresher) Start(ctx context.Context) error {
	if r.interval <= 0 {
		return fmt.Errorf("invalid refresh interval %s", r.interval)
	}

	r.mu.Lock()
	if r.status.Running {
		r.mu.Unlock()
		return errors.New("refresher already started")
	}
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.status.Running = true
	r.mu.Unlock()

	entry, err := r.cron.AddFunc(r.spec, func() { r.RunOnce(r.ctx) })
	if err != nil {
		r.mu.Lock()
		r.status.Running = false
		r.cancel()
		r.mu.Unlock()
		return fmt.Errorf("failed to schedule refresh job: %w", err)
	}
	r.mu.Lock()
	r.entry = entry
	r.mu.Unlock()

	r.cron.Start()
	r.log.Info().Str("interval", r.interval.String()).Msg("Refresh job scheduled")

	if r.runOnStart {
		go r.RunOnce(r.ctx)
	}
	return nil
}

// Stop cancels an in-flight run and waits for it to return
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.status.Running {
		r.mu.Unlock()
		return
	}
	r.status.Running = false
	r.cancel()
	r.mu.Unlock()

	<-r.cron.Stop().Done()
	// a start-up run is not tracked by cron
	r.runLock.Lock()
	defer r.runLock.Unlock()
	r.log.Info().Msg("Refresher stopped")
}

// RunOnce runs the job unless a run is already in progress. It reports whether it ran.
func (r *Refresher) RunOnce(ctx context.Context) bool {
	if !r.runLock.TryLock() {
		r.mu.Lock()
		r.status.Skipped++
		r.mu.Unlock()
		r.log.Warn().Msg("Previous refresh still running, skipping tick")
		return false
	}
	defer r.runLock.Unlock()

	if ctx.Err() != nil {
		return false
	}

	started := time.Now()
	result := r.job.Refresh(ctx)

	r.mu.Lock()
	r.status.Runs++
	r.status.LastRun = started
	if result != nil {
		r.status.LastDuration = result.Duration
		r.status.LastFailures = result.SourcesFailed
		r.status.LastViews = result.ViewsWritten
		r.status.LastArticles = result.ArticlesKept
	}
	r.mu.Unlock()
	return true
}

// Status returns a snapshot of the refresher's state
func (r *Refresher) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.status
	if s.Running && r.entry != 0 {
		s.NextRun = r.cron.Entry(r.entry).Next
	}
	return s
}

// cronLogger adapts our logger for cron
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
