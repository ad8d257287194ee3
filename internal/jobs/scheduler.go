package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"stockview/internal/config"
	"stockview/internal/services"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const (
	JobDocumentRebuild = "document-rebuild"
	JobCacheWarmup     = "cache-warmup"
)

// JobScheduler runs the periodic document maintenance
type JobScheduler struct {
	scheduler gocron.Scheduler
	inventory services.InventoryService
	logger    *zap.Logger
	timeout   time.Duration
	alertPct  float64
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates the scheduler and registers every job
func NewJobScheduler(inventory services.InventoryService, cfg config.JobsConfig, logger *zap.Logger) (*JobScheduler, error) {
	loc := time.Local
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid job timezone %q: %w", cfg.Timezone, err)
		}
		loc = l
	}

	hour, minute, err := parseClock(cfg.RebuildAt)
	if err != nil {
		return nil, err
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		inventory: inventory,
		logger:    logger,
		timeout:   2 * time.Minute,
		alertPct:  float64(cfg.AlertPercent),
		jobs:      make(map[string]gocron.Job),
	}
	if err := js.registerJobs(hour, minute); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info("starting background job scheduler", zap.Strings("jobs", js.JobNames()))
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (js *JobScheduler) Stop() error {
	js.logger.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// JobNames lists the registered jobs
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()
	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NextRun reports when the named job runs next
func (js *JobScheduler) NextRun(name string) (time.Time, error) {
	js.mu.RLock()
	job, ok := js.jobs[name]
	js.mu.RUnlock()
	if !ok {
		return time.Time{}, fmt.Errorf("unknown job %q", name)
	}
	return job.NextRun()
}

func (js *JobScheduler) registerJobs(hour, minute uint) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	// Remaining percentages are computed against the current date, so the
	// published document goes stale overnight.
	rebuildJob, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, 0))),
		gocron.NewTask(js.rebuildDocument),
		gocron.WithName(JobDocumentRebuild),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create rebuild job: %w", err)
	}
	js.jobs[JobDocumentRebuild] = rebuildJob

	warmupJob, err := js.scheduler.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartImmediately()),
		gocron.NewTask(js.warmCache),
		gocron.WithName(JobCacheWarmup),
	)
	if err != nil {
		return fmt.Errorf("failed to create cache warmup job: %w", err)
	}
	js.jobs[JobCacheWarmup] = warmupJob

	return nil
}

func (js *JobScheduler) rebuildDocument() error {
	ctx, cancel := context.WithTimeout(context.Background(), js.timeout)
	defer cancel()

	start := time.Now()
	doc, err := js.inventory.Rebuild(ctx)
	if err != nil {
		if errors.Is(err, services.ErrNoWorkbook) {
			js.logger.Debug("scheduled rebuild skipped, no workbook uploaded")
			return nil
		}
		js.logger.Error("scheduled document rebuild failed", zap.Error(err))
		return err
	}
	js.logger.Info("scheduled document rebuild done",
		zap.Int("products", doc.Metadata.TotalProducts),
		zap.Duration("took", time.Since(start)))

	LogExpiryAlerts(js.logger, CheckExpiring(doc, js.alertPct))
	return nil
}

func (js *JobScheduler) warmCache() error {
	ctx, cancel := context.WithTimeout(context.Background(), js.timeout)
	defer cancel()

	if _, err := js.inventory.Document(ctx); err != nil && !errors.Is(err, services.ErrNoWorkbook) {
		js.logger.Warn("document cache warmup failed", zap.Error(err))
		return err
	}
	return nil
}

// parseClock reads "HH:MM"
func parseClock(s string) (uint, uint, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid rebuild time %q, want HH:MM: %w", s, err)
	}
	return uint(t.Hour()), uint(t.Minute()), nil
}
