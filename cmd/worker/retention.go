package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ActivityLogCleaner deletes activity log entries past their retention
type ActivityLogCleaner interface {
	Cleanup(ctx context.Context, retention time.Duration) (int, error)
}

// RetentionJob runs the activity log cleanup on a cron schedule
type RetentionJob struct {
	cron      *cron.Cron
	cleaner   ActivityLogCleaner
	retention time.Duration
	timeout   time.Duration
	logger    *zap.Logger
}

// NewRetentionJob registers the cleanup under schedule.
// Standard five-field expressions and descriptors such as @daily are accepted.
func NewRetentionJob(schedule string, retention time.Duration, cleaner ActivityLogCleaner, logger *zap.Logger) (*RetentionJob, error) {
	job := &RetentionJob{
		cron:      cron.New(),
		cleaner:   cleaner,
		retention: retention,
		timeout:   5 * time.Minute,
		logger:    logger,
	}

	if _, err := job.cron.AddFunc(schedule, job.Run); err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
	}

	return job, nil
}

// Run performs one cleanup pass
func (j *RetentionJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.cleaner.Cleanup(ctx, j.retention); err != nil {
		j.logger.Error("Activity log cleanup failed", zap.Error(err))
	}
}

// Start begins running the schedule in the background
func (j *RetentionJob) Start() {
	j.cron.Start()
}

// Stop stops the schedule and waits for a running pass to finish
func (j *RetentionJob) Stop() {
	<-j.cron.Stop().Done()
}
