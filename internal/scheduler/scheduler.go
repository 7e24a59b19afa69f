// Package scheduler runs named background jobs on cron specs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

var (
	ErrAlreadyRunning = errors.New("scheduler is already running")
	ErrNoJobs         = errors.New("no jobs scheduled")
	ErrRunning        = errors.New("cannot change jobs while scheduler is running")
)

// Job is one unit of scheduled work
type Job func(ctx context.Context) error

// Scheduler manages cron-scheduled jobs
type Scheduler struct {
	cron            *cron.Cron
	log             *logrus.Entry
	mu              sync.RWMutex
	isRunning       bool
	jobs            map[string]cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(log *logrus.Logger) *Scheduler {
	return &Scheduler{
		// a slow job must not overlap its next run
		cron:            cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:             log.WithField("component", "scheduler"),
		jobs:            make(map[string]cron.EntryID),
		gracefulTimeout: 30 * time.Second,
	}
}

// Schedule registers job under name. Each run gets its own context bounded by timeout.
func (s *Scheduler) Schedule(name, spec string, timeout time.Duration, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return ErrRunning
	}
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q already scheduled", name)
	}

	entryID, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		started := time.Now()
		s.log.WithField("job", name).Info("Starting scheduled job")
		if err := job(ctx); err != nil {
			s.log.WithError(err).WithField("job", name).Error("Scheduled job failed")
			return
		}
		s.log.WithFields(logrus.Fields{
			"job":      name,
			"duration": time.Since(started).String(),
		}).Info("Scheduled job completed")
	})
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobs[name] = entryID
	s.log.WithFields(logrus.Fields{"job": name, "spec": spec}).Info("Scheduled job")
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return ErrAlreadyRunning
	}
	if len(s.jobs) == 0 {
		return ErrNoJobs
	}

	s.cron.Start()
	s.isRunning = true
	s.log.WithField("jobs", len(s.jobs)).Info("Scheduler started")
	return nil
}

// Stop stops the scheduler, waiting up to the graceful timeout for running jobs
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	select {
	case <-s.cron.Stop().Done():
	case <-time.After(s.gracefulTimeout):
		s.log.Warn("Timed out waiting for running jobs")
	}
	s.isRunning = false
	s.log.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the next run time of a job, zero if unknown or not running
func (s *Scheduler) NextRun(name string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.jobs[name]
	if !ok || !s.isRunning {
		return time.Time{}
	}
	entry := s.cron.Entry(id)
	if !entry.Valid() {
		return time.Time{}
	}
	return entry.Next
}

// Remove unschedules a job
func (s *Scheduler) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return ErrRunning
	}
	id, ok := s.jobs[name]
	if !ok {
		return nil
	}
	s.cron.Remove(id)
	delete(s.jobs, name)
	return nil
}
