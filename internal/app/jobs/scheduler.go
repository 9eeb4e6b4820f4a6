// Package jobs runs the worker's scheduled maintenance on robfig/cron.
package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/casedesk/casedesk/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler manages background jobs using cron scheduling.
type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger
	mu     sync.Mutex
	jobs   map[string]cron.EntryID
}

// NewScheduler creates a scheduler. Expressions use the standard five fields
// or descriptors such as "@hourly". A job still running when its next slot
// comes up is skipped, and panics are recovered.
func NewScheduler(log *logger.Logger) *Scheduler {
	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cl), cron.WithChain(
			cron.SkipIfStillRunning(cl),
			cron.Recover(cl),
		)),
		logger: log,
		jobs:   make(map[string]cron.EntryID),
	}
}

// Start starts the scheduler. Jobs added before this call will begin running.
func (s *Scheduler) Start() {
	s.logger.Info("Starting job scheduler")
	s.cron.Start()
}

// Stop stops scheduling; the returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("Stopping job scheduler")
	return s.cron.Stop()
}

// AddJob registers job under a unique name.
func (s *Scheduler) AddJob(name, cronExpr string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	entryID, err := s.cron.AddFunc(cronExpr, func() {
		s.logger.Debug("Running scheduled job", "job_name", name)
		job()
	})
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.Info("Added scheduled job", "job_name", name, "cron_expr", cronExpr)
	return nil
}

// RemoveJob removes a job by name.
func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("job %s not found", name)
	}

	s.cron.Remove(entryID)
	delete(s.jobs, name)
	s.logger.Info("Removed scheduled job", "job_name", name)
	return nil
}

// JobNames returns the names of all registered jobs.
func (s *Scheduler) JobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

// cronLogger routes cron's own messages into the structured logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
