// Package scheduler runs the background maintenance of the switching tool:
// log retention cleanup and periodic export of the metrics textfile.
// The drug table is never touched; it is immutable once loaded.
package scheduler

import (
	"fmt"
	"time"

	"github.com/giygas/antipsychotic-switch/interfaces"
	"github.com/giygas/antipsychotic-switch/logging"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Daily time of the log retention cleanup
const logCleanupAt = "03:00"

// Scheduler handles maintenance jobs using dependency injection
type Scheduler struct {
	logs       interfaces.LogMaintainer
	exporter   interfaces.MetricsExporter
	flushEvery time.Duration
	scheduler  *gocron.Scheduler
}

// NewScheduler creates a scheduler. exporter may be nil when metrics are
// not exported, in which case only the log cleanup is scheduled.
func NewScheduler(logs interfaces.LogMaintainer, exporter interfaces.MetricsExporter, flushEvery time.Duration) *Scheduler {
	return &Scheduler{
		logs:       logs,
		exporter:   exporter,
		flushEvery: flushEvery,
		scheduler:  gocron.NewScheduler(time.Local),
	}
}

// Start cleans up old logs once and schedules the recurring jobs
func (s *Scheduler) Start() error {
	s.cleanupLogs()

	_, err := s.scheduler.Every(1).Day().At(logCleanupAt).Do(s.cleanupLogs)
	if err != nil {
		logging.Error("Failed to schedule log cleanup", "error", err)
		return fmt.Errorf("failed to schedule log cleanup: %w", err)
	}

	if s.exporter != nil {
		_, err = s.scheduler.Every(s.flushEvery).Do(s.flushMetrics)
		if err != nil {
			logging.Error("Failed to schedule metrics flush", "error", err)
			return fmt.Errorf("failed to schedule metrics flush: %w", err)
		}
	}

	s.scheduler.StartAsync()
	logging.Debug("Maintenance scheduler started", "jobs", s.scheduler.Len())

	return nil
}

// Stop stops the scheduler and writes the metrics one last time
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	if s.exporter != nil {
		s.flushMetrics()
	}
}

// JobCount returns the number of scheduled jobs
func (s *Scheduler) JobCount() int {
	return s.scheduler.Len()
}

func (s *Scheduler) cleanupLogs() {
	if s.logs == nil {
		return
	}
	if err := s.logs.CleanupOldLogs(); err != nil {
		logging.Warn("Failed to cleanup old logs", "error", err)
	}
}

func (s *Scheduler) flushMetrics() {
	if err := s.exporter.Write(); err != nil {
		logging.Warn("Failed to export metrics", "error", err)
	}
}
