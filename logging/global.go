// Package logging provides the structured logger shared by the switching tool:
// text output on stderr and JSON output to weekly rotating files.
package logging

import (
	"log/slog"
	"os"
	"testing"

	"github.com/giygas/antipsychotic-switch/config"
	"github.com/giygas/antipsychotic-switch/interfaces"
)

// Compile-time check to ensure LoggingService can be scheduled for cleanup
var _ interfaces.LogMaintainer = (*LoggingService)(nil)

type LoggingService struct {
	Logger   *slog.Logger
	rotating *RotatingLogger
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger instance and makes it the slog default
func InitLogger(opts Options) *LoggingService {
	logger, rotating := NewLogger(opts)
	DefaultLoggingService = &LoggingService{
		Logger:   logger,
		rotating: rotating,
	}
	slog.SetDefault(logger)
	return DefaultLoggingService
}

// InitLoggerFromConfig initializes the global logger from the application config
func InitLoggerFromConfig(cfg *config.Config, verbose bool) *LoggingService {
	return InitLogger(Options{
		LogDir:         cfg.LogDir,
		Env:            cfg.Env,
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
		Verbose:        verbose,
	})
}

// CleanupOldLogs removes log files that fell out of the retention window
func (s *LoggingService) CleanupOldLogs() error {
	if s == nil || s.rotating == nil {
		return nil
	}
	deleted, err := s.rotating.CleanupOldLogs()
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.Logger.Info("Cleaned up old log files", "count", deleted)
	}
	return nil
}

// Shutdown closes the log file. The console handler keeps working.
func (s *LoggingService) Shutdown() error {
	if s == nil || s.rotating == nil {
		return nil
	}
	return s.rotating.Close()
}

// ResetForTest installs a fresh global logger writing into logDir and
// restores the previous one when the test ends
func ResetForTest(t testing.TB, logDir string, env config.Environment, level string, retentionWeeks int, maxFileSize int64) {
	t.Helper()

	previous := DefaultLoggingService
	previousDefault := slog.Default()

	service := InitLogger(Options{
		LogDir:         logDir,
		Env:            env,
		Level:          level,
		RetentionWeeks: retentionWeeks,
		MaxFileSize:    maxFileSize,
	})

	t.Cleanup(func() {
		_ = service.Shutdown()
		DefaultLoggingService = previous
		slog.SetDefault(previousDefault)
	})
}

func fallbackLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func initialized() bool {
	return DefaultLoggingService != nil && DefaultLoggingService.Logger != nil
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	if !initialized() {
		fallbackLogger(slog.LevelInfo).Info(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	if !initialized() {
		fallbackLogger(slog.LevelError).Error(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Error(msg, args...)
}

func Warn(msg string, args ...any) {
	if !initialized() {
		fallbackLogger(slog.LevelWarn).Warn(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	if !initialized() {
		fallbackLogger(slog.LevelDebug).Debug(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Debug(msg, args...)
}
