package logger

import (
	"log/slog"
	"os"
	"time"
)

var log *slog.Logger

// Init initializes the global logger.
// env: "development" gives a readable text format at debug level,
// anything else gives JSON at info level.
func Init(env string) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
	}

	if env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

// GetLogger returns the global logger
func GetLogger() *slog.Logger {
	if log == nil {
		Init("development")
	}
	return log
}

// ============================================
// Shortcuts
// ============================================

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

// Fatal logs and exits the process
func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

// WorkerLog logs the outcome of a background job
func WorkerLog(worker, operation string, affected int64, err error) {
	fields := []any{
		"worker", worker,
		"operation", operation,
	}

	if err != nil {
		fields = append(fields, "error", err.Error())
		GetLogger().Error("worker operation failed", fields...)
		return
	}
	fields = append(fields, "affected", affected)
	GetLogger().Debug("worker operation completed", fields...)
}

// HTTPLog logs a finished HTTP request
func HTTPLog(log *slog.Logger, method, path string, status int, duration time.Duration, size int, clientIP string) {
	fields := []any{
		slog.String("client_ip", clientIP),
		slog.Int("status", status),
		slog.String("method", method),
		slog.String("path", path),
		slog.Duration("duration", duration),
		slog.Int("size_bytes", size),
	}
	switch {
	case status >= 500:
		log.Error("HTTP Server Error", fields...)
	case status >= 400:
		log.Warn("HTTP Client Error", fields...)
	default:
		log.Info("HTTP Request", fields...)
	}
}
