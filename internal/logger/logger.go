package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger

	// sink fans records out to Logger and, when configured, Sentry
	sink *slog.Logger
)

// Config holds logger configuration
type Config struct {
	Debug     bool
	ConfigDir string
	SentryDSN string
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "stampet.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	// stderr only joins the file in debug mode
	var writer io.Writer = fileWriter
	if cfg.Debug {
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "stampet",
	})

	handlers := []slog.Handler{Logger}
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 1.0,
		})
		if err != nil {
			Logger.Warn("Sentry disabled", "error", err)
		} else {
			handlers = append(handlers, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
		}
	}

	if len(handlers) > 1 {
		sink = slog.New(slogmulti.Fanout(handlers...))
	} else {
		sink = slog.New(Logger)
	}

	return nil
}

// Flush waits for buffered Sentry events to be delivered.
func Flush() {
	if sentry.CurrentHub().Client() != nil {
		sentry.Flush(2 * time.Second)
	}
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if sink != nil {
		sink.Debug(msg, keyvals...)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if sink != nil {
		sink.Info(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if sink != nil {
		sink.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if sink != nil {
		sink.Error(msg, keyvals...)
	}
}

// Reset drops the configured logger. Logging becomes a no-op until Init runs again.
func Reset() {
	Logger = nil
	sink = nil
}
