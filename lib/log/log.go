/*package log wraps log/slog for psam. A nil *Logger is valid: debug and info
messages sent to it are dropped and warnings and errors go to slog's default
logger, so library code never has to check whether it was given one.
*/
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	*slog.Logger
	// LogFile is the rotated log file, or "" when logging to stderr.
	LogFile string
	Start   time.Time
}

// New creates a Logger at the given level ("debug", "info", "warn", or
// "error"). If dir is empty, text records go to stderr. Otherwise JSON records
// go to dir/psam.slog, rotated by lumberjack.
func New(level, dir string) *Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info", "":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "%s: invalid log level\n", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	l := &Logger{Start: time.Now()}
	if dir == "" {
		l.Logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
	} else {
		w := &lumberjack.Logger{
			Filename:   filepath.Join(dir, "psam.slog"),
			MaxSize:    32, // MB
			MaxBackups: 4,
			Compress:   true,
		}
		l.Logger = slog.New(slog.NewJSONHandler(w, opts))
		l.LogFile = w.Filename
	}

	l.Info("System information",
		slog.String("GOARCH", runtime.GOARCH),
		slog.String("GOOS", runtime.GOOS),
		slog.Int("NumCPUs", runtime.NumCPU()))

	return l
}

// NewWriter creates a Logger writing text records to w. It's mostly useful
// in tests.
func NewWriter(w io.Writer, level slog.Level) *Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(h), Start: time.Now()}
}

func (l *Logger) Debug(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(context.Background(), slog.LevelDebug) {
		l.Logger.Debug(msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(context.Background(), slog.LevelInfo) {
		l.Logger.Info(msg, args...)
	}
}

func (l *Logger) Infof(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(context.Background(), slog.LevelInfo) {
		l.Logger.Info(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	if l == nil {
		slog.Warn(msg, args...)
	} else {
		l.Logger.Warn(msg, args...)
	}
}

func (l *Logger) Error(msg string, args ...any) {
	if l == nil {
		slog.Error(msg, args...)
	} else {
		l.Logger.Error(msg, args...)
	}
}

// Elapsed returns the time since the Logger was created.
func (l *Logger) Elapsed() time.Duration {
	if l == nil {
		return 0
	}
	return time.Since(l.Start)
}

func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{
		Logger:  l.Logger.With(args...),
		LogFile: l.LogFile,
		Start:   l.Start,
	}
}
