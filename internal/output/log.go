// Package output provides terminal output utilities.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// LogConfig holds the inputs that shape the global logger.
type LogConfig struct {
	// Verbose enables debug level, caller reporting and timestamps.
	Verbose bool

	// Timestamps overrides the timestamp default (nil means on).
	Timestamps *bool
}

var (
	logger    *log.Logger
	logWriter io.Writer = os.Stderr
	logMu     sync.Mutex
)

func init() {
	logger = log.NewWithOptions(logWriter, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
}

// SetupLogging configures the global logger based on verbosity and timestamp preference.
func SetupLogging(cfg LogConfig) {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}

	timestamps := true
	if cfg.Timestamps != nil {
		timestamps = *cfg.Timestamps
	}
	if cfg.Verbose {
		timestamps = true
	}

	logMu.Lock()
	defer logMu.Unlock()
	logger = log.NewWithOptions(logWriter, log.Options{
		Level:           level,
		ReportTimestamp: timestamps,
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05",
	})
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	logger.Error(msg, keyvals...)
}

// Println prints a message to stdout with a newline.
func Println(msg string) {
	os.Stdout.WriteString(msg + "\n")
}

// Logger is a prefixed, printf-style logger used to report compilations.
// Print writes verbatim text to the same destination as the log lines.
type Logger struct {
	l *log.Logger
	w io.Writer
}

// NewLogger creates a Logger writing to w with the given prefix.
// Timestamps are off, which keeps reporter output stable.
func NewLogger(w io.Writer, prefix string) *Logger {
	return &Logger{
		l: log.NewWithOptions(w, log.Options{
			Prefix:          prefix,
			ReportTimestamp: false,
		}),
		w: w,
	}
}

// Scoped derives a Logger from the global logger with the given prefix.
// It inherits the level and timestamp settings from SetupLogging.
func Scoped(prefix string) *Logger {
	logMu.Lock()
	defer logMu.Unlock()
	return &Logger{l: logger.WithPrefix(prefix), w: logWriter}
}

// Prefix returns the logger prefix.
func (l *Logger) Prefix() string {
	return l.l.GetPrefix()
}

// Debug logs a formatted debug line.
func (l *Logger) Debug(format string, args ...any) {
	l.l.Debugf(format, args...)
}

// Info logs a formatted informational line.
func (l *Logger) Info(format string, args ...any) {
	l.l.Infof(format, args...)
}

// Warn logs a formatted warning line.
func (l *Logger) Warn(format string, args ...any) {
	l.l.Warnf(format, args...)
}

// Fail logs a formatted failure line.
func (l *Logger) Fail(format string, args ...any) {
	l.l.Errorf(format, args...)
}

// Print writes s verbatim followed by a newline.
func (l *Logger) Print(s string) {
	fmt.Fprintln(l.w, s)
}

// Inspect dumps v as YAML, one info line per YAML line.
func (l *Logger) Inspect(v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		l.Fail("inspect: %v", err)
		return
	}
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		l.l.Info(line)
	}
}
