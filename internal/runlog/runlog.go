// Package runlog provides the append-only deployment run log.
//
// Every significant action taken during a deployment is recorded as one
// timestamped line. The log file is the only post-mortem artifact a run
// leaves behind, so components receive a *Logger at construction and are
// expected to log liberally. The logger is never global state.
package runlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// timeLayout is the unambiguous, re-parseable timestamp prefix used for
// every log line.
const timeLayout = "2006-01-02 15:04:05"

// Logger appends timestamped lines to a run-log file and optionally echoes
// them to a second writer (normally stdout).
type Logger struct {
	mu   sync.Mutex
	file *os.File
	echo io.Writer
	now  func() time.Time
}

// Option configures a Logger.
type Option func(*Logger)

// WithEcho mirrors every line to w in addition to the log file.
func WithEcho(w io.Writer) Option {
	return func(l *Logger) {
		l.echo = w
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		l.now = now
	}
}

// New opens (or creates) the run log at path in append mode.
func New(path string, opts ...Option) (*Logger, error) {
	// #nosec G304
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}

	l := &Logger{
		file: f,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Printf appends one formatted, timestamped line to the run log.
func (l *Logger) Printf(format string, args ...any) {
	l.write("", true, format, args...)
}

// Warnf appends one line with a WARNING marker.
func (l *Logger) Warnf(format string, args ...any) {
	l.write("WARNING: ", true, format, args...)
}

// Quietf appends one line to the log file without echoing it. Used for
// records that already reached the console in another form, such as the
// final durations report.
func (l *Logger) Quietf(format string, args ...any) {
	l.write("", false, format, args...)
}

func (l *Logger) write(prefix string, echo bool, format string, args ...any) {
	line := fmt.Sprintf("%s %s%s\n", l.now().Format(timeLayout), prefix, fmt.Sprintf(format, args...))

	l.mu.Lock()
	defer l.mu.Unlock()

	_, _ = io.WriteString(l.file, line)
	if echo && l.echo != nil {
		_, _ = io.WriteString(l.echo, line)
	}
}

// Writer returns a writer that logs each write as a raw block, used to
// capture subprocess output into the run log.
func (l *Logger) Writer() io.Writer {
	return &rawWriter{l: l}
}

// Close flushes and closes the underlying log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

type rawWriter struct {
	l *Logger
}

func (w *rawWriter) Write(p []byte) (int, error) {
	w.l.mu.Lock()
	defer w.l.mu.Unlock()

	if _, err := w.l.file.Write(p); err != nil {
		return 0, err
	}
	if w.l.echo != nil {
		_, _ = w.l.echo.Write(p)
	}
	return len(p), nil
}
