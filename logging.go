package scenery

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// sink is shared by a logger and every child made with With, so toggling
// debug on one affects all of them.
type sink struct {
	mu    sync.Mutex
	debug bool
	out   *log.Logger
	err   *log.Logger
}

// DefaultLogger writes debug and info to one writer and warnings and errors
// to another. Lines are tagged with the component, e.g. "[scenery/app]".
type DefaultLogger struct {
	component string
	sink      *sink
}

func NewDefaultLogger(component string, debug bool) *DefaultLogger {
	return NewLoggerTo(os.Stdout, os.Stderr, component, debug)
}

func NewLoggerTo(out, errOut io.Writer, component string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		component: component,
		sink: &sink{
			debug: debug,
			out:   log.New(out, "", flags),
			err:   log.New(errOut, "", flags),
		},
	}
}

// With returns a logger for a sub-component sharing outputs and debug state.
func (l *DefaultLogger) With(component string) *DefaultLogger {
	name := component
	if l.component != "" {
		name = l.component + "/" + component
	}
	return &DefaultLogger{component: name, sink: l.sink}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.sink.mu.Lock()
	l.sink.debug = enabled
	l.sink.mu.Unlock()
}

func (l *DefaultLogger) logf(level Level, format string, args ...any) {
	if level == LevelDebug && !l.DebugEnabled() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.component != "" {
		msg = fmt.Sprintf("[%s] %s: %s", l.component, level, msg)
	} else {
		msg = fmt.Sprintf("%s: %s", level, msg)
	}
	w := l.sink.out
	if level >= LevelWarn {
		w = l.sink.err
	}
	w.Print(msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

type nopLogger struct{}

func NewNopLogger() Logger { return &nopLogger{} }
func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}

// OrNop returns l, or a no-op logger when l is nil. Never returns nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}

// SkipReporter logs skipped frames without flooding the log: the first skip
// of a run is a warning, repeats of the same reason are debug lines, and the
// first frame after a run reports how many were skipped.
type SkipReporter struct {
	log     Logger
	reason  string
	skipped int
}

func NewSkipReporter(l Logger) *SkipReporter {
	return &SkipReporter{log: OrNop(l)}
}

func (s *SkipReporter) Skipped(err error) {
	reason := err.Error()
	s.skipped++
	if reason != s.reason {
		s.reason = reason
		s.log.Warnf("frame skipped: %s", reason)
		return
	}
	s.log.Debugf("frame skipped again: %s", reason)
}

func (s *SkipReporter) Rendered() {
	if s.skipped > 0 {
		s.log.Infof("rendering resumed after %d skipped frame(s)", s.skipped)
	}
	s.skipped = 0
	s.reason = ""
}

// Count returns the length of the current run of skipped frames.
func (s *SkipReporter) Count() int {
	return s.skipped
}
