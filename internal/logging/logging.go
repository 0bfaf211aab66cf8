// Package logging provides the injected logging capability used by the
// save-editing engine. The engine only depends on the Logger interface;
// lifecycle (init at startup, close at shutdown) belongs to the caller.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level is the severity of a log message.
type Level int

const (
	Info Level = iota
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the single capability the engine needs for diagnostics.
type Logger interface {
	Log(level Level, msg string)
}

// Logf formats a message and sends it to l.
func Logf(l Logger, level Level, format string, args ...any) {
	l.Log(level, fmt.Sprintf(format, args...))
}

// Sink writes log lines to a writer (stderr by default) and optionally to a
// timestamped log file.
type Sink struct {
	mu   sync.Mutex
	out  *log.Logger
	file *os.File
}

// New returns a Sink writing to w.
func New(w io.Writer) *Sink {
	return &Sink{out: log.New(w, "", log.LstdFlags)}
}

// NewFile returns a Sink writing to both w and a timestamped log file
// <appName>_<YYYYMMDD_HHMMSS>.log inside dir. The directory is created if
// absent.
func NewFile(w io.Writer, appName, dir string) (*Sink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.log", appName, time.Now().Format("20060102_150405"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return &Sink{
		out:  log.New(io.MultiWriter(w, f), "", log.LstdFlags),
		file: f,
	}, nil
}

// Log writes one line with the level tag.
func (s *Sink) Log(level Level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.Printf("[%s] %s", level, msg)
}

// Path returns the log file path, or "" when file logging is off.
func (s *Sink) Path() string {
	if s.file == nil {
		return ""
	}
	return s.file.Name()
}

// Close flushes and closes the log file, if any.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// Discard drops every message. Useful in tests.
var Discard Logger = discard{}

type discard struct{}

func (discard) Log(Level, string) {}
