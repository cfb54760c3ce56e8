// Package logsink writes timestamped, level-tagged records to append-only
// text files. A single Sink serializes every write it performs, regardless of
// the target path, so records from concurrent callers never interleave
// mid-line.
package logsink

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level tags a record with its severity or kind.
type Level string

// Record levels. INFO and URL records belong to the URL log, WARNING and
// ERROR records to the error log.
const (
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
	LevelURL     Level = "URL"
)

// TimestampLayout is the layout of the leading timestamp on every record.
const TimestampLayout = "2006-01-02 15:04:05"

const filePerm = 0o600

// Clock supplies record timestamps.
type Clock interface {
	Now() time.Time
}

// Sink appends records to files on disk. All operations share one mutex.
type Sink struct {
	mu      sync.Mutex
	clock   Clock
	encoder zapcore.Encoder
	logger  *zap.Logger
}

// New builds a Sink. Write failures are reported on logger and never returned
// to callers of Append.
func New(clock Clock, logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{
		clock:   clock,
		encoder: newRecordEncoder(),
		logger:  logger,
	}
}

// newRecordEncoder renders "<timestamp> <message>\n"; the level tag is part
// of the message so custom levels such as URL need no zapcore mapping.
func newRecordEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "ts",
		MessageKey:       "msg",
		EncodeTime:       zapcore.TimeEncoderOfLayout(TimestampLayout),
		ConsoleSeparator: " ",
		LineEnding:       zapcore.DefaultLineEnding,
	})
}

// EnsureExists creates an empty file at path if none exists.
func (s *Sink) EnsureExists(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ensureExists(path)
}

// Clear deletes the file at path. A missing file is not an error; the next
// Append recreates it.
func (s *Sink) Clear(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeFile(path)
}

// Reset clears path and recreates it empty.
func (s *Sink) Reset(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := removeFile(path); err != nil {
		return err
	}
	return ensureExists(path)
}

// Append writes one record to path. The file is closed, and therefore
// flushed, before Append returns.
func (s *Sink) Append(path string, level Level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(path, level, message); err != nil {
		s.logger.Error("log sink write failed",
			zap.String("path", path),
			zap.String("level", string(level)),
			zap.Error(err),
		)
	}
}

func (s *Sink) write(path string, level Level, message string) error {
	buf, err := s.encoder.EncodeEntry(zapcore.Entry{
		Time:    s.now(),
		Message: fmt.Sprintf("[%s] %s", level, message),
	}, nil)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	defer buf.Free()

	// #nosec G304 -- paths come from operator configuration.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func (s *Sink) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func ensureExists(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create log dir for %s: %w", path, err)
		}
	}
	// #nosec G304 -- paths come from operator configuration.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
