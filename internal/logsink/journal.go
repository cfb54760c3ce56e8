package logsink

import "fmt"

// Recorder accepts log records. Every pipeline component reports through a
// Recorder rather than a concrete file.
type Recorder interface {
	Record(level Level, message string)
}

// Discard is a Recorder that drops every record.
var Discard Recorder = discard{}

type discard struct{}

func (discard) Record(Level, string) {}

// Journal routes records to one of two files by level: INFO and URL records
// go to the URL log, everything else to the error log.
type Journal struct {
	sink      *Sink
	urlPath   string
	errorPath string
}

// NewJournal binds sink to the URL log and error log paths.
func NewJournal(sink *Sink, urlPath, errorPath string) *Journal {
	return &Journal{
		sink:      sink,
		urlPath:   urlPath,
		errorPath: errorPath,
	}
}

// Reset truncates both logs, leaving empty files behind.
func (j *Journal) Reset() error {
	if err := j.sink.Reset(j.urlPath); err != nil {
		return fmt.Errorf("reset url log: %w", err)
	}
	if err := j.sink.Reset(j.errorPath); err != nil {
		return fmt.Errorf("reset error log: %w", err)
	}
	return nil
}

// Record appends message to the log that owns level.
func (j *Journal) Record(level Level, message string) {
	j.sink.Append(j.pathFor(level), level, message)
}

// URLPath returns the URL log path.
func (j *Journal) URLPath() string {
	return j.urlPath
}

// ErrorPath returns the error log path.
func (j *Journal) ErrorPath() string {
	return j.errorPath
}

func (j *Journal) pathFor(level Level) string {
	switch level {
	case LevelInfo, LevelURL:
		return j.urlPath
	default:
		return j.errorPath
	}
}
