// Package entry defines the log record shipped by the pipeline.
package entry

import (
	"fmt"
	"strings"
	"time"
)

// Level is the severity of a log entry.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ParseLevel normalises a severity string to a known Level.
// Common aliases ("warning", "err", upper-case forms) are accepted.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error", "err", "fatal":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("entry: unknown level %q", s)
}

// Entry is one observation to ship. Entries are immutable once created;
// the shipping pipeline never mutates them, only the retry count wrapped
// around them.
type Entry struct {
	// Level is the severity of the record.
	Level Level `json:"level"`

	// Time is when the record was produced. Marshals as RFC 3339.
	Time time.Time `json:"time"`

	// PID is the originating process identifier.
	PID int `json:"pid"`

	// Msg is the log line itself.
	Msg string `json:"msg"`

	// Meta carries opaque key-value context. The pipeline does not
	// inspect or validate it.
	Meta map[string]any `json:"meta,omitempty"`
}
