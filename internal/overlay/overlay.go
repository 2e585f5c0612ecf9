// Package overlay delivers operator-facing status lines. The default
// sink writes them to the structured log; richer presentations plug in
// behind the same interface.
package overlay

import "github.com/rs/zerolog"

// Level classifies a status line.
type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "unknown"
}

// Sink receives status lines meant for the person running the tracker.
type Sink interface {
	Post(level Level, msg string)
}

// LogSink routes status lines through a zerolog logger.
type LogSink struct {
	log zerolog.Logger
}

// NewLogSink creates a sink writing to the given logger.
func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

// Post writes one status line. Success is an info-level event tagged so
// a presentation layer can color it differently.
func (s *LogSink) Post(level Level, msg string) {
	var ev *zerolog.Event
	switch level {
	case Warning:
		ev = s.log.Warn()
	case Error:
		ev = s.log.Error()
	default:
		ev = s.log.Info()
	}
	ev.Str("status", level.String()).Msg(msg)
}
