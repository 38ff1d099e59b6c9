// Package stdlogger adapts the global zerolog logger to printf style logger interfaces
// expected by third-party clients, such as the go-redis internal logger.
package stdlogger

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger forwards printf style calls to the global zerolog logger.
type Logger struct {
	component string
}

// New creates an adapter. Every line carries component, when set.
func New(component ...string) *Logger {
	l := &Logger{}
	if len(component) > 0 {
		l.component = component[0]
	}

	return l
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, v ...any) {
	l.with(log.Debug()).Msgf(format, v...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, v ...any) {
	l.with(log.Info()).Msgf(format, v...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, v ...any) {
	l.with(log.Warn()).Msgf(format, v...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, v ...any) {
	l.with(log.Error()).Msgf(format, v...)
}

// Printf implements the go-redis logging interface. go-redis only reports
// connection trouble through it, so lines are logged at warn level.
func (l *Logger) Printf(_ context.Context, format string, v ...any) {
	l.with(log.Warn()).Msgf(strings.TrimSuffix(format, "\n"), v...)
}

func (l *Logger) with(e *zerolog.Event) *zerolog.Event {
	if l.component != "" {
		e = e.Str("component", l.component)
	}

	return e
}
