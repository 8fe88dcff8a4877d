// Package logging builds the slog loggers used by the command line tools and
// the HTTP server, and adapts them to the printf-style calculator.Logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps debug, info, warn and error to slog levels
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
	return l, nil
}

// New returns a text logger for the console, or a JSON logger when json is set
func New(w io.Writer, level string, json bool) (*slog.Logger, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: l}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// Printf adapts a slog.Logger to calculator.Logger
type Printf struct {
	Logger *slog.Logger
}

// NewPrintf wraps l, tagging records with component=calculator; a nil
// logger uses slog.Default.
func NewPrintf(l *slog.Logger) Printf {
	if l == nil {
		l = slog.Default()
	}
	return Printf{Logger: l.With("component", "calculator")}
}

func (p Printf) Debugf(format string, args ...any) { p.Logger.Debug(fmt.Sprintf(format, args...)) }
func (p Printf) Infof(format string, args ...any)  { p.Logger.Info(fmt.Sprintf(format, args...)) }
func (p Printf) Warnf(format string, args ...any)  { p.Logger.Warn(fmt.Sprintf(format, args...)) }
func (p Printf) Errorf(format string, args ...any) { p.Logger.Error(fmt.Sprintf(format, args...)) }
