package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/rgehrsitz/taxpilot/internal/calculation"
)

// slogLogger implements calculation.Logger on top of log/slog
type slogLogger struct {
	l *slog.Logger
}

func newSlogLogger(w io.Writer, debug bool) calculation.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slogLogger{l: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))}
}

func (s slogLogger) Debugf(format string, args ...any) { s.l.Debug(fmt.Sprintf(format, args...)) }
func (s slogLogger) Infof(format string, args ...any)  { s.l.Info(fmt.Sprintf(format, args...)) }
func (s slogLogger) Warnf(format string, args ...any)  { s.l.Warn(fmt.Sprintf(format, args...)) }
func (s slogLogger) Errorf(format string, args ...any) { s.l.Error(fmt.Sprintf(format, args...)) }
