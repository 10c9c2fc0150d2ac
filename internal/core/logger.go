package core

import (
	"github.com/rs/zerolog"
)

// Logger is the minimal leveled logging contract consumed by the service.
// Args are alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// NewNoopLogger returns a logger that discards everything.
func NewNoopLogger() Logger { return noopLogger{} }

type zerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger adapts a zerolog.Logger to the service Logger contract.
func NewZerologLogger(log zerolog.Logger) Logger {
	return zerologLogger{log: log}
}

func (l zerologLogger) Debug(msg string, args ...any) { l.log.Debug().Fields(args).Msg(msg) }
func (l zerologLogger) Info(msg string, args ...any)  { l.log.Info().Fields(args).Msg(msg) }
func (l zerologLogger) Warn(msg string, args ...any)  { l.log.Warn().Fields(args).Msg(msg) }
func (l zerologLogger) Error(msg string, args ...any) { l.log.Error().Fields(args).Msg(msg) }
