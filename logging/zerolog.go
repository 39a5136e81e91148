package logging

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// ZerologAdapter bridges a zerolog.Logger to the Logger interface. Variadic
// key/value pairs become structured fields; a trailing unpaired value is
// recorded under "extra".
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps an existing zerolog.Logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewZerologLogger builds a Logger emitting JSON lines to stdout at the given
// level. This is the default production logger.
func NewZerologLogger(level LogLevel) *ZerologAdapter {
	zl := zerolog.New(os.Stdout).Level(zerologLevel(level)).With().Timestamp().Logger()
	return &ZerologAdapter{logger: zl}
}

// NewZerologConsoleLogger builds a Logger with human friendly console output
// on stderr. Used by the CLI so log lines do not interleave with chat output.
func NewZerologConsoleLogger(level LogLevel) *ZerologAdapter {
	cw := zerolog.NewConsoleWriter()
	cw.Out = os.Stderr
	zl := zerolog.New(cw).Level(zerologLevel(level)).With().Timestamp().Logger()
	return &ZerologAdapter{logger: zl}
}

func zerologLevel(l LogLevel) zerolog.Level {
	switch l {
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelInfo:
		return zerolog.InfoLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (z *ZerologAdapter) emit(ev *zerolog.Event, msg string, args []any) {
	n := len(args) - len(args)%2
	for i := 0; i < n; i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", args[i])
		}
		ev = ev.Interface(key, args[i+1])
	}
	if len(args)%2 == 1 {
		ev = ev.Interface("extra", args[len(args)-1])
	}
	ev.Msg(msg)
}

// Debug logs a debug message.
func (z *ZerologAdapter) Debug(msg string, args ...any) { z.emit(z.logger.Debug(), msg, args) }

// Info logs an informational message.
func (z *ZerologAdapter) Info(msg string, args ...any) { z.emit(z.logger.Info(), msg, args) }

// Warn logs a warning message.
func (z *ZerologAdapter) Warn(msg string, args ...any) { z.emit(z.logger.Warn(), msg, args) }

// Error logs an error message.
func (z *ZerologAdapter) Error(msg string, args ...any) { z.emit(z.logger.Error(), msg, args) }
