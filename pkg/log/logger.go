package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/featurizer/pkg/errors"
)

const (
	ErrAttrKey = "error"
)

// ZerologLogger implements Logger on top of zerolog.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger creates a Logger writing JSON lines to w at the given level.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	return &ZerologLogger{
		logger: zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger(),
	}
}

// Debug implements Logger.Debug.
func (z *ZerologLogger) Debug(msg string, fields ...any) {
	z.emit(z.logger.Debug(), msg, fields)
}

// Info implements Logger.Info.
func (z *ZerologLogger) Info(msg string, fields ...any) {
	z.emit(z.logger.Info(), msg, fields)
}

// Warn implements Logger.Warn.
func (z *ZerologLogger) Warn(msg string, fields ...any) {
	z.emit(z.logger.Warn(), msg, fields)
}

// Error implements Logger.Error.
func (z *ZerologLogger) Error(msg string, fields ...any) {
	event := z.logger.Error()
	if event == nil {
		return
	}
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			event = event.AnErr(ErrAttrKey, err).
				Str(ErrorKindKey, errors.KindOf(err).String())
			if stack := errors.StackDetail(err); stack != "" {
				event = event.Str(StacktraceKey, stack)
			}
			var obj zerolog.LogObjectMarshaler
			if errors.As(err, &obj) {
				event = event.EmbedObject(obj)
			}
			fields = fields[1:]
		}
	}
	z.emit(event, msg, fields)
}

// With implements Logger.With.
func (z *ZerologLogger) With(fields ...any) Logger {
	ctx := z.logger.With()
	for i := 0; i < len(fields)-1; i += 2 {
		ctx = ctx.Interface(fmt.Sprintf("%v", fields[i]), fieldValue(fields[i+1]))
	}
	return &ZerologLogger{logger: ctx.Logger()}
}

// Enabled implements Logger.Enabled.
func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return z.logger.GetLevel() <= toZerologLevel(level)
}

func (z *ZerologLogger) emit(event *zerolog.Event, msg string, fields []any) {
	if event == nil {
		return
	}
	for i := 0; i < len(fields)-1; i += 2 {
		event = event.Interface(fmt.Sprintf("%v", fields[i]), fieldValue(fields[i+1]))
	}
	event.Msg(msg)
}

func fieldValue(v any) any {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return v
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// ToLogLevel parses a level name.
func ToLogLevel(level string) (Level, error) {
	switch level {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, errors.NewInvalidArgumentError("ToLogLevel", "level", fmt.Sprintf("unknown log level %q", level))
	}
}

var (
	globalMu     sync.RWMutex
	globalLogger Logger = NewZerologLogger(os.Stderr, LevelWarn)
)

// GetLogger returns the process-wide logger.
func GetLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// GetLoggerWithName returns the process-wide logger tagged with a component.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With(ComponentKey, name)
}

// SetLogger replaces the process-wide logger. A nil logger is ignored.
func SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}

// SetupLogger installs a zerolog logger writing to stderr at the named level.
func SetupLogger(level string) error {
	lvl, err := ToLogLevel(level)
	if err != nil {
		return err
	}
	SetLogger(NewZerologLogger(os.Stderr, lvl))
	return nil
}
