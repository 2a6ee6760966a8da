// Package logging owns the process-wide structured logger.  Every line is a
// single JSON object with the fields level, message and logger, plus
// exc_info when an error is attached.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// ServiceName is the logger name used by application code.
const ServiceName = "a2eg-backend"

const loggerFieldName = "logger"

var (
	baseLogger   zerolog.Logger
	baseLoggerMu sync.RWMutex
	configure    sync.Once
)

func init() {
	setBaseLogger(newLogger(os.Stdout, zerolog.InfoLevel))
}

// Init configures the global logger.  It is meant to run once during
// startup, before the first request is served.
func Init(level string) {
	setBaseLogger(newLogger(os.Stdout, ParseLevel(level)))
}

// ParseLevel maps a configuration value to a zerolog level, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "critical", "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// levelName renders levels with the upper-case names operators know from
// Python services.
func levelName(l zerolog.Level) string {
	switch l {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return "DEBUG"
	case zerolog.InfoLevel:
		return "INFO"
	case zerolog.WarnLevel:
		return "WARNING"
	case zerolog.ErrorLevel:
		return "ERROR"
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return "CRITICAL"
	default:
		return strings.ToUpper(l.String())
	}
}

func newLogger(writer io.Writer, level zerolog.Level) zerolog.Logger {
	configure.Do(func() {
		zerolog.LevelFieldName = "level"
		zerolog.MessageFieldName = "message"
		zerolog.ErrorFieldName = "exc_info"
		zerolog.LevelFieldMarshalFunc = levelName
	})
	return zerolog.New(writer).Level(level)
}

func setBaseLogger(logger zerolog.Logger) {
	baseLoggerMu.Lock()
	baseLogger = logger
	baseLoggerMu.Unlock()
}

// L returns the root logger.
func L() *zerolog.Logger {
	return Named("root")
}

// Named returns a logger reporting the given logger name.
func Named(name string) *zerolog.Logger {
	baseLoggerMu.RLock()
	logger := baseLogger
	baseLoggerMu.RUnlock()
	named := logger.With().Str(loggerFieldName, name).Logger()
	return &named
}
