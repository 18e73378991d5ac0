package unity

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// httpLogger adapts the global zerolog logger to retryablehttp.LeveledLogger.
type httpLogger struct{}

func (httpLogger) Error(msg string, keysAndValues ...interface{}) {
	emit(log.Error(), msg, keysAndValues)
}

func (httpLogger) Info(msg string, keysAndValues ...interface{}) {
	emit(log.Debug(), msg, keysAndValues)
}

func (httpLogger) Debug(msg string, keysAndValues ...interface{}) {
	emit(log.Debug(), msg, keysAndValues)
}

func (httpLogger) Warn(msg string, keysAndValues ...interface{}) {
	emit(log.Warn(), msg, keysAndValues)
}

func emit(e *zerolog.Event, msg string, keysAndValues []interface{}) {
	e.Fields(keysAndValues).Msg("unity: " + msg)
}
