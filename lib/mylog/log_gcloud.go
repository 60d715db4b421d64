package mylog

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/MarcGrol/libraryshop/lib/mycontext"
)

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		New = newGcloudLogger
		// Cloud Logging parses each stdout line as a JSON entry and adds its own timestamp
		zerolog.LevelFieldName = "severity"
		zerolog.MessageFieldName = "message"
		zerolog.LevelFieldMarshalFunc = toSeverity
	}
}

type structuredLogger struct {
	componentName string
	logger        zerolog.Logger
}

func newGcloudLogger(componentName string) Logger {
	return structuredLogger{
		componentName: componentName,
		logger:        zerolog.New(os.Stdout).With().Str("component", componentName).Logger(),
	}
}

func (l structuredLogger) Log(ctx context.Context, traceLabel string, severity Severity, format string, a ...interface{}) {
	event := l.logger.WithLevel(toLevel(severity))

	if traceLabel != "" {
		event = event.Dict("logging.googleapis.com/labels", zerolog.Dict().Str("aggregate", traceLabel))
	}
	if trace := mycontext.TraceFromContext(ctx); trace != "" {
		event = event.Str("logging.googleapis.com/trace", trace)
	}
	if requestID := mycontext.RequestIDFromContext(ctx); requestID != "" {
		event = event.Str("requestId", requestID)
	}

	event.Msg(l.componentName + ":" + fmt.Sprintf(format, a...))
}

func toLevel(severity Severity) zerolog.Level {
	switch severity {
	case SeverityDebug:
		return zerolog.DebugLevel
	case SeverityWarn:
		return zerolog.WarnLevel
	case SeverityError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func toSeverity(level zerolog.Level) string {
	switch level {
	case zerolog.DebugLevel:
		return "DEBUG"
	case zerolog.WarnLevel:
		return "WARNING"
	case zerolog.ErrorLevel:
		return "ERROR"
	default:
		return "INFO"
	}
}
