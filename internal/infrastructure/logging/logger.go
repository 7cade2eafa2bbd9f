package logging

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger define la interfaz principal para logging estructurado
type Logger interface {
	Debug(ctx context.Context, message string, fields Fields)
	Info(ctx context.Context, message string, fields Fields)
	Warn(ctx context.Context, message string, fields Fields)
	Error(ctx context.Context, message string, fields Fields)

	WarnWithError(ctx context.Context, message string, err error, fields Fields)
	ErrorWithError(ctx context.Context, message string, err error, fields Fields)

	SetLevel(level LogLevel)
	GetLevel() LogLevel
}

// StructuredLogger implementa Logger sobre logrus
type StructuredLogger struct {
	config *LoggerConfig
	logger *logrus.Logger
}

// NewStructuredLogger crea un nuevo logger estructurado
func NewStructuredLogger(config *LoggerConfig) (*StructuredLogger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	base := logrus.New()
	base.SetOutput(config.Output)
	base.SetLevel(toLogrusLevel(config.Level))

	switch config.Format {
	case FormatText:
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
		})
	default:
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	}

	return &StructuredLogger{
		config: config,
		logger: base,
	}, nil
}

// entry arma la entrada de logrus con los campos comunes y los del contexto
func (sl *StructuredLogger) entry(ctx context.Context, fields Fields) *logrus.Entry {
	e := sl.logger.WithField(FieldService, sl.config.Service)
	if sl.config.Version != "" {
		e = e.WithField(FieldVersion, sl.config.Version)
	}
	if sl.config.Environment != "" {
		e = e.WithField(FieldEnvironment, sl.config.Environment)
	}

	if requestID := GetRequestID(ctx); requestID != "" {
		e = e.WithField(FieldRequestID, requestID)
	}
	if startTime := GetStartTime(ctx); !startTime.IsZero() {
		e = e.WithField(FieldElapsed, durationMs(time.Since(startTime)))
	}

	if len(fields) > 0 {
		e = e.WithFields(logrus.Fields(fields))
	}
	return e
}

func (sl *StructuredLogger) Debug(ctx context.Context, message string, fields Fields) {
	sl.entry(ctx, fields).Debug(message)
}

func (sl *StructuredLogger) Info(ctx context.Context, message string, fields Fields) {
	sl.entry(ctx, fields).Info(message)
}

func (sl *StructuredLogger) Warn(ctx context.Context, message string, fields Fields) {
	sl.entry(ctx, fields).Warn(message)
}

func (sl *StructuredLogger) Error(ctx context.Context, message string, fields Fields) {
	sl.entry(ctx, fields).Error(message)
}

// WarnWithError logs a warning message with error details
func (sl *StructuredLogger) WarnWithError(ctx context.Context, message string, err error, fields Fields) {
	sl.entry(ctx, enrichWithError(fields, err)).Warn(message)
}

// ErrorWithError logs an error message with error details
func (sl *StructuredLogger) ErrorWithError(ctx context.Context, message string, err error, fields Fields) {
	sl.entry(ctx, enrichWithError(fields, err)).Error(message)
}

// SetLevel establece el nivel de logging
func (sl *StructuredLogger) SetLevel(level LogLevel) {
	sl.config.Level = level
	sl.logger.SetLevel(toLogrusLevel(level))
}

// GetLevel retorna el nivel actual de logging
func (sl *StructuredLogger) GetLevel() LogLevel {
	return sl.config.Level
}

// enrichWithError enriquece los campos con información del error
func enrichWithError(fields Fields, err error) Fields {
	if err == nil {
		return fields
	}
	return mergeFields(fields, Fields{
		FieldError:     err.Error(),
		FieldErrorType: errorType(err),
	})
}

func toLogrusLevel(level LogLevel) logrus.Level {
	switch level {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
