package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared across packages.
const (
	FieldProvider  = "ai_provider"
	FieldModel     = "ai_model"
	FieldSource    = "job_source"
	FieldRequestID = "request_id"
)

type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields. Pairs whose trimmed
// key or value is empty are dropped.
func StringFields(fields ...StringField) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		key, value := strings.TrimSpace(f.Key), strings.TrimSpace(f.Value)
		if key == "" || value == "" {
			continue
		}
		out = append(out, zap.String(key, value))
	}
	return out
}

// WithFields returns log with fields attached. A nil log becomes a no-op
// logger.
func WithFields(log *zap.Logger, fields ...zap.Field) *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	if len(fields) == 0 {
		return log
	}
	return log.With(fields...)
}

// CommonFields describes the oracle behind a log entry.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

func WithCommonFields(log *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(log, CommonFields(provider, model)...)
}

// ForSource tags every entry of log with a job-board source name.
func ForSource(log *zap.Logger, source string) *zap.Logger {
	return WithFields(log, StringFields(StringField{Key: FieldSource, Value: source})...)
}

func RequestID(id string) zap.Field {
	return zap.String(FieldRequestID, id)
}
