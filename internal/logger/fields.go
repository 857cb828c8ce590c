package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldMethod is the structured log field key for the HTTP method.
	FieldMethod = "method"
	// FieldPath is the structured log field key for the API path.
	FieldPath = "path"
	// FieldRequestID is the structured log field key for the X-Request-ID value.
	FieldRequestID = "request_id"
	// FieldQueryKey is the structured log field key for a query cache key.
	FieldQueryKey = "query_key"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// RequestFields returns the fields describing a single API call.
func RequestFields(method, path, requestID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldMethod, Value: method},
		StringField{Key: FieldPath, Value: path},
		StringField{Key: FieldRequestID, Value: requestID},
	)
}

// WithRequestFields attaches the request fields to logger.
func WithRequestFields(logger *zap.Logger, method, path, requestID string) *zap.Logger {
	return WithFields(logger, RequestFields(method, path, requestID)...)
}
