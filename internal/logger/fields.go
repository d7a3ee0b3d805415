package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared across packages.
const (
	FieldSessionID = "session_id"
	FieldPurpose   = "llm_purpose"
	FieldModel     = "llm_model"
	FieldRequestID = "request_id"
)

// SessionField tags a log entry with an interview session id.
func SessionField(id string) zap.Field {
	return zap.String(FieldSessionID, id)
}

// WithSession returns l annotated with the session id. Blank ids leave l unchanged.
func WithSession(l *zap.Logger, id string) *zap.Logger {
	l = OrNop(l)
	if strings.TrimSpace(id) == "" {
		return l
	}
	return l.With(SessionField(id))
}

// LLMFields returns the purpose and model fields, skipping empty values.
func LLMFields(purpose, model string) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if p := strings.TrimSpace(purpose); p != "" {
		fields = append(fields, zap.String(FieldPurpose, p))
	}
	if m := strings.TrimSpace(model); m != "" {
		fields = append(fields, zap.String(FieldModel, m))
	}
	return fields
}
