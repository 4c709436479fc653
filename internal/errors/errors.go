package errors

import (
	"fmt"
	"log/slog"
	"os"
)

// ErrorType buckets failures by where they originate, so handlers and log
// pipelines can branch on category without matching codes.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeEngine     ErrorType = "engine"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError is the structured error carried across package boundaries: a
// category, a stable machine-readable code, and an optional wrapped cause.
type AppError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"cause,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func newAppError(typ ErrorType, code, message string, cause error) *AppError {
	return &AppError{
		Type:    typ,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewValidationError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, code, message, cause)
}

func NewIOError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeIO, code, message, cause)
}

func NewEngineError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeEngine, code, message, cause)
}

func NewNetworkError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeNetwork, code, message, cause)
}

func NewConfigError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeConfig, code, message, cause)
}

func NewInternalError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, code, message, cause)
}

// WithContext attaches a key/value pair that LogError will emit alongside
// the error fields.
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Logger wraps slog so AppError fields land as structured attributes
// instead of a flattened string.
type Logger struct {
	logger *slog.Logger
}

// NewLogger emits JSON records to stdout at the given level.
func NewLogger(level slog.Level) *Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(handler)

	return &Logger{logger: logger}
}

// LogError records an error with its structured fields when it is an
// AppError, or as a plain error attribute otherwise.
func (l *Logger) LogError(err error, message string, args ...any) {
	appErr, ok := err.(*AppError)
	if !ok {
		l.logger.Error(message, append([]any{"error", err.Error()}, args...)...)
		return
	}

	logArgs := []any{
		"error_type", appErr.Type,
		"error_code", appErr.Code,
		"error_message", appErr.Message,
	}
	for key, value := range appErr.Context {
		logArgs = append(logArgs, key, value)
	}
	logArgs = append(logArgs, args...)

	l.logger.Error(message, logArgs...)
}

func (l *Logger) Info(message string, args ...any) {
	l.logger.Info(message, args...)
}

func (l *Logger) Debug(message string, args ...any) {
	l.logger.Debug(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.logger.Warn(message, args...)
}

// New builds a logger from a config-style level name.
func New(level string) (*Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	return NewLogger(slogLevel), nil
}

// Stable error codes shared across the CLI and HTTP surfaces.
const (
	ErrCodeFileNotFound    = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable = "FILE_NOT_READABLE"
	ErrCodeInvalidFormat   = "INVALID_FORMAT"
	ErrCodeEmptyContent    = "EMPTY_CONTENT"
	ErrCodeEngineFailed    = "ENGINE_FAILED"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeNetworkTimeout  = "NETWORK_TIMEOUT"
	ErrCodeInvalidConfig   = "INVALID_CONFIG"
)

// NewEmptyContentError reports missing or whitespace-only resume content. It is
// the engine's only validation failure; any other malformed input degrades to
// unclassified sections and low scores instead of erroring.
func NewEmptyContentError(field string) *AppError {
	return NewValidationError(ErrCodeEmptyContent,
		fmt.Sprintf("%s must not be empty or whitespace-only", field), nil).
		WithContext("field", field)
}

// IsEmptyContent reports whether err is an empty-content validation error.
func IsEmptyContent(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == ErrCodeEmptyContent
}
