package log

import "context"

// OperationLogger logs the outcome of data-layer operations with
// consistent fields.
type OperationLogger struct {
	logger *Logger
}

// NewOperationLogger creates a new operation logger
func NewOperationLogger(logger *Logger) *OperationLogger {
	return &OperationLogger{logger: logger}
}

// LogFailure logs a swallowed store failure.
func (ol *OperationLogger) LogFailure(ctx context.Context, msg string, err error, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithErrorType(ErrorTypeDatabase).
		WithOperation(operation)

	ol.logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}

// LogRejected logs an operation refused by validation or a business rule.
func (ol *OperationLogger) LogRejected(ctx context.Context, msg string, err error, errorType, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithErrorType(errorType).
		WithOperation(operation)

	ol.logger.WarnContext(ctx, msg, allFields.ToSlice()...)
}

// LogSuccess logs a completed write.
func (ol *OperationLogger) LogSuccess(ctx context.Context, msg string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	ol.logger.InfoContext(ctx, msg, fields.WithOperation(operation).WithSuccess(true).ToSlice()...)
}
