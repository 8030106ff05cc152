package log

import (
	"maps"
	"slices"
)

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldErrorType     = "error_type"
	FieldSuccess       = "success"
	FieldDuration      = "duration_ms"
	FieldDBPath        = "db_path"
	FieldVersion       = "version"
	FieldTransactionID = "transaction_id"
	FieldCategoryID    = "category_id"
	FieldCategoryName  = "category_name"
	FieldUserID        = "user_id"
	FieldKind          = "kind"
	FieldAmount        = "amount"
	FieldRate          = "rate"
	FieldCurrency      = "currency"
	FieldCount         = "count"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentStorage  = "storage"
	ComponentMigrate  = "migrate"
	ComponentBudget   = "budget"
	ComponentCache    = "cache"
	ComponentSettings = "settings"
	ComponentConfig   = "config"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpConvert  = "convert"
	OpMigrate  = "migrate"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeBusinessRule  = "business_rule_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds the error category
func (f LogFields) WithErrorType(errorType string) LogFields {
	f[FieldErrorType] = errorType
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithSuccess adds success field
func (f LogFields) WithSuccess(ok bool) LogFields {
	f[FieldSuccess] = ok
	return f
}

// WithTransaction adds transaction-related fields
func (f LogFields) WithTransaction(id int64, kind, amount string) LogFields {
	if id > 0 {
		f[FieldTransactionID] = id
	}
	f[FieldKind] = kind
	f[FieldAmount] = amount
	return f
}

// WithCategory adds category-related fields
func (f LogFields) WithCategory(id int64, name string) LogFields {
	if id > 0 {
		f[FieldCategoryID] = id
	}
	if name != "" {
		f[FieldCategoryName] = name
	}
	return f
}

// With adds an arbitrary field
func (f LogFields) With(key string, value any) LogFields {
	f[key] = value
	return f
}

// ToSlice flattens the fields into slog key/value pairs, sorted by key.
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for _, k := range slices.Sorted(maps.Keys(f)) {
		slice = append(slice, k, f[k])
	}
	return slice
}
