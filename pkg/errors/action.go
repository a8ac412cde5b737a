package errors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindConfiguration Kind = "CONFIGURATION_ERROR"
	KindPersistence   Kind = "PERSISTENCE_ERROR"
	KindValidation    Kind = "VALIDATION_ERROR"
	KindUnknownAction Kind = "UNKNOWN_ACTION"
	KindConflict      Kind = "CONFLICT"
	KindInternal      Kind = "INTERNAL_ERROR"
)

// ActionError is the fine-grained failure of one handler action. Handlers
// flatten it into their own "<HANDLER>_FAILED" code and keep Kind alongside.
type ActionError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ActionError) Unwrap() error { return e.Err }

func NewConfigurationError(format string, args ...interface{}) error {
	return &ActionError{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

func NewValidationError(format string, args ...interface{}) error {
	return &ActionError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewUnknownActionError(action string) error {
	return &ActionError{Kind: KindUnknownAction, Message: fmt.Sprintf("Unknown action: %s", action)}
}

func NewConflictError(format string, args ...interface{}) error {
	return &ActionError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// NewPersistenceError wraps a store failure. The store's own text stays in
// the message, e.g. "Failed to assign staff: record not found".
func NewPersistenceError(err error, format string, args ...interface{}) error {
	return &ActionError{Kind: KindPersistence, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first ActionError in err's chain.
func KindOf(err error) Kind {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}
