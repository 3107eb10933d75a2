package usecase

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an export did not produce an artifact.
type ErrorKind string

const (
	KindValidationFailed  ErrorKind = "VALIDATION_FAILED"
	KindExportFailed      ErrorKind = "EXPORT_FAILED"
	KindUnsupportedFormat ErrorKind = "UNSUPPORTED_FORMAT"
)

// ExportError is the typed error behind every failed Result.
type ExportError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

func validationError(msg string) error {
	return &ExportError{Kind: KindValidationFailed, Message: msg}
}

func exportError(msg string, cause error) error {
	return &ExportError{Kind: KindExportFailed, Message: msg, Cause: cause}
}

// KindOf returns the kind carried by err, defaulting to EXPORT_FAILED.
func KindOf(err error) ErrorKind {
	var ee *ExportError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return KindExportFailed
}
