package errors

import (
	"errors"

	"connectrpc.com/connect"
)

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Human-readable message, safe to return to callers
	Metadata map[string]string // Ids and amounts behind the failure
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error carrying metadata.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Sentinels for errors.Is comparisons. Only the Code is compared.
var (
	ErrNotFound                = New(CodeNotFound, "not found")
	ErrInvalidAmount           = New(CodeInvalidAmount, "invalid amount")
	ErrExceedsRemainingBalance = New(CodeExceedsRemainingBalance, "amount exceeds remaining balance")
)

// CodeOf returns the Code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// MetadataOf returns the metadata of the first *Error in err's chain.
func MetadataOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Metadata
	}
	return nil
}

// ToConnect converts err into a *connect.Error. Domain errors keep their
// message and carry their code and metadata as response metadata; anything
// else becomes CodeInternal.
func ToConnect(err error) *connect.Error {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}
	var e *Error
	if !errors.As(err, &e) {
		return connect.NewError(connect.CodeInternal, err)
	}
	out := connect.NewError(e.Code.ConnectCode(), errors.New(e.Message))
	out.Meta().Set("Ledger-Error-Code", string(e.Code))
	for k, v := range e.Metadata {
		out.Meta().Set("Ledger-"+k, v)
	}
	return out
}
