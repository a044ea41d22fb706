// Package errors provides structured ledger errors.
// Each error carries a machine-readable Code and enough Metadata (ids,
// amounts) for a caller to explain the rejection without re-querying state.
package errors

import "connectrpc.com/connect"

// Code is a machine-readable error code.
type Code string

const (
	CodeUnknown Code = "UNKNOWN"

	CodeNotFound                Code = "NOT_FOUND"
	CodeInvalidAmount           Code = "INVALID_AMOUNT"
	CodeExceedsRemainingBalance Code = "EXCEEDS_REMAINING_BALANCE"
	CodeAccessDenied            Code = "ACCESS_DENIED"
	CodeAlreadyCleared          Code = "ALREADY_CLEARED"
	CodeInvalidArgument         Code = "INVALID_ARGUMENT"
	CodeAlreadyExists           Code = "ALREADY_EXISTS"
	CodeConflict                Code = "CONFLICT"
	CodeUnauthenticated         Code = "UNAUTHENTICATED"
	CodeInternal                Code = "INTERNAL"
)

// ConnectCode maps the domain code onto a Connect status code.
func (c Code) ConnectCode() connect.Code {
	switch c {
	case CodeNotFound:
		return connect.CodeNotFound
	case CodeInvalidAmount, CodeExceedsRemainingBalance, CodeInvalidArgument:
		return connect.CodeInvalidArgument
	case CodeAccessDenied:
		return connect.CodePermissionDenied
	case CodeAlreadyCleared:
		return connect.CodeFailedPrecondition
	case CodeAlreadyExists:
		return connect.CodeAlreadyExists
	case CodeConflict:
		return connect.CodeAborted
	case CodeUnauthenticated:
		return connect.CodeUnauthenticated
	default:
		return connect.CodeInternal
	}
}
