// Package apperrors carries coded domain errors across the engine and its
// transports.
package apperrors

import "errors"

// Code is a machine-readable error code.
type Code string

const (
	CodeSituationNotFound     Code = "SITUATION_NOT_FOUND"
	CodeSituationNotDraft     Code = "SITUATION_NOT_DRAFT"
	CodeIllegalTransition     Code = "SITUATION_ILLEGAL_TRANSITION"
	CodeCumulRegression       Code = "CUMUL_REGRESSION"
	CodeCumulOutOfRange       Code = "CUMUL_OUT_OF_RANGE"
	CodeLineNotFound          Code = "LINE_NOT_FOUND"
	CodeLineAmbiguous         Code = "LINE_AMBIGUOUS"
	CodeStaleBaseline         Code = "STALE_BASELINE"
	CodeDraftAlreadyOpen      Code = "DRAFT_ALREADY_OPEN"
	CodeInvalidDate           Code = "INVALID_DATE"
	CodeUnknownMutation       Code = "UNKNOWN_MUTATION"
	CodeInvalidRequest        Code = "INVALID_REQUEST"
	CodeInvalidMutationFields Code = "INVALID_MUTATION_PROPERTIES"
)

// Kind groups codes by how a caller should react.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	// KindIllegalState is an operation the current status does not allow.
	KindIllegalState
	// KindValidation is a precondition on the record's content that failed.
	KindValidation
	KindConflict
	KindInvalidInput
)

var codeKinds = map[Code]Kind{
	CodeSituationNotFound:     KindNotFound,
	CodeSituationNotDraft:     KindIllegalState,
	CodeIllegalTransition:     KindIllegalState,
	CodeCumulRegression:       KindValidation,
	CodeCumulOutOfRange:       KindValidation,
	CodeLineNotFound:          KindValidation,
	CodeLineAmbiguous:         KindValidation,
	CodeInvalidDate:           KindValidation,
	CodeInvalidMutationFields: KindValidation,
	CodeStaleBaseline:         KindConflict,
	CodeDraftAlreadyOpen:      KindConflict,
	CodeUnknownMutation:       KindInvalidInput,
	CodeInvalidRequest:        KindInvalidInput,
}

// KindOf returns the kind registered for a code.
func KindOf(code Code) Kind {
	return codeKinds[code]
}

// Error is the domain error type.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches by code, so callers can compare against sentinel values.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) Kind() Kind {
	return KindOf(e.Code)
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// KindFromError returns the kind of the first *Error in the chain, or
// KindUnknown for foreign errors such as storage failures.
func KindFromError(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind()
	}
	return KindUnknown
}

// CodeFromError returns the code of the first *Error in the chain.
func CodeFromError(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}
