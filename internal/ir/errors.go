package ir

import (
	"errors"
	"fmt"
)

// Error reports why a record could not be built.
//
// Every kind is fail-fast: the pipeline stops at the first Error and nothing
// reaches a sink. Error includes structured fields for diagnostics.
type Error struct {
	// Kind identifies the error category.
	Kind ErrorKind

	// Message is a human-readable description.
	Message string

	// Name is the field or hole name involved, if any.
	Name string

	// Offset is the byte offset in the template or declaration, or -1.
	Offset int

	// Cause is the underlying failure for capture errors.
	Cause error
}

// ErrorKind categorizes record construction errors.
type ErrorKind string

const (
	// ErrParse indicates a malformed template or field declaration.
	ErrParse ErrorKind = "PARSE"

	// ErrConflict indicates a hole and an extra entry both supply a value.
	ErrConflict ErrorKind = "CONFLICT"

	// ErrUnresolvedHole indicates a hole with neither an inline value nor an extra.
	ErrUnresolvedHole ErrorKind = "UNRESOLVED_HOLE"

	// ErrDuplicateKey indicates two resolved fields share a name.
	ErrDuplicateKey ErrorKind = "DUPLICATE_KEY"

	// ErrCapture indicates a value could not be produced by its capture strategy.
	ErrCapture ErrorKind = "CAPTURE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Name != "" && e.Offset >= 0:
		return fmt.Sprintf("%s: %s (field=%s, offset=%d)", e.Kind, e.Message, e.Name, e.Offset)
	case e.Name != "":
		return fmt.Sprintf("%s: %s (field=%s)", e.Kind, e.Message, e.Name)
	case e.Offset >= 0:
		return fmt.Sprintf("%s: %s (offset=%d)", e.Kind, e.Message, e.Offset)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// NewParseError creates an Error for malformed input at offset.
func NewParseError(offset int, format string, args ...any) *Error {
	return &Error{Kind: ErrParse, Message: fmt.Sprintf(format, args...), Offset: offset}
}

// NewConflictError creates an Error for a value supplied twice.
func NewConflictError(name string, offset int) *Error {
	return &Error{
		Kind:    ErrConflict,
		Message: "hole and extra field both supply a value; keep the hole bare and put the value and attributes on the extra field",
		Name:    name,
		Offset:  offset,
	}
}

// NewUnresolvedHoleError creates an Error for a hole with no value source.
func NewUnresolvedHoleError(name string, offset int) *Error {
	return &Error{
		Kind:    ErrUnresolvedHole,
		Message: "hole has no inline value and no matching field",
		Name:    name,
		Offset:  offset,
	}
}

// NewDuplicateKeyError creates an Error for a repeated field name.
func NewDuplicateKeyError(name string) *Error {
	return &Error{
		Kind:    ErrDuplicateKey,
		Message: "keys cannot be duplicated",
		Name:    name,
		Offset:  -1,
	}
}

// NewCaptureError creates an Error for a value its strategy cannot capture.
func NewCaptureError(name string, cause error) *Error {
	return &Error{
		Kind:    ErrCapture,
		Message: cause.Error(),
		Name:    name,
		Offset:  -1,
		Cause:   cause,
	}
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the ErrorKind of err, or "" when err is not an *Error.
// Uses errors.As to handle wrapped errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsParseError returns true if err is a parse error.
func IsParseError(err error) bool { return KindOf(err) == ErrParse }

// IsConflictError returns true if err is a conflict error.
func IsConflictError(err error) bool { return KindOf(err) == ErrConflict }

// IsUnresolvedHoleError returns true if err is an unresolved hole error.
func IsUnresolvedHoleError(err error) bool { return KindOf(err) == ErrUnresolvedHole }

// IsDuplicateKeyError returns true if err is a duplicate key error.
func IsDuplicateKeyError(err error) bool { return KindOf(err) == ErrDuplicateKey }

// IsCaptureError returns true if err is a capture error.
func IsCaptureError(err error) bool { return KindOf(err) == ErrCapture }
