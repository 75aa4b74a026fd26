package typoscript

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrPathMalformed        = NewError("path segment not well-formed")
	ErrNotRenderable        = NewError("path could not be rendered")
	ErrReservedName         = NewError("reserved name already bound in context")
	ErrUnknownProperty      = NewError("unknown property")
	ErrUnknownProcessor     = NewError("unknown processor")
	ErrImplementationExists = NewError("implementation already registered")
	ErrMaxDepthExceeded     = NewError("maximum evaluation depth exceeded")
	ErrExprCompile          = NewError("expression compilation failed")
	ErrExprEvaluate         = NewError("expression evaluation failed")
	ErrReadInput            = NewError("failed to read input")
	ErrDecodeTree           = NewError("failed to decode configuration tree")
	ErrInvalidValueType     = NewError("invalid value type")
)

// Reasons attached to [ErrNotRenderable].
const (
	ReasonTypeMissing           = "object type missing"
	ReasonImplementationMissing = "implementation missing for resolved type"
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
//
// Errors derived from a sentinel through [Error.Wrap] or [Error.With] match
// that sentinel with [errors.Is].
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2+len(e.attrs))

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if reason, ok := e.Attr("reason"); ok {
		part = append(part, reason.String())
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an [*Error] with the same message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// Attr returns the value of the most recently added attribute named key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for i := len(e.attrs) - 1; i >= 0; i-- {
		if e.attrs[i].Key == key {
			return e.attrs[i].Value, true
		}
	}

	return slog.Value{}, false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// IsFatal reports whether err must escape the render boundary even when
// runtime exceptions are caught. Configuration contract violations are
// fatal; failures of the objects and expressions being rendered are not.
func IsFatal(err error) bool {
	return errors.Is(err, ErrPathMalformed) ||
		errors.Is(err, ErrReservedName) ||
		errors.Is(err, ErrMaxDepthExceeded)
}
