package formula

import (
	"errors"
	"fmt"
)

// ErrorKind classifies evaluation failures.
type ErrorKind int

const (
	KindSyntax ErrorKind = iota + 1
	KindValue
	KindZeroDivision
	KindOverflow
)

func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "SyntaxError"
	case KindValue:
		return "ValueError"
	case KindZeroDivision:
		return "ZeroDivisionError"
	case KindOverflow:
		return "OverflowError"
	default:
		return "UnknownError"
	}
}

// Sentinels for errors.Is. Every *Error unwraps to the one matching its kind.
var (
	ErrSyntax       = errors.New("syntax error")
	ErrValue        = errors.New("value error")
	ErrZeroDivision = errors.New("division by zero")
	ErrOverflow     = errors.New("numeric overflow")
)

// Error is returned by every stage of the evaluator. Message is the user-facing
// text and is returned verbatim by Error().
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindSyntax:
		return ErrSyntax
	case KindValue:
		return ErrValue
	case KindZeroDivision:
		return ErrZeroDivision
	case KindOverflow:
		return ErrOverflow
	}
	return nil
}

// KindOf reports the kind of a formula error anywhere in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

func syntaxErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindSyntax, Message: fmt.Sprintf(format, args...)}
}

func valueErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValue, Message: fmt.Sprintf(format, args...)}
}

func zeroDivisionErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindZeroDivision, Message: fmt.Sprintf(format, args...)}
}

func overflowErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindOverflow, Message: fmt.Sprintf(format, args...)}
}

func mustCallError(name string) *Error {
	return syntaxErrorf("Function '%s' must be called with parentheses, e.g., %s()", name, name)
}

func missingVariableError(name string) *Error {
	return valueErrorf("Variable '%s' was not provided.", name)
}
