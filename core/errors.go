package core

import (
	"errors"
	"fmt"
)

const (
	errorTypeIndex        = "IndexError"
	errorTypeArgument     = "ArgumentError"
	errorTypeType         = "TypeError"
	errorTypeZeroDivision = "ZeroDivisionError"
	errorTypeNoMethod     = "NoMethodError"
	errorTypeKey          = "KeyError"
)

var (
	ErrIndexTooSmall  = errors.New("index too small")
	ErrUnsupportedGap = errors.New("write past end of array")
	ErrNegativeLength = errors.New("negative length")
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrZeroDivision   = errors.New("divided by 0")
	ErrNoMethod       = errors.New("undefined method")
	ErrKeyNotFound    = errors.New("key not found")
	ErrArgument       = errors.New("invalid argument")
)

// RuntimeError is the single error shape raised by container operations.
// Type names the language-level exception class; Is matches the sentinel the
// error was raised for.
type RuntimeError struct {
	Type    string
	Message string
	kind    error
}

func (re *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", re.Type, re.Message)
}

func (re *RuntimeError) Is(target error) bool {
	return re.kind != nil && re.kind == target
}

func newRuntimeError(typ string, kind error, format string, args ...any) error {
	return &RuntimeError{Type: typ, Message: fmt.Sprintf(format, args...), kind: kind}
}

func indexTooSmall(index, length int) error {
	return newRuntimeError(errorTypeIndex, ErrIndexTooSmall,
		"index %d too small for array; minimum: -%d", index, length)
}

func unsupportedGap(index, length int) error {
	return newRuntimeError(errorTypeIndex, ErrUnsupportedGap,
		"index %d is past the end of array of length %d", index, length)
}

func negativeLength(n int) error {
	return newRuntimeError(errorTypeIndex, ErrNegativeLength, "negative length (%d)", n)
}

func typeMismatch(format string, args ...any) error {
	return newRuntimeError(errorTypeType, ErrTypeMismatch, format, args...)
}

func argumentError(format string, args ...any) error {
	return newRuntimeError(errorTypeArgument, ErrArgument, format, args...)
}

func zeroDivision() error {
	return newRuntimeError(errorTypeZeroDivision, ErrZeroDivision, "divided by 0")
}

func noMethod(name string, receiver Value) error {
	return newRuntimeError(errorTypeNoMethod, ErrNoMethod,
		"undefined method '%s' for %s", name, receiver.kind)
}

func keyNotFound(key Value) error {
	return newRuntimeError(errorTypeKey, ErrKeyNotFound, "key not found: %s", key.Inspect())
}

// ErrorType returns the language exception class for err, or "RuntimeError"
// when err did not originate in this package.
func ErrorType(err error) string {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Type
	}
	return "RuntimeError"
}
