package inject

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes harness errors.
type ErrorCode string

const (
	// ErrCodeNotAFunction indicates the value passed to InjectTestingUtils
	// is not a function.
	ErrCodeNotAFunction ErrorCode = "NOT_A_FUNCTION"

	// ErrCodeArityMismatch indicates the number of parameter names does not
	// match the function's parameter count, or argument counts disagree in
	// callWithObservables.
	ErrCodeArityMismatch ErrorCode = "ARITY_MISMATCH"

	// ErrCodeUnknownInjectable indicates a parameter name has no provider.
	ErrCodeUnknownInjectable ErrorCode = "UNKNOWN_INJECTABLE"

	// ErrCodeTypeMismatch indicates a provider is not assignable to the
	// declared parameter type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// ErrCodeDoneRequired indicates Call was used on an asynchronous wrapper.
	ErrCodeDoneRequired ErrorCode = "DONE_REQUIRED"

	// ErrCodeNotAsync indicates CallWithDone was used on a synchronous wrapper.
	ErrCodeNotAsync ErrorCode = "NOT_ASYNC"
)

// Error is returned for every failure detected by the harness itself.
// Errors returned by the wrapped function pass through untouched.
type Error struct {
	Code ErrorCode

	// Name is the parameter name involved, if any.
	Name string

	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (param=%s)", e.Code, e.Message, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasCode(err error, code ErrorCode) bool {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Code == code
	}
	return false
}

// IsNotAFunction returns true if err reports a non-function argument.
func IsNotAFunction(err error) bool {
	return hasCode(err, ErrCodeNotAFunction)
}

// IsArityMismatch returns true if err reports a parameter count mismatch.
func IsArityMismatch(err error) bool {
	return hasCode(err, ErrCodeArityMismatch)
}

// IsUnknownInjectable returns true if err reports an unregistered name.
// Uses errors.As to handle wrapped errors.
func IsUnknownInjectable(err error) bool {
	return hasCode(err, ErrCodeUnknownInjectable)
}

// IsTypeMismatch returns true if err reports an incompatible provider.
func IsTypeMismatch(err error) bool {
	return hasCode(err, ErrCodeTypeMismatch)
}

func newNotAFunctionError(v any) *Error {
	return &Error{
		Code:    ErrCodeNotAFunction,
		Message: fmt.Sprintf("the first argument has to be a function, got %T", v),
	}
}

func newArityError(want, got int) *Error {
	return &Error{
		Code:    ErrCodeArityMismatch,
		Message: fmt.Sprintf("function takes %d parameters but %d names were given", want, got),
	}
}

func newUnknownInjectableError(name string) *Error {
	return &Error{
		Code:    ErrCodeUnknownInjectable,
		Name:    name,
		Message: "parameter does not match any injectable",
	}
}

func newTypeMismatchError(name string, have, want fmt.Stringer) *Error {
	return &Error{
		Code:    ErrCodeTypeMismatch,
		Name:    name,
		Message: fmt.Sprintf("cannot use %s as %s", have, want),
	}
}
