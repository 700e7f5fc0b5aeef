package smartcontract

import (
	"errors"
	"fmt"
)

// Script building failure reasons.
var (
	// ErrInvalidTarget is returned when the target contract can't be parsed.
	ErrInvalidTarget = errors.New("invalid target contract")
	// ErrEmptyOperation is returned when the method name is empty.
	ErrEmptyOperation = errors.New("empty operation name")
	// ErrUnsupportedArgument is returned for arguments that can't be
	// represented in a script.
	ErrUnsupportedArgument = errors.New("unsupported argument")
)

// BuildError is returned when a script can't be built from the given input.
// Arg is the index of the offending argument or -1 if the failure is not
// related to any particular argument.
type BuildError struct {
	Arg int
	Err error
}

func newBuildError(arg int, err error) *BuildError {
	return &BuildError{Arg: arg, Err: err}
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Arg >= 0 {
		return fmt.Sprintf("script build failed at argument %d: %s", e.Arg, e.Err)
	}
	return fmt.Sprintf("script build failed: %s", e.Err)
}

// Unwrap returns the underlying reason.
func (e *BuildError) Unwrap() error {
	return e.Err
}
