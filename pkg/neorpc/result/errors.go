package result

import (
	"errors"

	"github.com/nspcc-dev/neorpc-go/pkg/neorpc"
)

// errMissing is the cause of the decode error for absent required fields.
var errMissing = errors.New("missing required field")

func fieldError(field string, err error) error {
	return &neorpc.DecodeError{Field: field, Err: err}
}
