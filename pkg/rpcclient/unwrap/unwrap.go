/*
Package unwrap turns test invocation results into Go values.

Every function here accepts the (*result.Invoke, error) pair returned by
InvokeFunction and friends, so calls can be wrapped directly:

	supply, err := unwrap.BigInt(inv.Call(token, "totalSupply"))

The invocation must end in HALT state with exactly one item on the stack,
otherwise an error is returned. Faulted invocations produce *FaultError.
*/
package unwrap

import (
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neorpc-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/vmstate"
)

var (
	// ErrEmptyStack is returned when the invocation returned nothing.
	ErrEmptyStack = errors.New("result stack is empty")
	// ErrTooManyItems is returned when the invocation left more than one
	// item on the stack.
	ErrTooManyItems = errors.New("too many result items")
)

// FaultError is returned for invocations that didn't end in HALT state.
type FaultError struct {
	State     string
	Exception string
	// GasConsumed is the amount of GAS burnt before the fault.
	GasConsumed int64
}

// Error implements the error interface.
func (e *FaultError) Error() string {
	return fmt.Sprintf("invocation failed (%s): %s", e.State, e.Exception)
}

// Check returns the error if any or a FaultError for non-HALT results. It
// doesn't look at the stack.
func Check(r *result.Invoke, err error) error {
	if err != nil {
		return err
	}
	if r.State != vmstate.Halt.String() {
		return &FaultError{State: r.State, Exception: r.FaultException, GasConsumed: r.GasConsumed}
	}
	return nil
}

// Item returns the only stack item of a successful invocation.
func Item(r *result.Invoke, err error) (stackitem.Item, error) {
	if err := Check(r, err); err != nil {
		return nil, err
	}
	switch len(r.Stack) {
	case 0:
		return nil, ErrEmptyStack
	case 1:
		return r.Stack[0], nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrTooManyItems, len(r.Stack))
	}
}

// BigInt extracts an integer.
func BigInt(r *result.Invoke, err error) (*big.Int, error) {
	itm, err := Item(r, err)
	if err != nil {
		return nil, err
	}
	return itm.TryInteger()
}

// Bool extracts a boolean.
func Bool(r *result.Invoke, err error) (bool, error) {
	itm, err := Item(r, err)
	if err != nil {
		return false, err
	}
	return itm.TryBool()
}

// Int64 extracts an integer that must fit into int64.
func Int64(r *result.Invoke, err error) (int64, error) {
	i, err := BigInt(r, err)
	if err != nil {
		return 0, err
	}
	if !i.IsInt64() {
		return 0, errors.New("int64 overflow")
	}
	return i.Int64(), nil
}

// LimitedInt64 is like Int64, but also checks the value to be in the
// [min, max] range.
func LimitedInt64(r *result.Invoke, err error, min int64, max int64) (int64, error) {
	i, err := Int64(r, err)
	if err != nil {
		return 0, err
	}
	if i < min || i > max {
		return 0, fmt.Errorf("value %d is out of [%d, %d] range", i, min, max)
	}
	return i, nil
}

// Bytes extracts a byte slice.
func Bytes(r *result.Invoke, err error) ([]byte, error) {
	itm, err := Item(r, err)
	if err != nil {
		return nil, err
	}
	return itm.TryBytes()
}

// UTF8String extracts a valid UTF-8 string.
func UTF8String(r *result.Invoke, err error) (string, error) {
	b, err := Bytes(r, err)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("not a UTF-8 string")
	}
	return string(b), nil
}

// PrintableASCIIString extracts a string of printable ASCII characters
// (token symbols are like that).
func PrintableASCIIString(r *result.Invoke, err error) (string, error) {
	s, err := UTF8String(r, err)
	if err != nil {
		return "", err
	}
	for _, c := range s {
		if c < 32 || c >= 127 {
			return "", errors.New("not a printable ASCII string")
		}
	}
	return s, nil
}

// Uint160 extracts a script hash stored in the BE form.
func Uint160(r *result.Invoke, err error) (util.Uint160, error) {
	b, err := Bytes(r, err)
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}

// Array extracts array (or structure) elements.
func Array(r *result.Invoke, err error) ([]stackitem.Item, error) {
	itm, err := Item(r, err)
	if err != nil {
		return nil, err
	}
	arr, ok := itm.Value().([]stackitem.Item)
	if !ok {
		return nil, fmt.Errorf("%s is not an array", itm.Type())
	}
	return arr, nil
}

// ArrayOfPublicKeys extracts an array of compressed public keys.
func ArrayOfPublicKeys(r *result.Invoke, err error) (keys.PublicKeys, error) {
	arr, err := Array(r, err)
	if err != nil {
		return nil, err
	}
	pks := make(keys.PublicKeys, len(arr))
	for i, item := range arr {
		val, err := item.TryBytes()
		if err != nil {
			return nil, fmt.Errorf("invalid array element #%d: %s", i, item.Type())
		}
		pks[i], err = keys.NewPublicKeyFromBytes(val, elliptic.P256())
		if err != nil {
			return nil, fmt.Errorf("array element #%d is not a key: %w", i, err)
		}
	}
	return pks, nil
}

// SessionIterator extracts an iterator along with the session it belongs to,
// use Client.TraverseIterator to get its values.
func SessionIterator(r *result.Invoke, err error) (uuid.UUID, result.Iterator, error) {
	itm, err := Item(r, err)
	if err != nil {
		return uuid.UUID{}, result.Iterator{}, err
	}
	if t := itm.Type(); t != stackitem.InteropT {
		return uuid.UUID{}, result.Iterator{}, fmt.Errorf("expected InteropInterface, got %s", t)
	}
	iter, ok := itm.Value().(result.Iterator)
	if !ok {
		return uuid.UUID{}, result.Iterator{}, errors.New("the item is InteropInterface, but not an Iterator")
	}
	if (r.Session == uuid.UUID{}) && iter.ID != nil {
		return uuid.UUID{}, result.Iterator{}, errors.New("server returned iterator ID, but no session ID")
	}
	return r.Session, iter, nil
}
