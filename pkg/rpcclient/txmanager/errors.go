package txmanager

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/address"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

var (
	// ErrAlreadySigned is returned on any attempt to change a transaction
	// that has all of its witnesses.
	ErrAlreadySigned = errors.New("transaction is already signed")
	// ErrIncompleteSignatures is returned when a signed transaction is
	// requested before every signer reached its signature threshold.
	ErrIncompleteSignatures = errors.New("not enough signatures")
	// ErrUnknownSigner is returned for accounts and keys not used by any
	// signer of the transaction.
	ErrUnknownSigner = errors.New("unknown signer")
	// ErrNoSigners is returned when a transaction is drafted without signers.
	ErrNoSigners = errors.New("at least one signer (sender) is required")
	// ErrNoPublicKey is returned for signatures and key providers without
	// a public key.
	ErrNoPublicKey = errors.New("no public key")
)

// FeeEstimationError is returned when the fee-defining data can't be
// obtained from the node. Err is either the RPC error or
// *unwrap.FaultError if the test invocation of the script failed.
type FeeEstimationError struct {
	Err error
}

// Error implements the error interface.
func (e *FeeEstimationError) Error() string {
	return "fee estimation failed: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *FeeEstimationError) Unwrap() error {
	return e.Err
}

// InsufficientFundsError is returned when the calculated fee exceeds the
// limit set in Options.
type InsufficientFundsError struct {
	// Fee is either "system" or "network".
	Fee      string
	Required int64
	Limit    int64
}

// Error implements the error interface.
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s fee %s GAS exceeds the limit of %s GAS", e.Fee,
		fixedn.Fixed8(e.Required), fixedn.Fixed8(e.Limit))
}

// SignatureMismatchError is returned for signatures that can't be used by
// the signer: the signature doesn't verify against the key and the
// transaction or the key is not a part of the signer's script.
type SignatureMismatchError struct {
	Account util.Uint160
	Key     *keys.PublicKey
	Err     error
}

// Error implements the error interface.
func (e *SignatureMismatchError) Error() string {
	key := "<nil>"
	if e.Key != nil {
		key = e.Key.StringCompressed()
	}
	return fmt.Sprintf("bad signature of %s for %s: %s", key,
		address.Uint160ToString(e.Account), e.Err)
}

// Unwrap returns the underlying error.
func (e *SignatureMismatchError) Unwrap() error {
	return e.Err
}
