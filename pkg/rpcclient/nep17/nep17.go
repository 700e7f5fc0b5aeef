/*
Package nep17 contains RPC wrappers to work with NEP-17 contracts.

TokenReader reads token data and balances, TransferScript builds scripts
that can then be signed and sent with txmanager.
*/
package nep17

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neorpc-go/pkg/core/native/nativehashes"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neorpc-go/pkg/rpcclient/neptoken"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

// Invoker is used by TokenReader to call various safe methods.
type Invoker interface {
	neptoken.Invoker
}

// TokenReader represents safe (read-only) methods of a NEP-17 token.
type TokenReader struct {
	neptoken.Base
}

// NewReader creates an instance of TokenReader for the contract with the
// given hash using the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *TokenReader {
	return &TokenReader{*neptoken.New(invoker, hash)}
}

// NewGASReader is a TokenReader for the native GAS token.
func NewGASReader(invoker Invoker) *TokenReader {
	return NewReader(invoker, nativehashes.GasToken)
}

// Balance returns the balance of the account with token decimals applied.
// It makes two calls: one for decimals and one for the balance.
func (t *TokenReader) Balance(account util.Uint160) (fixedn.Decimal, error) {
	dec, err := t.Decimals()
	if err != nil {
		return fixedn.Decimal{}, fmt.Errorf("failed to get decimals: %w", err)
	}
	bal, err := t.BalanceOf(account)
	if err != nil {
		return fixedn.Decimal{}, fmt.Errorf("failed to get balance: %w", err)
	}
	return fixedn.NewDecimal(bal, dec), nil
}

// TransferScript returns a script transferring amount of the token from one
// account to another. The script fails if transfer returns false. data is
// passed to the recipient's onNEP17Payment, it can be nil.
func TransferScript(token util.Uint160, from util.Uint160, to util.Uint160, amount *big.Int, data any) ([]byte, error) {
	return smartcontract.CreateCallWithAssertScript(token, "transfer", from, to, amount, data)
}
