/*
Package policy allows to read the native PolicyContract settings via RPC.

These settings are the inputs of the network fee calculation: the per-byte
fee and the execution fee factor applied to verification scripts.
*/
package policy

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neorpc-go/pkg/core/native/nativehashes"
	"github.com/nspcc-dev/neorpc-go/pkg/core/transaction"
	"github.com/nspcc-dev/neorpc-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neorpc-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

// Invoker is used by ContractReader to call various methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	Run(script []byte) (*result.Invoke, error)
}

// Hash stores the hash of the native PolicyContract contract.
var Hash = nativehashes.PolicyContract

// FeeParams are the network settings needed to calculate transaction fees.
type FeeParams struct {
	FeePerByte    int64
	ExecFeeFactor int64
}

// ContractReader provides an interface to call read-only PolicyContract
// contract's methods.
type ContractReader struct {
	invoker Invoker
}

// NewReader creates an instance of ContractReader to get data from the
// PolicyContract contract.
func NewReader(invoker Invoker) *ContractReader {
	return &ContractReader{invoker}
}

// GetExecFeeFactor returns current execution fee factor used by the network.
// This setting affects all executions of all transactions.
func (c *ContractReader) GetExecFeeFactor() (int64, error) {
	return unwrap.Int64(c.invoker.Call(Hash, "getExecFeeFactor"))
}

// GetFeePerByte returns current minimal per-byte network fee value which
// affects all transactions on the network.
func (c *ContractReader) GetFeePerByte() (int64, error) {
	return unwrap.Int64(c.invoker.Call(Hash, "getFeePerByte"))
}

// GetStoragePrice returns current per-byte storage price.
func (c *ContractReader) GetStoragePrice() (int64, error) {
	return unwrap.Int64(c.invoker.Call(Hash, "getStoragePrice"))
}

// GetAttributeFee returns current fee for the specified attribute usage.
func (c *ContractReader) GetAttributeFee(t transaction.AttrType) (int64, error) {
	return unwrap.Int64(c.invoker.Call(Hash, "getAttributeFee", byte(t)))
}

// IsBlocked checks if the given account is blocked in the PolicyContract.
func (c *ContractReader) IsBlocked(account util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(Hash, "isBlocked", account))
}

// GetFeeParams returns both fee settings at once, they're read by a single
// script, so the values are consistent with each other.
func (c *ContractReader) GetFeeParams() (FeeParams, error) {
	b := smartcontract.NewBuilder()
	b.InvokeMethod(Hash, "getFeePerByte")
	b.InvokeMethod(Hash, "getExecFeeFactor")
	script, err := b.Script()
	if err != nil {
		return FeeParams{}, err
	}
	r, err := c.invoker.Run(script)
	if err := unwrap.Check(r, err); err != nil {
		return FeeParams{}, err
	}
	if len(r.Stack) != 2 {
		return FeeParams{}, fmt.Errorf("expected 2 result items, got %d", len(r.Stack))
	}
	var res [2]int64
	for i := range res {
		v, err := r.Stack[i].TryInteger()
		if err != nil {
			return FeeParams{}, fmt.Errorf("result item %d: %w", i, err)
		}
		if !v.IsInt64() || v.Sign() < 0 {
			return FeeParams{}, fmt.Errorf("result item %d: %w", i, errors.New("invalid fee value"))
		}
		res[i] = v.Int64()
	}
	return FeeParams{FeePerByte: res[0], ExecFeeFactor: res[1]}, nil
}
