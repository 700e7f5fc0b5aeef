/*
Package management allows to test-invoke contracts and deploy new ones via
the native ContractManagement contract.

Test invocations never create transactions. Deployments are drafted and
signed with txmanager by the deploying key alone, the signed transaction is
returned so that it can be sent (or stored) by the caller.
*/
package management

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neorpc-go/pkg/core/native/nativehashes"
	"github.com/nspcc-dev/neorpc-go/pkg/core/state"
	"github.com/nspcc-dev/neorpc-go/pkg/core/transaction"
	"github.com/nspcc-dev/neorpc-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neorpc-go/pkg/rpcclient/txmanager"
	"github.com/nspcc-dev/neorpc-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

// Invoker is used by ContractReader and Client to run scripts.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	Run(script []byte) (*result.Invoke, error)
}

// Drafter creates transactions, *txmanager.Manager implements it.
type Drafter interface {
	Draft(script []byte, signers []txmanager.Signer) (*txmanager.Tx, error)
}

// Hash stores the hash of the native ContractManagement contract.
var Hash = nativehashes.ContractManagement

// ContractReader provides an interface to call read-only ContractManagement
// methods.
type ContractReader struct {
	invoker Invoker
}

// Client allows to test-invoke contracts and to create deployment
// transactions.
type Client struct {
	ContractReader

	drafter Drafter
}

// Deployment is a signed deployment transaction with the hash the contract
// will have after it's accepted.
type Deployment struct {
	Tx       *transaction.Transaction
	Contract util.Uint160
}

// NewReader creates an instance of ContractReader for the given invoker.
func NewReader(invoker Invoker) *ContractReader {
	return &ContractReader{invoker}
}

// New creates a Client, drafter can be nil if Deploy is not needed.
func New(invoker Invoker, drafter Drafter) *Client {
	return &Client{*NewReader(invoker), drafter}
}

// GetMinimumDeploymentFee returns the minimal GAS amount a deployment
// transaction has to burn in addition to the execution costs.
func (c *ContractReader) GetMinimumDeploymentFee() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(Hash, "getMinimumDeploymentFee"))
}

// HasMethod checks if there is a method with the given name and number of
// parameters in the contract.
func (c *ContractReader) HasMethod(hash util.Uint160, method string, pcount int) (bool, error) {
	return unwrap.Bool(c.invoker.Call(Hash, "hasMethod", hash, method, pcount))
}

// TestInvoke runs the operation of the target contract with the given
// arguments without creating a transaction, nothing is changed on chain.
// Script creation errors are *smartcontract.BuildError.
func (c *Client) TestInvoke(target util.Uint160, operation string, args ...any) (*result.Invoke, error) {
	script, err := smartcontract.CreateCallScript(target, operation, args...)
	if err != nil {
		return nil, err
	}
	return c.invoker.Run(script)
}

// Deploy creates a transaction deploying the contract and signs it with the
// key, the key's account is the sender and the only signer. data is passed
// to the contract's _deploy method, it can be nil.
func (c *Client) Deploy(nefFile *nef.File, m *manifest.Manifest, data any, key txmanager.KeyProvider) (*Deployment, error) {
	if c.drafter == nil {
		return nil, errors.New("no transaction manager")
	}
	pub := key.PublicKey()
	if pub == nil {
		return nil, errors.New("no public key")
	}
	sender := pub.GetScriptHash()
	contract := state.CreateContractHash(sender, nefFile.Checksum, m.Name)
	if err := m.IsValid(contract); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	rawNef, err := nefFile.Bytes()
	if err != nil {
		return nil, fmt.Errorf("bad NEF file: %w", err)
	}
	rawManif, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("bad manifest: %w", err)
	}
	script, err := smartcontract.CreateDeploymentScript(rawNef, rawManif, data)
	if err != nil {
		return nil, err
	}
	tx, err := c.drafter.Draft(script, []txmanager.Signer{{
		Signer: transaction.Signer{
			Account: sender,
			Scopes:  transaction.CalledByEntry,
		},
		Script: pub.GetVerificationScript(),
	}})
	if err != nil {
		return nil, err
	}
	if err := tx.Sign(key); err != nil {
		return nil, err
	}
	signed, err := tx.Signed()
	if err != nil {
		return nil, err
	}
	return &Deployment{Tx: signed, Contract: contract}, nil
}
