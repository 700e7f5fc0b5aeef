/*
Package invoker test-executes contract calls at the current chain state.

Calls are turned into scripts locally (the same scripts a transaction would
carry) and simulated with invokescript, so the result also tells the GAS
a transaction doing the same thing would need. Nothing is ever sent to the
network from here.
*/
package invoker

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neorpc-go/pkg/core/transaction"
	"github.com/nspcc-dev/neorpc-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/stackitem"
)

// ErrNoSessions is returned by session-related methods when the client
// doesn't implement RPCSessions.
var ErrNoSessions = errors.New("client doesn't support iterator sessions")

// RPCInvoke is a set of RPC methods needed to execute things at the current
// blockchain height.
type RPCInvoke interface {
	InvokeContractVerify(contract util.Uint160, params []smartcontract.Parameter, signers []transaction.Signer, witnesses ...transaction.Witness) (*result.Invoke, error)
	InvokeScript(script []byte, signers []transaction.Signer) (*result.Invoke, error)
}

// RPCSessions is a set of RPC methods needed to retrieve values from
// iterator sessions.
type RPCSessions interface {
	TerminateSession(sessionID uuid.UUID) (bool, error)
	TraverseIterator(sessionID, iteratorID uuid.UUID, maxItemsCount int) ([]stackitem.Item, error)
}

// Invoker allows to test-execute things using RPC client. It reuses the same
// signers list for a series of invocations and accepts regular Go types for
// call parameters. Results are returned as is, see unwrap package to convert
// them.
type Invoker struct {
	client  RPCInvoke
	signers []transaction.Signer
}

// New creates an Invoker with the given signers (which can be nil).
func New(client RPCInvoke, signers []transaction.Signer) *Invoker {
	return &Invoker{client, signers}
}

// Signers returns the set of signers used by Invoker.
func (v *Invoker) Signers() []transaction.Signer {
	if v.signers == nil {
		return nil
	}
	res := make([]transaction.Signer, len(v.signers))
	for i := range v.signers {
		res[i] = *v.signers[i].Copy()
	}
	return res
}

// Call invokes a method of the contract with the given parameters. Any value
// smartcontract.NewParameterFromValue accepts can be used as a parameter,
// *smartcontract.BuildError is returned for those that can't be.
func (v *Invoker) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	script, err := smartcontract.CreateCallScript(contract, operation, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s call script: %w", operation, err)
	}
	return v.Run(script)
}

// Verify invokes contract's verify method in the verification context with
// Invoker-specific signers and given witnesses and parameters.
func (v *Invoker) Verify(contract util.Uint160, witnesses []transaction.Witness, params ...any) (*result.Invoke, error) {
	ps, err := smartcontract.NewParametersFromValues(params...)
	if err != nil {
		return nil, err
	}
	return v.client.InvokeContractVerify(contract, ps, v.signers, witnesses...)
}

// Run executes the given script with Invoker-specific list of signers.
func (v *Invoker) Run(script []byte) (*result.Invoke, error) {
	return v.client.InvokeScript(script, v.signers)
}

// TerminateSession closes the given session, returning an error if anything
// goes wrong. Sessions expire on their own, but it's better to release them
// once the iterators are no longer needed.
func (v *Invoker) TerminateSession(sessionID uuid.UUID) error {
	s, ok := v.client.(RPCSessions)
	if !ok {
		return ErrNoSessions
	}
	r, err := s.TerminateSession(sessionID)
	if err != nil {
		return err
	}
	if !r {
		return errors.New("terminatesession returned false")
	}
	return nil
}

// TraverseIterator returns up to num (or the server default if num is not
// positive) next elements of the iterator. Values expanded in place by the
// server are returned first, then the session is asked for more if the
// iterator has an ID. An empty slice means there are no more elements.
func (v *Invoker) TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error) {
	if len(iterator.Values) != 0 {
		if num <= 0 || num > len(iterator.Values) {
			num = len(iterator.Values)
		}
		items := iterator.Values[:num]
		iterator.Values = iterator.Values[num:]
		return items, nil
	}
	if iterator.ID == nil {
		return []stackitem.Item{}, nil
	}
	s, ok := v.client.(RPCSessions)
	if !ok {
		return nil, ErrNoSessions
	}
	return s.TraverseIterator(sessionID, *iterator.ID, num)
}
