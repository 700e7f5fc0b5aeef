/*
Package txmanager creates transactions and collects their signatures.

A transaction goes through three states. It's drafted by Manager.Draft, that
test-invokes the script to get the system fee, reads fee settings from the
Policy contract to calculate the network fee and sets ValidUntilBlock
relative to the current height. Drafted transactions wait for signatures,
single-key signers need one, m-out-of-n multisignature signers need m of them
that can arrive in any order. Once every signer has enough signatures the
transaction gets its witnesses and becomes signed, no changes are allowed
after that. Signed transactions can be sent with Manager.Send.
*/
package txmanager

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neorpc-go/pkg/config/netmode"
	"github.com/nspcc-dev/neorpc-go/pkg/core/fee"
	"github.com/nspcc-dev/neorpc-go/pkg/core/transaction"
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/address"
	"github.com/nspcc-dev/neorpc-go/pkg/io"
	"github.com/nspcc-dev/neorpc-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neorpc-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neorpc-go/pkg/rpcclient/policy"
	"github.com/nspcc-dev/neorpc-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/context"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/nspcc-dev/neorpc-go/pkg/vm"
	"go.uber.org/zap"
)

// DefaultValidUntilHorizon is the number of blocks a transaction stays
// valid for by default (a day of 15-second blocks).
const DefaultValidUntilHorizon = 5760

// RPC is a set of RPC methods Manager needs, *rpcclient.Client implements it.
type RPC interface {
	invoker.RPCInvoke

	GetBlockCount() (uint32, error)
	GetVersion() (*result.Version, error)
	SendRawTransaction(tx *transaction.Transaction) (util.Uint256, error)
}

// KeyProvider holds a private key and signs transactions with it.
type KeyProvider interface {
	PublicKey() *keys.PublicKey
	// SignTx returns the signature of the transaction for the given
	// network, the transaction must not be changed.
	SignTx(net netmode.Magic, tx *transaction.Transaction) ([]byte, error)
}

// Signer is a transaction signer with its verification script. Only
// standard signature and multisignature scripts are supported. Account can
// be left empty, it's the script hash then.
type Signer struct {
	transaction.Signer
	Script []byte
}

// Options are Manager settings, zero values are replaced with defaults.
type Options struct {
	// ValidUntilHorizon is added to the current block count to get
	// ValidUntilBlock of drafted transactions.
	ValidUntilHorizon uint32
	// MaxSystemFee and MaxNetworkFee limit the fees of transactions (in
	// GAS fractions), zero means no limit.
	MaxSystemFee  int64
	MaxNetworkFee int64
	Logger        *zap.Logger
}

// Manager drafts transactions for a particular network.
type Manager struct {
	client  RPC
	opts    Options
	log     *zap.Logger
	network netmode.Magic
}

// New creates a Manager, it makes a GetVersion call to get the network magic
// used to sign transactions.
func New(client RPC, opts Options) (*Manager, error) {
	if opts.ValidUntilHorizon == 0 {
		opts.ValidUntilHorizon = DefaultValidUntilHorizon
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxSystemFee < 0 || opts.MaxNetworkFee < 0 {
		return nil, errors.New("negative fee limit")
	}
	v, err := client.GetVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to get network magic: %w", err)
	}
	return &Manager{
		client:  client,
		opts:    opts,
		log:     opts.Logger,
		network: v.Protocol.Network,
	}, nil
}

// Network returns the network transactions are signed for.
func (m *Manager) Network() netmode.Magic {
	return m.network
}

// Draft creates a transaction with the given script and signers (the first
// one is the sender) and calculates its fees and ValidUntilBlock.
// *FeeEstimationError is returned if the script fails or the fee settings
// can't be read, *InsufficientFundsError if fees exceed the limits.
func (m *Manager) Draft(script []byte, signers []Signer) (*Tx, error) {
	if len(script) == 0 {
		return nil, errors.New("empty script")
	}
	if len(signers) == 0 {
		return nil, ErrNoSigners
	}
	txSigners := make([]transaction.Signer, len(signers))
	witnesses := make([]transaction.Witness, len(signers))
	for i := range signers {
		s, err := checkSigner(signers[i])
		if err != nil {
			return nil, fmt.Errorf("signer #%d: %w", i, err)
		}
		for j := 0; j < i; j++ {
			if txSigners[j].Account == s.Account {
				return nil, fmt.Errorf("signer #%d: duplicate account %s", i, address.Uint160ToString(s.Account))
			}
		}
		txSigners[i] = s
		witnesses[i].VerificationScript = signers[i].Script
	}

	r, err := m.client.InvokeScript(script, txSigners)
	if err := unwrap.Check(r, err); err != nil {
		return nil, &FeeEstimationError{Err: err}
	}
	params, err := policy.NewReader(invoker.New(m.client, nil)).GetFeeParams()
	if err != nil {
		return nil, &FeeEstimationError{Err: fmt.Errorf("failed to get fee parameters: %w", err)}
	}
	count, err := m.client.GetBlockCount()
	if err != nil {
		return nil, fmt.Errorf("failed to get block count: %w", err)
	}

	tx := transaction.New(script, r.GasConsumed)
	tx.Signers = txSigners
	tx.Scripts = witnesses
	tx.ValidUntilBlock = count + m.opts.ValidUntilHorizon
	tx.NetworkFee, err = NetworkFee(tx, params)
	if err != nil {
		return nil, err
	}
	if err := m.checkLimits(tx.SystemFee, tx.NetworkFee); err != nil {
		return nil, err
	}

	t := &Tx{
		mgr:   m,
		state: Drafting,
		tx:    tx,
	}
	t.resetSignatures()
	t.setState(AwaitingSignatures)
	return t, nil
}

// Send sends a signed transaction to the network, ErrIncompleteSignatures
// is returned for transactions still waiting for signatures.
func (m *Manager) Send(t *Tx) (util.Uint256, error) {
	tx, err := t.Signed()
	if err != nil {
		return util.Uint256{}, err
	}
	h, err := m.client.SendRawTransaction(tx)
	if err != nil {
		return util.Uint256{}, err
	}
	m.log.Debug("transaction sent", zap.Stringer("hash", h))
	return h, nil
}

func (m *Manager) checkLimits(sysFee, netFee int64) error {
	if m.opts.MaxSystemFee != 0 && sysFee > m.opts.MaxSystemFee {
		return &InsufficientFundsError{Fee: "system", Required: sysFee, Limit: m.opts.MaxSystemFee}
	}
	if m.opts.MaxNetworkFee != 0 && netFee > m.opts.MaxNetworkFee {
		return &InsufficientFundsError{Fee: "network", Required: netFee, Limit: m.opts.MaxNetworkFee}
	}
	return nil
}

func checkSigner(s Signer) (transaction.Signer, error) {
	if !vm.IsSignatureContract(s.Script) && !vm.IsMultiSigContract(s.Script) {
		return transaction.Signer{}, context.ErrUnsupportedScript
	}
	res := *s.Signer.Copy()
	h := hash.Hash160(s.Script)
	if res.Account == (util.Uint160{}) {
		res.Account = h
	} else if res.Account != h {
		return transaction.Signer{}, fmt.Errorf("account %s doesn't match the script", address.Uint160ToString(res.Account))
	}
	return res, nil
}

// NetworkFee calculates the network fee of the transaction with standard
// signature and multisignature verification scripts in its witnesses. It
// includes the size of future invocation scripts, so the fee doesn't change
// after signing.
func NetworkFee(tx *transaction.Transaction, p policy.FeeParams) (int64, error) {
	if len(tx.Scripts) != len(tx.Signers) {
		return 0, transaction.ErrInvalidWitnessNum
	}
	hashable, err := tx.EncodeHashableFields()
	if err != nil {
		return 0, fmt.Errorf("failed to encode transaction: %w", err)
	}
	size := len(hashable) + io.GetVarSize(len(tx.Scripts))
	var netFee int64
	for i := range tx.Scripts {
		script := tx.Scripts[i].VerificationScript
		if !vm.IsSignatureContract(script) && !vm.IsMultiSigContract(script) {
			return 0, fmt.Errorf("witness #%d: %w", i, context.ErrUnsupportedScript)
		}
		f, sizeDelta := fee.Calculate(p.ExecFeeFactor, script)
		netFee += f
		size += sizeDelta
	}
	return netFee + int64(size)*p.FeePerByte, nil
}
