package txmanager

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nspcc-dev/neorpc-go/pkg/core/transaction"
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/address"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/context"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/nspcc-dev/neorpc-go/pkg/vm"
	"go.uber.org/zap"
)

// State is a state of the transaction in Tx.
type State byte

const (
	// Drafting is the state of a transaction being created.
	Drafting State = iota
	// AwaitingSignatures is the state of a transaction that has all fees
	// and needs signatures.
	AwaitingSignatures
	// Signed is the final state, the transaction has all of its witnesses.
	Signed
)

// String implements the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case Drafting:
		return "drafting"
	case AwaitingSignatures:
		return "awaiting signatures"
	case Signed:
		return "signed"
	default:
		return fmt.Sprintf("unknown (%d)", byte(s))
	}
}

// Tx is a transaction being signed. It's safe for concurrent use, signatures
// are added one at a time.
type Tx struct {
	mgr *Manager

	lock  sync.Mutex
	state State
	tx    *transaction.Transaction
	pctx  *context.ParameterContext
}

// State returns the current state of the transaction.
func (t *Tx) State() State {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.state
}

// Transaction returns a copy of the transaction in its current state.
func (t *Tx) Transaction() *transaction.Transaction {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.tx.Copy()
}

// Hash returns the hash of the transaction.
func (t *Tx) Hash() util.Uint256 {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.tx.Hash()
}

// SetFees replaces the fees of the transaction, it's only possible before
// the transaction is signed and drops all signatures collected so far.
func (t *Tx) SetFees(sysFee, netFee int64) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.state == Signed {
		return ErrAlreadySigned
	}
	if sysFee < 0 || netFee < 0 {
		return errors.New("negative fee")
	}
	if err := t.mgr.checkLimits(sysFee, netFee); err != nil {
		return err
	}
	t.tx.SystemFee = sysFee
	t.tx.NetworkFee = netFee
	t.resetSignatures()
	t.mgr.log.Debug("transaction fees changed",
		zap.Int64("sysfee", sysFee),
		zap.Int64("netfee", netFee))
	return nil
}

// AddSignature adds the signature made with the key for the signer with
// the given account. *SignatureMismatchError is returned if the signature
// is not valid or the key can't be used by the signer. The transaction
// becomes signed once all signers have enough signatures.
func (t *Tx) AddSignature(account util.Uint160, pub *keys.PublicKey, sig []byte) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.state == Signed {
		return ErrAlreadySigned
	}
	if pub == nil {
		return &SignatureMismatchError{Account: account, Err: ErrNoPublicKey}
	}
	i := t.signerIndex(account)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSigner, address.Uint160ToString(account))
	}
	if err := t.addSignature(i, pub, sig); err != nil {
		return err
	}
	return t.tryComplete()
}

// Sign signs the transaction with the key for every signer using it.
// ErrUnknownSigner is returned if there are no such signers.
func (t *Tx) Sign(kp KeyProvider) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.state == Signed {
		return ErrAlreadySigned
	}
	pub := kp.PublicKey()
	if pub == nil {
		return ErrNoPublicKey
	}
	var used bool
	for i := range t.tx.Scripts {
		if !hasKey(t.tx.Scripts[i].VerificationScript, pub) {
			continue
		}
		used = true
		if item, ok := t.pctx.Items[t.tx.Signers[i].Account]; ok && item.GetSignature(pub) != nil {
			continue
		}
		sig, err := kp.SignTx(t.mgr.network, t.tx)
		if err != nil {
			return fmt.Errorf("failed to sign for %s: %w", address.Uint160ToString(t.tx.Signers[i].Account), err)
		}
		if err := t.addSignature(i, pub, sig); err != nil {
			return err
		}
	}
	if !used {
		return fmt.Errorf("%w: key %s", ErrUnknownSigner, pub.StringCompressed())
	}
	return t.tryComplete()
}

// Signed returns a copy of the signed transaction or ErrIncompleteSignatures
// if some signatures are still missing.
func (t *Tx) Signed() (*transaction.Transaction, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.state != Signed {
		for i := range t.tx.Signers {
			h := t.tx.Signers[i].Account
			if !t.pctx.IsComplete(h) {
				return nil, fmt.Errorf("%w: signer %s", ErrIncompleteSignatures, address.Uint160ToString(h))
			}
		}
		return nil, ErrIncompleteSignatures
	}
	return t.tx.Copy(), nil
}

// MarshalJSON returns the context with the transaction and the signatures
// collected so far, it can be signed by other parties using
// context.ParameterContext.
func (t *Tx) MarshalJSON() ([]byte, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	return json.Marshal(t.pctx)
}

func (t *Tx) addSignature(i int, pub *keys.PublicKey, sig []byte) error {
	s := t.tx.Signers[i].Account
	err := t.pctx.AddSignature(s, t.tx.Scripts[i].VerificationScript, pub, sig)
	switch {
	case err == nil:
	case errors.Is(err, context.ErrInvalidSignature), errors.Is(err, context.ErrUnknownKey):
		return &SignatureMismatchError{Account: s, Key: pub, Err: err}
	default:
		return err
	}
	t.mgr.log.Debug("signature added",
		zap.String("signer", address.Uint160ToString(s)),
		zap.String("key", pub.StringCompressed()))
	return nil
}

// tryComplete makes witnesses when all signers have enough signatures.
func (t *Tx) tryComplete() error {
	for i := range t.tx.Signers {
		if !t.pctx.IsComplete(t.tx.Signers[i].Account) {
			return nil
		}
	}
	scripts := make([]transaction.Witness, len(t.tx.Signers))
	for i := range t.tx.Signers {
		w, err := t.pctx.GetWitness(t.tx.Signers[i].Account)
		if err != nil {
			return fmt.Errorf("failed to create witness: %w", err)
		}
		scripts[i] = *w
	}
	t.tx.Scripts = scripts
	t.setState(Signed)
	return nil
}

func (t *Tx) resetSignatures() {
	t.pctx = context.NewParameterContext(t.mgr.network, t.tx)
	for i := range t.tx.Scripts {
		t.tx.Scripts[i].InvocationScript = nil
	}
}

func (t *Tx) setState(s State) {
	t.state = s
	t.mgr.log.Debug("transaction state changed",
		zap.Stringer("hash", t.tx.Hash()),
		zap.Stringer("state", s),
		zap.Int64("sysfee", t.tx.SystemFee),
		zap.Int64("netfee", t.tx.NetworkFee),
		zap.Uint32("vub", t.tx.ValidUntilBlock))
}

func (t *Tx) signerIndex(account util.Uint160) int {
	for i := range t.tx.Signers {
		if t.tx.Signers[i].Account == account {
			return i
		}
	}
	return -1
}

func hasKey(script []byte, pub *keys.PublicKey) bool {
	b := pub.Bytes()
	if key, ok := vm.ParseSignatureContract(script); ok {
		return bytes.Equal(key, b)
	}
	_, pubs, _ := vm.ParseMultiSigContract(script)
	for i := range pubs {
		if bytes.Equal(pubs[i], b) {
			return true
		}
	}
	return false
}
